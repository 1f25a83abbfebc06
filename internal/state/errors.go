package state

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

// Kind classifies every failure a poll cycle can run into.
type Kind int

const (
	KindUnexpected Kind = iota
	KindTransport
	KindHTTPStatus
	KindDecode
	KindShape
	KindMissingKey
	KindMissingField
	KindUnknownStatus
	KindNotify
)

var kindNames = map[Kind]string{
	KindUnexpected:    "unexpected",
	KindTransport:     "transport",
	KindHTTPStatus:    "http_status",
	KindDecode:        "decode",
	KindShape:         "shape",
	KindMissingKey:    "missing_key",
	KindMissingField:  "missing_field",
	KindUnknownStatus: "unknown_status",
	KindNotify:        "notify",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Error is the single error type produced by the poll pipeline. Only the
// fields relevant to Kind are set.
type Error struct {
	Kind Kind
	// Key names the response key or record field involved.
	Key string
	// Status is the raw status value of a record, rendered with %v.
	Status string
	// Code is the HTTP status code for KindHTTPStatus.
	Code int
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindTransport:
		msg = "request to status API failed"
	case KindHTTPStatus:
		msg = fmt.Sprintf("status API returned HTTP %d", e.Code)
	case KindDecode:
		msg = "status API response is not valid JSON"
	case KindShape:
		msg = fmt.Sprintf("unexpected type of %q in status API response", e.Key)
	case KindMissingKey:
		msg = fmt.Sprintf("key %q is missing from status API response", e.Key)
	case KindMissingField:
		msg = fmt.Sprintf("field %q is missing from homework record", e.Key)
	case KindUnknownStatus:
		msg = fmt.Sprintf("undocumented homework status %q", e.Status)
	case KindNotify:
		msg = "failed to deliver notification"
	default:
		msg = "unexpected failure"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Alerting reports whether the failure should also be sent through the
// notifier. Missing keys are treated as transient upstream inconsistencies.
func (e *Error) Alerting() bool {
	return e.Kind != KindMissingKey
}

// Fingerprint identifies a failure for alert deduplication. It is built
// from the kind and structured fields so that incidental differences in
// the wrapped cause (timestamps, ports, addresses) do not defeat it.
func (e *Error) Fingerprint() string {
	switch e.Kind {
	case KindTransport:
		return e.Kind.String() + ":" + TransportCause(e.Err)
	case KindHTTPStatus:
		return e.Kind.String() + ":" + strconv.Itoa(e.Code)
	case KindShape, KindMissingKey, KindMissingField:
		return e.Kind.String() + ":" + e.Key
	case KindUnknownStatus:
		return e.Kind.String() + ":" + e.Status
	case KindUnexpected:
		if e.Err != nil {
			return e.Kind.String() + ":" + e.Err.Error()
		}
	}
	return e.Kind.String()
}

// TransportCause classifies a network failure as timeout, dns, refused,
// reset or other.
func TransportCause(err error) string {
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case err == nil:
		return "other"
	case errors.As(err, &dnsErr):
		return "dns"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "reset"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	}
	return "other"
}

// AsError returns err as a pipeline *Error, wrapping anything foreign
// as KindUnexpected.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindUnexpected, Err: err}
}
