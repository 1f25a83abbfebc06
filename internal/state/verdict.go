package state

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

const (
	fieldName   = "homework_name"
	fieldStatus = "status"
)

var recordSchema = mustResolve(&jsonschema.Schema{Type: "object"})

var verdicts = map[string]string{
	StatusApproved:  "Work reviewed: reviewer liked it. Hooray!",
	StatusReviewing: "Work taken up for review.",
	StatusRejected:  "Work reviewed: reviewer has comments.",
}

// Verdict returns the fixed text for a known homework status.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// ParseStatus turns a homework record into the notification text for its
// current status.
func ParseStatus(record Record) (string, error) {
	var doc any
	if err := json.Unmarshal(record, &doc); err != nil {
		return "", &Error{Kind: KindDecode, Err: err}
	}
	if err := recordSchema.Validate(doc); err != nil {
		return "", &Error{Kind: KindShape, Key: "homework", Err: err}
	}
	fields := doc.(map[string]any)

	rawName, ok := fields[fieldName]
	if !ok {
		return "", &Error{Kind: KindMissingField, Key: fieldName}
	}
	name, ok := rawName.(string)
	if !ok {
		return "", &Error{Kind: KindMissingField, Key: fieldName, Err: fmt.Errorf("value %v is not a string", rawName)}
	}

	rawStatus, ok := fields[fieldStatus]
	if !ok {
		return "", &Error{Kind: KindUnknownStatus, Status: "<missing>"}
	}
	status, ok := rawStatus.(string)
	if !ok {
		return "", &Error{Kind: KindUnknownStatus, Status: fmt.Sprintf("%v", rawStatus)}
	}
	verdict, ok := Verdict(status)
	if !ok {
		return "", &Error{Kind: KindUnknownStatus, Status: status}
	}

	return fmt.Sprintf(`Status review changed for "%s". %s`, name, verdict), nil
}
