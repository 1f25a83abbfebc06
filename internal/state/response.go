package state

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

// responseSchema describes the status API payload. Presence of the keys is
// checked separately so that a missing key can be told apart from a
// mistyped one.
var responseSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		keyHomeworks: {
			Type:        "array",
			Description: "Homework records changed since from_date, oldest first",
		},
		keyCurrentDate: {
			Type:        "integer",
			Description: "Server time to use as the next from_date",
		},
	},
}

var (
	documentSchema  = mustResolve(&jsonschema.Schema{Type: responseSchema.Type})
	homeworksSchema = mustResolve(responseSchema.Properties[keyHomeworks])
	dateSchema      = mustResolve(responseSchema.Properties[keyCurrentDate])
)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		panic(fmt.Sprintf("invalid status API schema: %v", err))
	}
	return resolved
}

// Record is one entry of the homeworks list, kept raw until it is
// translated.
type Record = json.RawMessage

// PollResponse is a validated status API payload.
type PollResponse struct {
	Homeworks   []Record
	CurrentDate int64
}

// Latest returns the last record of the response, the one the poll
// process acts on.
func (r *PollResponse) Latest() (Record, bool) {
	if len(r.Homeworks) == 0 {
		return nil, false
	}
	return r.Homeworks[len(r.Homeworks)-1], true
}

// ParseResponse decodes raw and enforces the payload shape. Any deviation
// rejects the whole payload.
func ParseResponse(raw []byte) (*PollResponse, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}
	if err := documentSchema.Validate(doc); err != nil {
		return nil, &Error{Kind: KindShape, Key: "$", Err: err}
	}
	obj := doc.(map[string]any)

	for _, key := range []string{keyHomeworks, keyCurrentDate} {
		if _, ok := obj[key]; !ok {
			return nil, &Error{Kind: KindMissingKey, Key: key}
		}
	}
	if err := homeworksSchema.Validate(obj[keyHomeworks]); err != nil {
		return nil, &Error{Kind: KindShape, Key: keyHomeworks, Err: err}
	}
	if err := dateSchema.Validate(obj[keyCurrentDate]); err != nil {
		return nil, &Error{Kind: KindShape, Key: keyCurrentDate, Err: err}
	}

	date := obj[keyCurrentDate].(float64)
	if date < math.MinInt64 || date >= math.MaxInt64 {
		return nil, &Error{Kind: KindShape, Key: keyCurrentDate, Err: fmt.Errorf("%g is out of range", date)}
	}

	var payload struct {
		Homeworks []Record `json:"homeworks"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}

	if payload.Homeworks == nil {
		payload.Homeworks = []Record{}
	}
	return &PollResponse{Homeworks: payload.Homeworks, CurrentDate: int64(date)}, nil
}
