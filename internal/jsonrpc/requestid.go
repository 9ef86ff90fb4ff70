package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// RequestID is a JSON-RPC id, which may be a string or a number. The zero
// value (and a nil pointer) is the absent id of a notification.
type RequestID struct {
	raw json.RawMessage
}

// NewRequestID builds an id from a string or numeric value. Unsupported
// types yield an absent id.
func NewRequestID(value any) *RequestID {
	switch value.(type) {
	case string, int, int32, int64, uint, uint32, uint64, float32, float64:
		raw, err := json.Marshal(value)
		if err != nil {
			return &RequestID{}
		}
		return &RequestID{raw: raw}
	default:
		return &RequestID{}
	}
}

// IsNil reports whether the id is absent.
func (id *RequestID) IsNil() bool {
	return id == nil || len(id.raw) == 0
}

// String renders the id for logs. Strings are unquoted.
func (id *RequestID) String() string {
	if id.IsNil() {
		return ""
	}
	var s string
	if err := json.Unmarshal(id.raw, &s); err == nil {
		return s
	}
	return string(id.raw)
}

// MarshalJSON implements json.Marshaler.
func (id *RequestID) MarshalJSON() ([]byte, error) {
	if id.IsNil() {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only strings and numbers are
// accepted, per JSON-RPC 2.0.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case nil:
		// Explicit null is treated as an absent id.
		id.raw = nil
		return nil
	case string, float64:
		id.raw = append(id.raw[:0], data...)
		return nil
	default:
		return fmt.Errorf("request id must be a string or number")
	}
}
