package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrInvalidString = errors.New("must be a string or null")

// OptionalString is a JSON string that remembers whether the key was present.
// A present null leaves Value nil.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidString
	}

	o.Value = &raw

	return nil
}

// Ptr returns the value, nil when absent or null.
func (o OptionalString) Ptr() *string {
	return o.Value
}
