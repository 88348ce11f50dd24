package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"todoapi/shared/constant"
	"todoapi/shared/timezone"
)

var ErrInvalidTimestamp = errors.New("use a date (YYYY-MM-DD) or an RFC3339 timestamp")

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	constant.DayFormat,
}

// OptionalTime is a JSON timestamp that remembers whether the key was present.
// A present null or empty string clears the value.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidTimestamp
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}

	o.Value = &parsed

	return nil
}

// Ptr returns the parsed time, nil when absent or cleared.
func (o OptionalTime) Ptr() *time.Time {
	return o.Value
}

// ParseTimestamp accepts RFC3339 (with or without fraction), a zone-less
// datetime or a date. Zone-less values are read in the application zone.
// The result is in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		parsed, err := timezone.Parse(layout, raw)
		if err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidTimestamp
}

// FormatTimestamp renders t like the metadata timestamps, in the application
// zone with fractional seconds. nil stays nil.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
