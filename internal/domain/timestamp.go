package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the on-disk format for every date in the help desk document.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local wall-clock time with second precision that serializes as
// "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds in local time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Second)}
}

// ParseTimestamp parses a value written in TimestampLayout as local time.
func ParseTimestamp(value string) (Timestamp, error) {
	parsed, err := time.ParseInLocation(TimestampLayout, value, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return Timestamp{Time: parsed}, nil
}

// MustParseTimestamp is ParseTimestamp for compile-time constants.
func MustParseTimestamp(value string) Timestamp {
	ts, err := ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return ts
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings decode to the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
