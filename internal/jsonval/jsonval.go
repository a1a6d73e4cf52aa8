// Package jsonval provides typed readers over decoded JSON objects.
//
// The YouTube Data API delivers resources as flat JSON objects whose members
// need field-level coercion: numbers that arrive as decimal strings,
// ISO 8601 timestamps and durations, string lists, nested sections. Each
// reader here takes an Object positioned at the enclosing resource, a member
// name and option flags, and returns (value, ok, error). Shape mismatches are
// reported as a *FieldError naming the offending member.
package jsonval

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Flags adjust how a member is read.
type Flags uint8

const (
	// Default accepts an absent or null member and reports ok=false.
	Default Flags = 0
	// Required fails with ErrMissing when the member is absent or null.
	Required Flags = 1 << iota
	// NonEmpty treats an empty string value as absent. Combined with
	// Required, an empty string fails with ErrMissing.
	NonEmpty
)

// Sentinel parse errors. Wrapped errors match with errors.Is.
var (
	ErrMissing   = errors.New("required field missing")
	ErrDuplicate = errors.New("duplicate field")
	ErrFormat    = errors.New("malformed field")
)

// FieldError reports a shape mismatch on a named member.
type FieldError struct {
	Field string
	Kind  error // one of the sentinels above
	Msg   string
}

func (e *FieldError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Kind, e.Msg)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// Missing returns an ErrMissing error naming field. Entity parsers use it
// for required fields whose absence only shows after cross-member checks.
func Missing(field string) error {
	return &FieldError{Field: field, Kind: ErrMissing}
}

// Format returns an ErrFormat error naming field.
func Format(field, msg string) error {
	return &FieldError{Field: field, Kind: ErrFormat, Msg: msg}
}

func missingErr(field string) error { return Missing(field) }

func formatErr(field, msg string) error { return Format(field, msg) }

// Claim marks the slot guarding field as populated. It fails with
// ErrDuplicate if the slot was already claimed, which happens when two wire
// members map onto the same logical field.
func Claim(field string, populated *bool) error {
	if *populated {
		return &FieldError{Field: field, Kind: ErrDuplicate}
	}
	*populated = true
	return nil
}

// Object is a decoded JSON object with its members left raw.
type Object map[string]json.RawMessage

// Decode unmarshals data into an Object. The top-level value must be a JSON
// object.
func Decode(data []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return obj, nil
}

// isNull reports whether raw is absent or a JSON null.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (o Object) member(name string, flags Flags) (json.RawMessage, bool, error) {
	raw, present := o[name]
	if !present || isNull(raw) {
		if flags&Required != 0 {
			return nil, false, missingErr(name)
		}
		return nil, false, nil
	}
	return raw, true, nil
}

// String reads a string member. With NonEmpty, an empty string is treated as
// absent.
func (o Object) String(name string, flags Flags) (string, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return "", false, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, formatErr(name, "not a string")
	}
	if s == "" && flags&NonEmpty != 0 {
		if flags&Required != 0 {
			return "", false, missingErr(name)
		}
		return "", false, nil
	}
	return s, true, nil
}

// Bool reads a boolean member. Only the two JSON boolean literals are
// accepted.
func (o Object) Bool(name string, flags Flags) (bool, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return false, false, err
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false, formatErr(name, "not a boolean")
	}
	return b, true, nil
}

// Int reads a JSON number member as an int64.
func (o Object) Int(name string, flags Flags) (int64, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return 0, false, err
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false, formatErr(name, "not an integer")
	}
	return n, true, nil
}

// Float reads a JSON number member as a float64.
func (o Object) Float(name string, flags Flags) (float64, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return 0, false, err
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false, formatErr(name, "not a number")
	}
	return f, true, nil
}

// UintString reads an unsigned integer delivered as a decimal string. The
// v3 statistics section uses this encoding even though the values are
// documented as numbers. Non-numeric content or overflow fails with
// ErrFormat; the value is never silently coerced to zero.
func (o Object) UintString(name string, flags Flags) (uint64, bool, error) {
	s, ok, err := o.String(name, flags)
	if !ok {
		return 0, false, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, formatErr(name, fmt.Sprintf("%q is not a decimal integer", s))
	}
	return n, true, nil
}

// Time reads an ISO 8601 timestamp member, truncated to whole seconds.
func (o Object) Time(name string, flags Flags) (time.Time, bool, error) {
	s, ok, err := o.String(name, flags)
	if !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, formatErr(name, fmt.Sprintf("%q is not an ISO 8601 timestamp", s))
	}
	return t.Truncate(time.Second), true, nil
}

// Date reads an ISO 8601 date or timestamp member, truncated to the whole
// day in UTC.
func (o Object) Date(name string, flags Flags) (time.Time, bool, error) {
	s, ok, err := o.String(name, flags)
	if !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return time.Time{}, false, formatErr(name, fmt.Sprintf("%q is not an ISO 8601 date", s))
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true, nil
}

// Duration reads an ISO 8601 duration member of the limited grammar
// PT(nH)?(nM)?(nS)? and returns the total whole seconds. All three components
// may be absent, giving zero. Date designators and anything else outside the
// grammar fail with ErrFormat.
func (o Object) Duration(name string, flags Flags) (int64, bool, error) {
	s, ok, err := o.String(name, flags)
	if !ok {
		return 0, false, err
	}
	secs, err := parseDuration(s)
	if err != nil {
		return 0, false, formatErr(name, fmt.Sprintf("%q is not an ISO 8601 duration", s))
	}
	return secs, true, nil
}

var errBadDuration = errors.New("bad duration")

func parseDuration(s string) (int64, error) {
	if len(s) < 2 || s[0] != 'P' || s[1] != 'T' {
		return 0, errBadDuration
	}
	rest := s[2:]
	var total int64
	for len(rest) > 0 {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i == len(rest) {
			return 0, errBadDuration
		}
		n, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return 0, errBadDuration
		}
		switch rest[i] {
		case 'H':
			total += n * 3600
		case 'M':
			total += n * 60
		case 'S':
			total += n
		default:
			return 0, errBadDuration
		}
		rest = rest[i+1:]
	}
	return total, nil
}

// Strings reads a string array member. An empty array is preserved as an
// empty, non-nil slice, distinct from an absent member.
func (o Object) Strings(name string, flags Flags) ([]string, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return nil, false, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, formatErr(name, "not an array of strings")
	}
	if list == nil {
		list = []string{}
	}
	return list, true, nil
}

// Object reads a nested object member for recursive parsing.
func (o Object) Object(name string, flags Flags) (Object, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return nil, false, err
	}
	var nested Object
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, false, formatErr(name, "not an object")
	}
	return nested, true, nil
}

// Array reads an array member, leaving the elements raw for the caller's
// element reader.
func (o Object) Array(name string, flags Flags) ([]json.RawMessage, bool, error) {
	raw, ok, err := o.member(name, flags)
	if !ok {
		return nil, false, err
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false, formatErr(name, "not an array")
	}
	return elems, true, nil
}
