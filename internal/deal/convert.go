package deal

import (
	"strconv"
	"strings"
	"time"
)

// ToFloat parses a table cell as a float. Empty, "nan" and unparsable
// values coerce to nil rather than failing.
func ToFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ToInt parses a table cell as an int, accepting decimal notation.
func ToInt(s string) *int {
	f := ToFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// ToBool parses a table cell as a tri-state bool. Anything outside the
// recognized spellings is nil.
func ToBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		v := true
		return &v
	case "false", "0", "no", "n":
		v := false
		return &v
	}
	return nil
}

// ParseTime parses an RFC 3339 timestamp. Unparsable values sort as the
// zero time so a row with a valid timestamp always beats one without.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

// NowISO is the capture timestamp format shared by every stage.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatFloat renders an optional float for tables and identity hashing.
// The rendering must stay stable across runs; nil is the empty string.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatInt renders an optional int, nil as the empty string.
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatBool renders an optional bool, nil as the empty string.
func FormatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
