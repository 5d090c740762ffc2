package taskdash

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// UserID identifies the caller to the backend. It keeps the subject claim
// exactly as it was encoded in the token: either a JSON number or a JSON
// string.
type UserID struct {
	raw string
}

// ParseUserID builds a UserID from its textual form, as found in a URL path
// or on the command line. Numeric text yields a numeric identifier.
func ParseUserID(s string) UserID {
	if s == "" {
		return UserID{}
	}
	if json.Valid([]byte(s)) && isNumber(s) {
		return UserID{raw: s}
	}
	b, _ := json.Marshal(s)
	return UserID{raw: string(b)}
}

func (u UserID) IsZero() bool { return u.raw == "" }

// Blank reports whether the identifier is absent, the number zero or the
// empty string. No account is ever known by a blank identifier.
func (u UserID) Blank() bool {
	switch {
	case u.raw == "", u.raw == `""`:
		return true
	case u.IsNumeric():
		f, err := strconv.ParseFloat(u.raw, 64)
		return err == nil && f == 0
	}
	return false
}

// IsNumeric reports whether the identifier was encoded as a JSON number.
func (u UserID) IsNumeric() bool { return u.raw != "" && isNumber(u.raw) }

func (u UserID) String() string {
	if u.raw == "" || u.IsNumeric() {
		return u.raw
	}
	var s string
	if err := json.Unmarshal([]byte(u.raw), &s); err != nil {
		return u.raw
	}
	return s
}

// Raw returns the JSON encoding the identifier was read from.
func (u UserID) Raw() string { return u.raw }

func (u UserID) MarshalJSON() ([]byte, error) {
	if u.raw == "" {
		return []byte("null"), nil
	}
	return []byte(u.raw), nil
}

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*u = UserID{}
		return nil
	}
	if len(b) == 0 || !json.Valid(b) {
		return ErrInvalidUserID
	}
	if b[0] != '"' && !isNumber(string(b)) {
		return ErrInvalidUserID
	}
	*u = UserID{raw: string(b)}
	return nil
}

func (u UserID) Value() (driver.Value, error) { return u.raw, nil }

func (u *UserID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*u = UserID{}
	case string:
		*u = UserID{raw: v}
	case []byte:
		*u = UserID{raw: string(v)}
	case int64:
		*u = UserID{raw: strconv.FormatInt(v, 10)}
	default:
		return fmt.Errorf("cannot scan %T into UserID", src)
	}
	return nil
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// StatusError carries a non-2xx backend response to the caller unchanged.
type StatusError struct {
	Code   int
	Status string
	Body   []byte
}

func (e *StatusError) Error() string {
	if m := e.Message(); m != "" {
		return fmt.Sprintf("%s: %s", e.Status, m)
	}
	return e.Status
}

// Message returns the "message" field of a JSON error body, if any.
func (e *StatusError) Message() string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil || len(body.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Message, &s); err == nil {
		return s
	}
	// Validation pipes report a list of messages.
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsConflict(err error) bool { return StatusCode(err) == http.StatusConflict }

var (
	ErrInvalidUserID = errors.New("user ID must be a JSON number or string")
)
