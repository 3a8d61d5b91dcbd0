package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is returned when a numeric field typed at the prompt cannot be
// parsed. It never reaches storage.
type ParseError struct {
	Field string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", e.Field, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseID parses an employee id typed by the user.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "id", Raw: raw, Err: err}
	}
	return id, nil
}

// ParseAge parses an age typed by the user. A blank answer means the age is
// unknown and is stored as NULL.
func ParseAge(raw string) (*int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	age, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, &ParseError{Field: "age", Raw: raw, Err: err}
	}
	return &age, nil
}
