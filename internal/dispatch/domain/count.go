package domain

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a reported-count text cannot be parsed.
var ErrNotNumeric = errors.New("reported count must be a number")

// ParseCount parses a user-entered reported count. The value is "spoken"
// over radio and typed by the dispatcher, so both comma and dot decimal
// separators occur. Empty text means "no value" and yields nil.
func ParseCount(text string) (*float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	normalized := strings.ReplaceAll(trimmed, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil, ErrNotNumeric
	}
	return &value, nil
}
