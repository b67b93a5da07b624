package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
)

// ParseEntry validates one metric value typed by the operator.
// It accepts a base-10 integer that is zero or more, ignoring surrounding whitespace.
func ParseEntry(token string) (int64, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: a whole number is required", contract.ErrInvalidInput)
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", contract.ErrInvalidInput, trimmed)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q cannot be negative", contract.ErrInvalidInput, trimmed)
	}
	return v, nil
}

// ParseDateKey validates a date typed by the operator in DD/MM/YYYY form.
func ParseDateKey(token string) (schema.DateKey, error) {
	trimmed := strings.TrimSpace(token)
	if _, err := time.Parse(schema.DateLayout, trimmed); err != nil {
		return "", fmt.Errorf("%w: %q is not a date in the format DD/MM/YYYY, e.g. 22/02/2022", contract.ErrInvalidInput, trimmed)
	}
	return schema.DateKey(trimmed), nil
}
