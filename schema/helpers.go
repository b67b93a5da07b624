package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCell converts the text of a sheet cell into a Cell.
// Blank text is an absent cell. Anything else must be a non-negative integer.
func ParseCell(text string) (Cell, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Cell{}, nil
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %q is not an integer", text)
	}
	if v < 0 {
		return Cell{}, fmt.Errorf("cell %q is negative", text)
	}
	return Cell{Value: v, Present: true}, nil
}

// FormatCell converts a Cell back into sheet text. It is the inverse of ParseCell.
func FormatCell(c Cell) string {
	if !c.Present {
		return ""
	}
	return strconv.FormatInt(c.Value, 10)
}

// CountPresent returns how many cells hold a value.
func CountPresent(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c.Present {
			n++
		}
	}
	return n
}

// MetricNames returns the display names of MetricSet in order.
func MetricNames() []string {
	names := make([]string, len(MetricSet))
	for i, m := range MetricSet {
		names[i] = m.Name
	}
	return names
}

// IsFilled reports whether every metric of the row holds a value.
func (r KPIRow) IsFilled() bool {
	return len(r.Values) == len(MetricSet) && CountPresent(r.Values) == len(MetricSet)
}
