package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRange parses a raw coordinate string of the form "start-end" as
// found in junction quantification tables. Both coordinates must be
// positive integers; order is normalized so start <= end.
func ParseRange(s string) (start, end int64, err error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed coordinate %q: missing separator", s)
	}
	start, err = strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed coordinate %q: %w", s, err)
	}
	end, err = strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed coordinate %q: %w", s, err)
	}
	if start <= 0 || end <= 0 {
		return 0, 0, fmt.Errorf("malformed coordinate %q: non-positive position", s)
	}
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}
