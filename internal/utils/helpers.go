package utils

import (
	"fmt"
	"strings"
	"time"
)

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Blank strings give nil.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	parse := func(name, s string) (*time.Time, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		t, err := ParseYMD(s)
		if err != nil {
			return nil, fmt.Errorf("%s invalid (YYYY-MM-DD): %w", name, err)
		}
		return &t, nil
	}
	f, err := parse("from", from)
	if err != nil {
		return nil, nil, err
	}
	t, err := parse("to", to)
	if err != nil {
		return nil, nil, err
	}
	if f != nil && t != nil && t.Before(*f) {
		return nil, nil, fmt.Errorf("to %s is before from %s", to, from)
	}
	return f, t, nil
}
