package engine

import (
	"strings"
	"time"
)

// dateLayouts are tried in priority order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"2 January 2006",
	"2 Jan",
	"2 January",
}

// ParseDate parses free-text travel dates. It accepts the absolute layouts
// above plus the relative keywords "today", "tomorrow" and "tmrw". Year-less
// input is assumed to be in now's year. The result is a UTC calendar date.
func ParseDate(input string, now time.Time) (time.Time, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return time.Time{}, false
	}

	switch strings.ToLower(text) {
	case "today":
		return dateOnly(now), true
	case "tomorrow", "tmrw":
		return dateOnly(now.AddDate(0, 0, 1)), true
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		year := t.Year()
		if year == 0 {
			year = now.Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
