package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRegex = regexp.MustCompile(`(?i)\b(\d+)\s*(minutes?|mins?|months?|mo|hours?|hrs?|weeks?|wks?|days?|years?|yrs?|m|h|d|w|y)\b`)
	monthDayRegex = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\.?\s+(\d{1,2})\b`)
)

// ParsePostedAt resolves a post's timestamp. attr is the ISO value of a
// <time datetime> attribute when the page exposed one; text is the visible
// token ("3h", "2d ago", "January 5"). Relative tokens are anchored at now.
// ok is false when neither form parses; such posts never reach storage.
func ParsePostedAt(attr, text string, now time.Time) (time.Time, bool) {
	if attr != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, attr); err == nil {
				return ts, true
			}
		}
	}

	token := strings.ToLower(strings.TrimSpace(text))
	if token == "" {
		return time.Time{}, false
	}
	// Edited posts carry a suffix like "3h • Edited".
	if idx := strings.IndexAny(token, "•·"); idx >= 0 {
		token = strings.TrimSpace(token[:idx])
	}

	if token == "now" || token == "just now" {
		return now, true
	}

	if m := relativeRegex.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		unit := m[2]
		switch {
		case strings.HasPrefix(unit, "mo"):
			// Rough month arithmetic; anything this old is past any sane
			// days_limit and gets dropped downstream anyway.
			return now.Add(-time.Duration(n) * 30 * 24 * time.Hour), true
		case strings.HasPrefix(unit, "m"):
			return now.Add(-time.Duration(n) * time.Minute), true
		case strings.HasPrefix(unit, "h"):
			return now.Add(-time.Duration(n) * time.Hour), true
		case strings.HasPrefix(unit, "d"):
			return now.Add(-time.Duration(n) * 24 * time.Hour), true
		case strings.HasPrefix(unit, "w"):
			return now.Add(-time.Duration(n) * 7 * 24 * time.Hour), true
		case strings.HasPrefix(unit, "y"):
			return now.Add(-time.Duration(n) * 365 * 24 * time.Hour), true
		}
	}

	// Absolute "Month Day" strings: assume the current year, roll back one
	// if that would put the post in the future.
	if m := monthDayRegex.FindStringSubmatch(token); m != nil {
		parsed, err := time.Parse("January 2", normalizeMonth(m[1])+" "+m[2])
		if err != nil {
			return time.Time{}, false
		}
		ts := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		if ts.After(now) {
			ts = ts.AddDate(-1, 0, 0)
		}
		return ts, true
	}

	return time.Time{}, false
}

func normalizeMonth(m string) string {
	m = strings.ToLower(m)
	full := map[string]string{
		"jan": "January", "feb": "February", "mar": "March", "apr": "April",
		"may": "May", "jun": "June", "jul": "July", "aug": "August",
		"sep": "September", "oct": "October", "nov": "November", "dec": "December",
	}
	if long, ok := full[m[:3]]; ok {
		return long
	}
	return m
}
