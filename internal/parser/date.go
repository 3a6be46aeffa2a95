package parser

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

var eightDigits = regexp.MustCompile(`\d{8}`)

// ExtractDate reads the game date from a box score locator such as
// https://www.hockey-reference.com/boxscores/202304150BOS.html. The first run of eight
// digits in the last path segment is read as YYYYMMDD and returned as YYYY-MM-DD.
// Locators without such a run, or with one that is not a calendar date, yield false.
func ExtractDate(locator string) (string, bool) {
	m := eightDigits.FindString(lastSegment(locator))
	if m == "" {
		return "", false
	}
	t, err := time.Parse("20060102", m)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// lastSegment returns the final path segment of a locator, ignoring query and fragment
func lastSegment(locator string) string {
	locator = strings.TrimSpace(locator)
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}
	parts := strings.Split(strings.TrimRight(locator, "/"), "/")
	return parts[len(parts)-1]
}
