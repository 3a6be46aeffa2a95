// Package locator pulls box score URLs out of free-form bulk text.
package locator

import (
	"bufio"
	"errors"
	"regexp"
	"strings"
)

// ErrNoLocators is returned when bulk text yields no usable locator
var ErrNoLocators = errors.New("no valid box score URLs found")

var hockeyReference = regexp.MustCompile(`https?://(?:www\.)?hockey-reference\.com/[^\s"'<>]+`)

// trailing punctuation picked up from prose ("see https://...html.")
const trailing = ".,;:!?)]}"

// Extract returns the locators found in text, one candidate per line, in first-seen order
// with duplicates removed. A line is used for its hockey-reference.com URL when it has one;
// otherwise a trimmed line starting with "http" is kept verbatim. Other lines are dropped.
func Extract(text string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		loc, ok := fromLine(sc.Text())
		if !ok || seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, loc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoLocators
	}
	return out, nil
}

func fromLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if m := hockeyReference.FindString(line); m != "" {
		return strings.TrimRight(m, trailing), true
	}
	if strings.HasPrefix(line, "http") {
		return line, true
	}
	return "", false
}
