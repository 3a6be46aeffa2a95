package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt reads a table cell as an integer. Everything but digits and '-' is dropped
// and anything left that is not a number reads as 0.
func ParseInt(s string) int {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ParseTOI converts "MM:SS" time on ice to seconds. Any other shape reads as 0.
func ParseTOI(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 {
		return 0
	}
	return minutes*60 + seconds
}

// faceoffLosses derives losses from wins and the win percentage column.
// Zero is returned whenever the percentage is missing or unusable.
func faceoffLosses(wins int, pct string) int {
	pct = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(pct), "%"))
	if pct == "" || wins <= 0 {
		return 0
	}
	p, err := strconv.ParseFloat(pct, 64)
	if err != nil || p <= 0 {
		return 0
	}
	total := int(math.Round(float64(wins) / (p / 100)))
	if total < wins {
		return 0
	}
	return total - wins
}
