package parser

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

var digitRun = regexp.MustCompile(`\d+`)

// ExtractScores returns the final away and home scores from the score box.
// A score that cannot be found reads as 0.
func ExtractScores(doc *goquery.Document) (away, home int) {
	scores := texts(doc.Find("div.scorebox div.score"))
	return scoreAt(scores, 0), scoreAt(scores, 1)
}

func scoreAt(scores []string, idx int) int {
	if idx >= len(scores) {
		return 0
	}
	n, err := strconv.Atoi(digitRun.FindString(scores[idx]))
	if err != nil {
		return 0
	}
	return n
}
