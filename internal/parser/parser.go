package parser

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/game"
)

// Parse builds a game record from a box score document. locator is the page's URL and
// is used for the game date and to find the game in the league scoreboard.
// Missing facts degrade to their sentinel values; Parse never fails.
func Parse(doc *goquery.Document, locator string) *game.Record {
	away := ExtractAwayTeam(doc)
	home := ExtractHomeTeam(doc)
	awayScore, homeScore := ExtractScores(doc)
	date, _ := ExtractDate(locator)

	outcome, source, teamStats := ExtractTeamStats(doc, locator, home, away, homeScore, awayScore)

	return &game.Record{
		HomeTeam:       home,
		AwayTeam:       away,
		FinalScoreHome: homeScore,
		FinalScoreAway: awayScore,
		GameDate:       date,
		Outcome:        outcome,
		OutcomeSource:  source,
		PlayerStats:    ExtractPlayerStats(doc),
		TeamStats:      teamStats,
	}
}

// ParseHTML reads markup from r and parses it. The only error is an unreadable document.
func ParseHTML(r io.Reader, locator string) (*game.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return Parse(doc, locator), nil
}
