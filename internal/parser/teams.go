package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/game"
)

const (
	skaterTableSuffix = "_skaters"
	skaterTables      = `table[id$="` + skaterTableSuffix + `"]`
)

var (
	// "Toronto Maple Leafs @ Boston Bruins Box Score, April 15, 2023"
	titleAt = regexp.MustCompile(`^\s*([^@]+?)\s*@\s*([^,\-|]+)`)
	// "Toronto Maple Leafs vs Boston Bruins - ..."
	titleVs = regexp.MustCompile(`^\s*(.+?)\s+vs\.?\s+([^,\-|]+)`)
)

// scoreboxStrong reads the bold team markers in the score box
func scoreboxStrong(doc *goquery.Document) []string {
	return texts(doc.Find("div.scorebox strong"))
}

// teamLinks reads links to team pages, score box first and then the whole page
func teamLinks(doc *goquery.Document) []string {
	links := doc.Find(`div.scorebox a[href*="/teams/"]`)
	if links.Length() == 0 {
		links = doc.Find(`a[href*="/teams/"]`)
	}
	return texts(links)
}

// titleTeams matches the page title against "<away> @ <home>" and "<away> vs <home>"
func titleTeams(doc *goquery.Document) []string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return nil
	}
	for _, re := range []*regexp.Regexp{titleAt, titleVs} {
		if m := re.FindStringSubmatch(title); m != nil {
			return []string{cleanTitleTeam(m[1]), cleanTitleTeam(m[2])}
		}
	}
	return nil
}

// cleanTitleTeam drops the " Box Score" trailer hockey-reference appends to titles
func cleanTitleTeam(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(strings.ToLower(s), " box score"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// tableAbbreviations derives team abbreviations from skater table ids
func tableAbbreviations(doc *goquery.Document) []string {
	out := make([]string, 0, 2)
	doc.Find(skaterTables).Each(func(_ int, table *goquery.Selection) {
		out = append(out, teamLabel(table))
	})
	return out
}

// teamLabel upper-cases a skater table id with its suffix removed
func teamLabel(table *goquery.Selection) string {
	id, _ := table.Attr("id")
	return strings.ToUpper(strings.TrimSuffix(id, skaterTableSuffix))
}

var teamCandidates = []candidates{scoreboxStrong, teamLinks, titleTeams, tableAbbreviations}

func teamChain(idx int) []strategy[string] {
	chain := make([]strategy[string], 0, len(teamCandidates))
	for _, c := range teamCandidates {
		chain = append(chain, at(c, idx))
	}
	return chain
}

// ExtractAwayTeam returns the away team name or game.UnknownAwayTeam
func ExtractAwayTeam(doc *goquery.Document) string {
	if name, ok := firstOf(doc, teamChain(0)...); ok {
		return name
	}
	return game.UnknownAwayTeam
}

// ExtractHomeTeam returns the home team name or game.UnknownHomeTeam
func ExtractHomeTeam(doc *goquery.Document) string {
	if name, ok := firstOf(doc, teamChain(1)...); ok {
		return name
	}
	return game.UnknownHomeTeam
}
