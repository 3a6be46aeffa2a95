package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/game"
)

var (
	shootoutToken = regexp.MustCompile(`\bSO\b`)
	overtimeToken = regexp.MustCompile(`\bOT\b`)
	seasonRecord  = regexp.MustCompile(`\((\d+)-(\d+)(?:-(\d+))?(?:-(\d+))?(?:-(\d+))?\)`)
)

// matchup is what the outcome extractors know about the game before classifying it
type matchup struct {
	locator   string
	home      string
	away      string
	homeScore int
	awayScore int
}

// teamLines is the outcome of a classification: both team lines plus how they were derived
type teamLines struct {
	outcome game.Outcome
	source  game.OutcomeSource
	away    game.TeamStat
	home    game.TeamStat
}

// ExtractTeamStats classifies the game and builds the away and home team lines.
//
// The league scoreboard is consulted first. Only when the game cannot be found there
// are the season records printed next to the team names used, and when neither is
// present the game is treated as decided in regulation.
func ExtractTeamStats(doc *goquery.Document, locator, home, away string, homeScore, awayScore int) (game.Outcome, game.OutcomeSource, []game.TeamStat) {
	m := matchup{locator: locator, home: home, away: away, homeScore: homeScore, awayScore: awayScore}

	lines, ok := firstOf[teamLines](doc, m.fromScoreboard, m.fromSeasonRecords)
	if !ok {
		lines = m.linesFor(game.OutcomeRegulation, game.SourceScore)
	}
	return lines.outcome, lines.source, []game.TeamStat{lines.away, lines.home}
}

// ClassifyOutcome looks the game up in the league scoreboard and reads its OT / SO marker.
func ClassifyOutcome(doc *goquery.Document, locator, home, away string) (game.Outcome, bool) {
	text, ok := scoreboardEntry(doc, locator, home, away)
	if !ok {
		return "", false
	}
	switch {
	case shootoutToken.MatchString(text):
		return game.OutcomeShootout, true
	case overtimeToken.MatchString(text):
		return game.OutcomeOvertime, true
	default:
		return game.OutcomeRegulation, true
	}
}

func (m matchup) fromScoreboard(doc *goquery.Document) (teamLines, bool) {
	outcome, ok := ClassifyOutcome(doc, m.locator, m.home, m.away)
	if !ok {
		return teamLines{}, false
	}
	return m.linesFor(outcome, game.SourceScoreboard), true
}

// linesFor gives the winner a win and the loser exactly one kind of loss
func (m matchup) linesFor(outcome game.Outcome, source game.OutcomeSource) teamLines {
	homeWon := m.homeScore > m.awayScore
	awayWon := m.awayScore > m.homeScore
	tied := m.homeScore == m.awayScore

	lines := teamLines{
		outcome: outcome,
		source:  source,
		away:    m.baseLine(false),
		home:    m.baseLine(true),
	}
	applyResult(&lines.away, awayWon, homeWon, tied, outcome)
	applyResult(&lines.home, homeWon, awayWon, tied, outcome)
	return lines
}

func applyResult(ts *game.TeamStat, won, lost, tied bool, outcome game.Outcome) {
	switch {
	case won:
		ts.Wins = 1
	case tied:
		ts.Ties = 1
	case lost:
		switch outcome {
		case game.OutcomeShootout:
			ts.ShootoutLosses = 1
		case game.OutcomeOvertime:
			ts.OvertimeLosses = 1
		default:
			ts.Losses = 1
		}
	}
}

func (m matchup) baseLine(isHome bool) game.TeamStat {
	if isHome {
		return game.TeamStat{TeamName: m.home, IsHome: true, Goals: m.homeScore, GoalsAgainst: m.awayScore}
	}
	return game.TeamStat{TeamName: m.away, Goals: m.awayScore, GoalsAgainst: m.homeScore}
}

// scoreboardEntry returns the text describing this game in the league scoreboard.
// A link to the same box score file is preferred over one that merely names a team.
func scoreboardEntry(doc *goquery.Document, locator, home, away string) (string, bool) {
	region := doc.Find("#scores, div.scores, div.game_summaries").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest(".scorebox").Length() == 0
	})
	links := region.Find("a[href]")
	if links.Length() == 0 {
		return "", false
	}

	file := strings.ToLower(lastSegment(locator))
	var byFile, byTeam *goquery.Selection
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if file != "" && strings.EqualFold(lastSegment(href), file) {
			byFile = a
			return false
		}
		if byTeam == nil && mentionsTeam(a.Text(), home, away) {
			byTeam = a
		}
		return true
	})

	link := byFile
	if link == nil {
		link = byTeam
	}
	if link == nil {
		return "", false
	}
	if summary := link.Closest(".game_summary"); summary.Length() > 0 {
		return summary.Text(), true
	}
	return link.Text(), true
}

func mentionsTeam(text, home, away string) bool {
	text = strings.ToLower(text)
	for _, team := range []string{home, away} {
		if team == "" || team == game.UnknownHomeTeam || team == game.UnknownAwayTeam {
			continue
		}
		if strings.Contains(text, strings.ToLower(team)) {
			return true
		}
	}
	return false
}

// fromSeasonRecords reads the "(W-L-T-OTL-SOL)" record printed next to each team.
// The team lines then carry season totals rather than a single game's result.
func (m matchup) fromSeasonRecords(doc *goquery.Document) (teamLines, bool) {
	awayRec, awayOK := teamRecord(doc, m.away)
	homeRec, homeOK := teamRecord(doc, m.home)
	if !awayOK && !homeOK {
		return teamLines{}, false
	}

	lines := teamLines{
		outcome: game.OutcomeRegulation,
		source:  game.SourceSeasonRecord,
		away:    m.baseLine(false),
		home:    m.baseLine(true),
	}
	awayRec.applyTo(&lines.away)
	homeRec.applyTo(&lines.home)
	return lines, true
}

type record struct {
	wins, losses, ties, overtimeLosses, shootoutLosses int
}

func (r record) applyTo(ts *game.TeamStat) {
	ts.Wins = r.wins
	ts.Losses = r.losses
	ts.Ties = r.ties
	ts.OvertimeLosses = r.overtimeLosses
	ts.ShootoutLosses = r.shootoutLosses
}

// parseRecord reads a parenthesized season record. With four or more numbers the third
// is ties and the fourth overtime losses; with three the third is overtime losses.
// The fifth number, when present, is shootout losses.
func parseRecord(text string) (record, bool) {
	g := seasonRecord.FindStringSubmatch(text)
	if g == nil {
		return record{}, false
	}
	n := func(i int) int {
		v, _ := strconv.Atoi(g[i])
		return v
	}
	r := record{wins: n(1), losses: n(2), shootoutLosses: n(5)}
	if g[4] != "" {
		r.ties = n(3)
		r.overtimeLosses = n(4)
	} else {
		r.overtimeLosses = n(3)
	}
	return r, true
}

// teamRecord looks for a record inside the score box block naming the team, then
// next to any link to the team's page.
func teamRecord(doc *goquery.Document, team string) (record, bool) {
	if team == "" || team == game.UnknownHomeTeam || team == game.UnknownAwayTeam {
		return record{}, false
	}
	want := strings.ToLower(team)

	var found record
	ok := false
	doc.Find("div.scorebox > div").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := block.Text()
		if !strings.Contains(strings.ToLower(text), want) {
			return true
		}
		found, ok = parseRecord(text)
		return !ok
	})
	if ok {
		return found, true
	}

	doc.Find(`a[href*="/teams/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(a.Text()), want) {
			return true
		}
		found, ok = parseRecord(a.Parent().Text())
		return !ok
	})
	return found, ok
}
