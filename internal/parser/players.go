package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/game"
)

const (
	colRank       = "Rk"
	colPlayer     = "Player"
	colPosition   = "Pos"
	colGoals      = "G"
	colAssists    = "A"
	colPoints     = "PTS"
	colPlusMinus  = "+/-"
	colPIM        = "PIM"
	colShots      = "S"
	colHits       = "H"
	colBlocks     = "BLK"
	colTakeaways  = "TK"
	colGiveaways  = "GV"
	colFaceoffs   = "FO"
	colFaceoffPct = "FO%"
	colTOI        = "TOI"
)

// ExtractPlayerStats reads every skater line from the per-team skater tables, in page order.
func ExtractPlayerStats(doc *goquery.Document) []game.PlayerStat {
	stats := make([]game.PlayerStat, 0)
	doc.Find(skaterTables).Each(func(_ int, table *goquery.Selection) {
		stats = append(stats, tablePlayers(table)...)
	})
	return stats
}

func tablePlayers(table *goquery.Selection) []game.PlayerStat {
	headers, hasRank := headerColumns(table)
	if headers == nil {
		return nil
	}
	team := teamLabel(table)

	out := make([]game.PlayerStat, 0)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		// Long tables repeat their header inside the body
		if tr.HasClass("thead") {
			return
		}
		cells := tr.Children().Filter("td, th")
		if hasRank {
			cells = cells.Slice(1, goquery.ToEnd)
		}
		row := make(map[string]string, len(headers))
		cells.Each(func(i int, cell *goquery.Selection) {
			if i < len(headers) && headers[i] != "" {
				row[headers[i]] = strings.TrimSpace(cell.Text())
			}
		})
		if row[colPlayer] == "" {
			return
		}
		out = append(out, playerFromRow(team, row))
	})
	return out
}

// headerColumns finds the header row labelled "Player" and returns its column names.
// Decorative rows above it ("Scoring", "Shots" ...) are skipped. A leading rank
// column is dropped and reported so body rows can skip it too.
func headerColumns(table *goquery.Selection) ([]string, bool) {
	var headerRow *goquery.Selection
	table.Find("thead tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		found := false
		tr.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
			found = strings.TrimSpace(th.Text()) == colPlayer
			return !found
		})
		if found {
			headerRow = tr
		}
		return !found
	})
	if headerRow == nil {
		return nil, false
	}

	headers := texts(headerRow.Find("th"))
	if len(headers) > 0 && headers[0] == colRank {
		return headers[1:], true
	}
	return headers, false
}

func playerFromRow(team string, row map[string]string) game.PlayerStat {
	ps := game.PlayerStat{
		PlayerName:  row[colPlayer],
		Team:        team,
		Position:    row[colPosition],
		Goals:       count(row[colGoals]),
		Assists:     count(row[colAssists]),
		Points:      count(row[colPoints]),
		PlusMinus:   ParseInt(row[colPlusMinus]),
		PIM:         count(row[colPIM]),
		Shots:       count(row[colShots]),
		Hits:        count(row[colHits]),
		Blocks:      count(row[colBlocks]),
		Takeaways:   count(row[colTakeaways]),
		Giveaways:   count(row[colGiveaways]),
		FaceoffWins: count(row[colFaceoffs]),
		TOISeconds:  ParseTOI(row[colTOI]),
	}
	ps.FaceoffLosses = faceoffLosses(ps.FaceoffWins, row[colFaceoffPct])
	return ps
}

// count reads a counting column; negative values read as 0
func count(s string) int {
	if n := ParseInt(s); n > 0 {
		return n
	}
	return 0
}
