package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/boxscores/internal/storage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTeam  SortOrder = "team"
	SortByScore SortOrder = "score"
)

// Valid reports whether o is a known sort order
func (o SortOrder) Valid() bool {
	return o == SortByDate || o == SortByTeam || o == SortByScore
}

// sortGames sorts games in place. Date is newest first; the others tie-break on it.
func sortGames(games []*storage.Game, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(games, func(i, j int) bool {
			return newerFirst(games[i], games[j])
		})
	case SortByTeam:
		sort.SliceStable(games, func(i, j int) bool {
			hi, hj := strings.ToLower(games[i].HomeTeam), strings.ToLower(games[j].HomeTeam)
			if hi != hj {
				return hi < hj
			}
			return newerFirst(games[i], games[j])
		})
	case SortByScore:
		// highest combined score first
		sort.SliceStable(games, func(i, j int) bool {
			ti := games[i].FinalScoreHome + games[i].FinalScoreAway
			tj := games[j].FinalScoreHome + games[j].FinalScoreAway
			if ti != tj {
				return ti > tj
			}
			return newerFirst(games[i], games[j])
		})
	}
}

// newerFirst compares by game date, then creation time. Undated games sort last.
func newerFirst(i, j *storage.Game) bool {
	if i.GameDate != j.GameDate {
		if i.GameDate == "" || j.GameDate == "" {
			return j.GameDate == ""
		}
		return i.GameDate > j.GameDate
	}
	return i.CreatedAt.After(j.CreatedAt)
}
