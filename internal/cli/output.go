package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/boxscores/internal/game"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// GamesResult is the JSON shape of the games listing
type GamesResult struct {
	Games []*storage.Game `json:"games"`
	Count int             `json:"count"`
}

// WriteRecord writes a parsed box score in the specified format
func WriteRecord(w io.Writer, rec *game.Record, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatText:
		writeRecordText(w, rec, verbose)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteGame writes a stored game in the specified format
func WriteGame(w io.Writer, g *storage.Game, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, g)
	case FormatText:
		fmt.Fprintf(w, "Saved game %s\n", g.ID)
		writeRecordText(w, &game.Record{
			HomeTeam:       g.HomeTeam,
			AwayTeam:       g.AwayTeam,
			FinalScoreHome: g.FinalScoreHome,
			FinalScoreAway: g.FinalScoreAway,
			GameDate:       g.GameDate,
			Outcome:        g.Outcome,
			OutcomeSource:  g.OutcomeSource,
			PlayerStats:    g.PlayerStats,
			TeamStats:      g.TeamStats,
		}, verbose)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteGames writes a games listing in the specified format
func WriteGames(w io.Writer, games []*storage.Game, format OutputFormat) error {
	switch format {
	case FormatJSON:
		if games == nil {
			games = []*storage.Game{}
		}
		return writeJSON(w, GamesResult{Games: games, Count: len(games)})
	case FormatText:
		if len(games) == 0 {
			fmt.Fprintln(w, "No games found.")
			return nil
		}
		for _, g := range games {
			fmt.Fprintf(w, "%s  %s %d, %s %d (%s)  %s\n",
				dateOrDash(g.GameDate), g.AwayTeam, g.FinalScoreAway, g.HomeTeam, g.FinalScoreHome, g.Outcome, g.ID)
		}
		fmt.Fprintf(w, "\nTotal: %d games\n", len(games))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteTask writes the final state of a batch task in the specified format
func WriteTask(w io.Writer, snap task.Snapshot, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatText:
		fmt.Fprintf(w, "Task %s %s: %d of %d imported, %d failed\n",
			snap.ID, snap.Status, snap.CompletedItems, snap.TotalItems, snap.FailedItems)
		for _, msg := range snap.Errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeRecordText(w io.Writer, rec *game.Record, verbose bool) {
	fmt.Fprintln(w, rec.Matchup())
	fmt.Fprintf(w, "Date:    %s\n", dateOrDash(rec.GameDate))
	fmt.Fprintf(w, "Final:   %s %d, %s %d (%s)\n",
		rec.AwayTeam, rec.FinalScoreAway, rec.HomeTeam, rec.FinalScoreHome, rec.Outcome)
	fmt.Fprintf(w, "Source:  %s\n", rec.OutcomeSource)
	if away := rec.Away(); away != nil {
		fmt.Fprintf(w, "Away:    %s %s\n", away.TeamName, teamRecord(away))
	}
	if home := rec.Home(); home != nil {
		fmt.Fprintf(w, "Home:    %s %s\n", home.TeamName, teamRecord(home))
	}
	fmt.Fprintf(w, "Players: %d\n", len(rec.PlayerStats))

	if !verbose {
		return
	}
	for _, team := range skaterTeams(rec.PlayerStats) {
		players := rec.PlayersForTeam(team)
		fmt.Fprintf(w, "\n%s (%d skaters):\n", team, len(players))
		for _, ps := range players {
			fmt.Fprintf(w, "  %-24s %-2s  G %d  A %d  P %d  +/- %d  S %d  TOI %s\n",
				ps.PlayerName, ps.Position, ps.Goals, ps.Assists, ps.Points, ps.PlusMinus, ps.Shots, formatTOI(ps.TOISeconds))
		}
	}
}

// skaterTeams returns the table labels of players in page order
func skaterTeams(players []game.PlayerStat) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, ps := range players {
		if !seen[ps.Team] {
			seen[ps.Team] = true
			teams = append(teams, ps.Team)
		}
	}
	return teams
}

func writeProgress(w io.Writer, snap task.Snapshot, r task.ItemResult, n int) {
	if r.Status == task.ItemSuccess {
		fmt.Fprintf(w, "[%d/%d] ok      %s (%s)\n", n, snap.TotalItems, r.Matchup, r.URL)
		return
	}
	fmt.Fprintf(w, "[%d/%d] failed  %s: %s\n", n, snap.TotalItems, r.URL, r.Error)
}

// teamRecord renders W-L-OTL, adding the shootout column when it is set
func teamRecord(ts *game.TeamStat) string {
	if ts.Wins == 0 && ts.Losses == 0 && ts.OvertimeLosses == 0 && ts.ShootoutLosses == 0 {
		return ""
	}
	if ts.ShootoutLosses > 0 {
		return fmt.Sprintf("(%d-%d-%d-%d)", ts.Wins, ts.Losses, ts.OvertimeLosses, ts.ShootoutLosses)
	}
	return fmt.Sprintf("(%d-%d-%d)", ts.Wins, ts.Losses, ts.OvertimeLosses)
}

func formatTOI(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func dateOrDash(d string) string {
	if d == "" {
		return "----------"
	}
	return d
}
