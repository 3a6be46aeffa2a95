package game

import (
	"fmt"
	"strings"
)

const (
	UnknownHomeTeam = "Unknown Home Team"
	UnknownAwayTeam = "Unknown Away Team"
)

// Outcome classifies how a game was decided
type Outcome string

const (
	OutcomeRegulation Outcome = "REG"
	OutcomeOvertime   Outcome = "OT"
	OutcomeShootout   Outcome = "SO"
)

// OutcomeSource records which extraction path produced the team lines
type OutcomeSource string

const (
	SourceScoreboard   OutcomeSource = "scoreboard"
	SourceSeasonRecord OutcomeSource = "season_record"
	SourceScore        OutcomeSource = "score"
)

// Record represents one parsed box score
type Record struct {
	HomeTeam       string        `json:"home_team" validate:"required"`
	AwayTeam       string        `json:"away_team" validate:"required"`
	FinalScoreHome int           `json:"final_score_home" validate:"gte=0"`
	FinalScoreAway int           `json:"final_score_away" validate:"gte=0"`
	GameDate       string        `json:"game_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Outcome        Outcome       `json:"outcome" validate:"oneof=REG OT SO"`
	OutcomeSource  OutcomeSource `json:"outcome_source"`
	PlayerStats    []PlayerStat  `json:"player_stats" validate:"dive"`
	TeamStats      []TeamStat    `json:"team_stats" validate:"len=2,dive"`
}

// PlayerStat is one skater line from a box score table
type PlayerStat struct {
	PlayerName    string `json:"player_name" validate:"required"`
	Team          string `json:"team"`
	Position      string `json:"position"`
	Goals         int    `json:"goals" validate:"gte=0"`
	Assists       int    `json:"assists" validate:"gte=0"`
	Points        int    `json:"points" validate:"gte=0"`
	PlusMinus     int    `json:"plus_minus"`
	PIM           int    `json:"pim" validate:"gte=0"`
	Shots         int    `json:"shots" validate:"gte=0"`
	Hits          int    `json:"hits" validate:"gte=0"`
	Blocks        int    `json:"blocks" validate:"gte=0"`
	Takeaways     int    `json:"takeaways" validate:"gte=0"`
	Giveaways     int    `json:"giveaways" validate:"gte=0"`
	FaceoffWins   int    `json:"faceoff_wins" validate:"gte=0"`
	FaceoffLosses int    `json:"faceoff_losses" validate:"gte=0"`
	TOISeconds    int    `json:"toi_seconds" validate:"gte=0"`
}

// TeamStat is one team's line for a single game
type TeamStat struct {
	TeamName       string `json:"team_name" validate:"required"`
	IsHome         bool   `json:"is_home"`
	Goals          int    `json:"goals" validate:"gte=0"`
	GoalsAgainst   int    `json:"goals_against" validate:"gte=0"`
	Wins           int    `json:"wins" validate:"gte=0"`
	Losses         int    `json:"losses" validate:"gte=0"`
	Ties           int    `json:"ties" validate:"gte=0"`
	OvertimeLosses int    `json:"overtime_losses" validate:"gte=0"`
	ShootoutLosses int    `json:"shootout_losses" validate:"gte=0"`
}

// Matchup returns the "<away> @ <home>" summary used in task results
func (r *Record) Matchup() string {
	return fmt.Sprintf("%s @ %s", r.AwayTeam, r.HomeTeam)
}

// Home returns the home team line, or nil if none is flagged
func (r *Record) Home() *TeamStat {
	for i := range r.TeamStats {
		if r.TeamStats[i].IsHome {
			return &r.TeamStats[i]
		}
	}
	return nil
}

// Away returns the away team line, or nil if none is present
func (r *Record) Away() *TeamStat {
	for i := range r.TeamStats {
		if !r.TeamStats[i].IsHome {
			return &r.TeamStats[i]
		}
	}
	return nil
}

// Degraded reports whether team name extraction fell back to its sentinels
func (r *Record) Degraded() bool {
	return r.HomeTeam == UnknownHomeTeam || r.AwayTeam == UnknownAwayTeam
}

// PlayersForTeam returns the skater lines whose team label matches (case-insensitive)
func (r *Record) PlayersForTeam(team string) []PlayerStat {
	out := make([]PlayerStat, 0)
	for _, ps := range r.PlayerStats {
		if strings.EqualFold(ps.Team, team) {
			out = append(out, ps)
		}
	}
	return out
}
