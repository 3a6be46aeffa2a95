package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/boxscores/internal/game"
)

// Game is a stored game record with its owner and source locator
type Game struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	URL            string             `json:"url"`
	HomeTeam       string             `json:"home_team"`
	AwayTeam       string             `json:"away_team"`
	FinalScoreHome int                `json:"final_score_home"`
	FinalScoreAway int                `json:"final_score_away"`
	GameDate       string             `json:"game_date"`
	Outcome        game.Outcome       `json:"outcome"`
	OutcomeSource  game.OutcomeSource `json:"outcome_source"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
	PlayerStats    []game.PlayerStat  `json:"player_stats,omitempty"`
	TeamStats      []game.TeamStat    `json:"team_stats,omitempty"`
}

// Matchup returns the "<away> @ <home>" summary
func (g *Game) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

// Games maps game records onto a Store
type Games struct {
	store Store
	now   func() time.Time
}

// NewGames creates a games repository over store
func NewGames(store Store) *Games {
	return &Games{store: store, now: time.Now}
}

// Create persists rec for userID. Children are written after the game row so they
// can reference its id. A failure part way through leaves nothing behind.
func (g *Games) Create(ctx context.Context, userID, url string, rec *game.Record) (*Game, error) {
	var id string
	err := g.inTx(ctx, func(s Store) error {
		row, err := s.Insert(ctx, TableGames, gameFields(userID, url, rec))
		if err != nil {
			return fmt.Errorf("inserting game: %w", err)
		}
		id = row.ID()
		return insertChildren(ctx, s, id, rec)
	})
	if err != nil {
		return nil, err
	}
	return g.Get(ctx, id)
}

// Replace overwrites the stored game id with rec and re-creates its children.
// A record without a date keeps the stored one. On failure the previous game is kept.
func (g *Games) Replace(ctx context.Context, id, url string, rec *game.Record) (*Game, error) {
	err := g.inTx(ctx, func(s Store) error {
		existing, err := header(ctx, s, id)
		if err != nil {
			return err
		}

		fields := gameFields(existing.UserID, url, rec)
		if rec.GameDate == "" {
			fields["game_date"] = existing.GameDate
		}
		fields["updated_at"] = g.now().UTC()
		if err := s.Update(ctx, TableGames, id, fields); err != nil {
			return fmt.Errorf("updating game: %w", err)
		}
		if err := deleteChildren(ctx, s, id); err != nil {
			return err
		}
		return insertChildren(ctx, s, id, rec)
	})
	if err != nil {
		return nil, err
	}
	return g.Get(ctx, id)
}

// Ping reports whether the underlying store is reachable. Local stores always are.
func (g *Games) Ping(ctx context.Context) error {
	if p, ok := g.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// inTx runs fn atomically when the store can, and directly otherwise
func (g *Games) inTx(ctx context.Context, fn func(Store) error) error {
	if tx, ok := g.store.(Transactor); ok {
		return tx.InTx(ctx, fn)
	}
	return fn(g.store)
}

// Get returns a game with its player and team lines
func (g *Games) Get(ctx context.Context, id string) (*Game, error) {
	out, err := header(ctx, g.store, id)
	if err != nil {
		return nil, err
	}

	players, err := g.store.Select(ctx, TablePlayerStats, Filter{"game_id": id})
	if err != nil {
		return nil, fmt.Errorf("loading player stats: %w", err)
	}
	out.PlayerStats = make([]game.PlayerStat, 0, len(players))
	for _, r := range players {
		var ps game.PlayerStat
		if err := decodeRow(r, &ps); err != nil {
			return nil, err
		}
		out.PlayerStats = append(out.PlayerStats, ps)
	}

	teams, err := g.store.Select(ctx, TableTeamStats, Filter{"game_id": id})
	if err != nil {
		return nil, fmt.Errorf("loading team stats: %w", err)
	}
	out.TeamStats = make([]game.TeamStat, 0, len(teams))
	for _, r := range teams {
		var ts game.TeamStat
		if err := decodeRow(r, &ts); err != nil {
			return nil, err
		}
		out.TeamStats = append(out.TeamStats, ts)
	}
	return out, nil
}

// List returns a user's games without their child lines, most recent game date first
func (g *Games) List(ctx context.Context, userID string) ([]*Game, error) {
	rows, err := g.store.Select(ctx, TableGames, Filter{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	out := make([]*Game, 0, len(rows))
	for _, r := range rows {
		var gm Game
		if err := decodeRow(r, &gm); err != nil {
			return nil, err
		}
		out = append(out, &gm)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GameDate != out[j].GameDate {
			return out[i].GameDate > out[j].GameDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a game and its child lines, children first
func (g *Games) Delete(ctx context.Context, id string) error {
	return g.inTx(ctx, func(s Store) error {
		if _, err := header(ctx, s, id); err != nil {
			return err
		}
		if err := deleteChildren(ctx, s, id); err != nil {
			return err
		}
		n, err := s.Delete(ctx, TableGames, Filter{ColumnID: id})
		if err != nil {
			return fmt.Errorf("deleting game: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func header(ctx context.Context, s Store, id string) (*Game, error) {
	rows, err := s.Select(ctx, TableGames, Filter{ColumnID: id})
	if err != nil {
		return nil, fmt.Errorf("loading game: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	var out Game
	if err := decodeRow(rows[0], &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func insertChildren(ctx context.Context, s Store, gameID string, rec *game.Record) error {
	for _, ps := range rec.PlayerStats {
		if _, err := s.Insert(ctx, TablePlayerStats, playerFields(gameID, ps)); err != nil {
			return fmt.Errorf("inserting player stat: %w", err)
		}
	}
	for _, ts := range rec.TeamStats {
		if _, err := s.Insert(ctx, TableTeamStats, teamFields(gameID, ts)); err != nil {
			return fmt.Errorf("inserting team stat: %w", err)
		}
	}
	return nil
}

func deleteChildren(ctx context.Context, s Store, gameID string) error {
	if _, err := s.Delete(ctx, TablePlayerStats, Filter{"game_id": gameID}); err != nil {
		return fmt.Errorf("deleting player stats: %w", err)
	}
	if _, err := s.Delete(ctx, TableTeamStats, Filter{"game_id": gameID}); err != nil {
		return fmt.Errorf("deleting team stats: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func gameFields(userID, url string, rec *game.Record) Row {
	return Row{
		"user_id":          userID,
		"url":              url,
		"home_team":        rec.HomeTeam,
		"away_team":        rec.AwayTeam,
		"final_score_home": rec.FinalScoreHome,
		"final_score_away": rec.FinalScoreAway,
		"game_date":        rec.GameDate,
		"outcome":          string(rec.Outcome),
		"outcome_source":   string(rec.OutcomeSource),
	}
}

func playerFields(gameID string, ps game.PlayerStat) Row {
	return Row{
		"game_id":        gameID,
		"player_name":    ps.PlayerName,
		"team":           ps.Team,
		"position":       ps.Position,
		"goals":          ps.Goals,
		"assists":        ps.Assists,
		"points":         ps.Points,
		"plus_minus":     ps.PlusMinus,
		"pim":            ps.PIM,
		"shots":          ps.Shots,
		"hits":           ps.Hits,
		"blocks":         ps.Blocks,
		"takeaways":      ps.Takeaways,
		"giveaways":      ps.Giveaways,
		"faceoff_wins":   ps.FaceoffWins,
		"faceoff_losses": ps.FaceoffLosses,
		"toi_seconds":    ps.TOISeconds,
	}
}

func teamFields(gameID string, ts game.TeamStat) Row {
	return Row{
		"game_id":         gameID,
		"team_name":       ts.TeamName,
		"is_home":         ts.IsHome,
		"goals":           ts.Goals,
		"goals_against":   ts.GoalsAgainst,
		"wins":            ts.Wins,
		"losses":          ts.Losses,
		"ties":            ts.Ties,
		"overtime_losses": ts.OvertimeLosses,
		"shootout_losses": ts.ShootoutLosses,
	}
}

// decodeRow converts a row into v through its JSON form. Backends hand back numbers as
// int, int32, int64 or float64 depending on where the row came from.
func decodeRow(r Row, v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}
