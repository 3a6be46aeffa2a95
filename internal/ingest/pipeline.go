// Package ingest turns box score locators into stored games: fetch, parse, validate, persist.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/boxscores/internal/game"
	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/scraper"
	"github.com/pfrederiksen/boxscores/internal/storage"
)

// Repository is the slice of storage.Games the pipeline writes through
type Repository interface {
	Create(ctx context.Context, userID, url string, rec *game.Record) (*storage.Game, error)
	Replace(ctx context.Context, id, url string, rec *game.Record) (*storage.Game, error)
}

// Pipeline imports single games
type Pipeline struct {
	fetcher scraper.Fetcher
	games   Repository
	now     func() time.Time
}

// New creates a pipeline that fetches through f and stores into games
func New(f scraper.Fetcher, games Repository) *Pipeline {
	return &Pipeline{fetcher: f, games: games, now: time.Now}
}

// Parse fetches and parses locator without storing it
func (p *Pipeline) Parse(ctx context.Context, locator string) (*game.Record, error) {
	rec, err := scraper.FetchGame(ctx, p.fetcher, locator)
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.Degraded() {
		logger.Warn("Box score parsed with placeholder team names", logger.Fields{
			"url":       locator,
			"home_team": rec.HomeTeam,
			"away_team": rec.AwayTeam,
		})
	}
	return rec, nil
}

// Import stores a new game for userID. When the page has no date, fallbackDate
// (YYYY-MM-DD) is used; an empty fallback means today's date.
func (p *Pipeline) Import(ctx context.Context, userID, locator, fallbackDate string) (*storage.Game, error) {
	rec, err := p.Parse(ctx, locator)
	if err != nil {
		return nil, err
	}
	if rec.GameDate == "" {
		rec.GameDate = fallbackDate
		if rec.GameDate == "" {
			rec.GameDate = p.now().Format("2006-01-02")
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}

	g, err := p.games.Create(ctx, userID, locator, rec)
	if err != nil {
		return nil, fmt.Errorf("storing game: %w", err)
	}
	return g, nil
}

// Reimport re-parses locator into the existing game id, keeping its stored date when
// the page has none.
func (p *Pipeline) Reimport(ctx context.Context, gameID, locator string) (*storage.Game, error) {
	rec, err := p.Parse(ctx, locator)
	if err != nil {
		return nil, err
	}
	g, err := p.games.Replace(ctx, gameID, locator, rec)
	if err != nil {
		return nil, fmt.Errorf("storing game: %w", err)
	}
	return g, nil
}
