package ingest

import (
	"context"

	"github.com/pfrederiksen/boxscores/internal/locator"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

// ImportJob builds a bulk import for userID from free-form text holding box score URLs.
// It fails with locator.ErrNoLocators when the text has none.
func (p *Pipeline) ImportJob(userID, text string) (task.Job, error) {
	locs, err := locator.Extract(text)
	if err != nil {
		return task.Job{}, err
	}
	items := make([]task.Item, len(locs))
	for i, loc := range locs {
		items[i] = task.Item{URL: loc}
	}
	return task.Job{
		Kind:   task.KindImport,
		UserID: userID,
		Items:  items,
		Process: func(ctx context.Context, item task.Item) (task.Outcome, error) {
			g, err := p.Import(ctx, userID, item.URL, "")
			if err != nil {
				return task.Outcome{}, err
			}
			return task.Outcome{GameID: g.ID, Matchup: g.Matchup()}, nil
		},
	}, nil
}

// ReprocessJob builds a job that re-parses each stored game from its source URL
func (p *Pipeline) ReprocessJob(userID string, games []*storage.Game) task.Job {
	items := make([]task.Item, 0, len(games))
	for _, g := range games {
		items = append(items, task.Item{URL: g.URL, GameID: g.ID})
	}
	return task.Job{
		Kind:   task.KindReprocess,
		UserID: userID,
		Items:  items,
		Process: func(ctx context.Context, item task.Item) (task.Outcome, error) {
			g, err := p.Reimport(ctx, item.GameID, item.URL)
			if err != nil {
				return task.Outcome{}, err
			}
			return task.Outcome{GameID: g.ID, Matchup: g.Matchup()}, nil
		},
	}
}
