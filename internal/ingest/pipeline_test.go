package ingest

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/storage"
)

type fixtureFetcher struct {
	html string
	err  error
}

func (f fixtureFetcher) Fetch(_ context.Context, _ string) (*goquery.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/boxscore_regulation.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

const (
	datedURL   = "https://www.hockey-reference.com/boxscores/202304150BOS.html"
	undatedURL = "https://www.hockey-reference.com/boxscores/latest.html"
)

func TestPipeline_Import(t *testing.T) {
	html := loadFixture(t)
	tests := []struct {
		name     string
		locator  string
		fallback string
		wantDate string
	}{
		{"date from locator", datedURL, "2020-01-01", "2023-04-15"},
		{"fallback date when locator has none", undatedURL, "2020-01-01", "2020-01-01"},
		{"processing date when no fallback", undatedURL, "", "2024-05-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := storage.NewGames(storage.NewMemoryStore())
			p := New(fixtureFetcher{html: html}, games)
			p.now = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }

			g, err := p.Import(context.Background(), "user-1", tt.locator, tt.fallback)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if g.GameDate != tt.wantDate {
				t.Errorf("GameDate = %q, want %q", g.GameDate, tt.wantDate)
			}
			if len(g.PlayerStats) != 40 || len(g.TeamStats) != 2 {
				t.Errorf("stored %d players, %d teams", len(g.PlayerStats), len(g.TeamStats))
			}
		})
	}
}

func TestPipeline_ImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher fixtureFetcher
		locator string
	}{
		{"fetch failure", fixtureFetcher{err: errors.New("connection refused")}, datedURL},
		{"invalid fallback date", fixtureFetcher{html: "<html></html>"}, undatedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			p := New(tt.fetcher, storage.NewGames(store))
			if _, err := p.Import(context.Background(), "user-1", tt.locator, "15/04/2023"); err == nil {
				t.Fatal("Import() expected error")
			}
			rows, _ := store.Select(context.Background(), storage.TableGames, nil)
			if len(rows) != 0 {
				t.Errorf("failed import stored %d games", len(rows))
			}
		})
	}
}

func TestPipeline_Reimport(t *testing.T) {
	ctx := context.Background()
	html := loadFixture(t)
	games := storage.NewGames(storage.NewMemoryStore())
	p := New(fixtureFetcher{html: html}, games)

	created, err := p.Import(ctx, "user-1", undatedURL, "2022-12-31")
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	again, err := p.Reimport(ctx, created.ID, undatedURL)
	if err != nil {
		t.Fatalf("Reimport() error: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("Reimport() id = %s, want %s", again.ID, created.ID)
	}
	if again.GameDate != "2022-12-31" {
		t.Errorf("Reimport() GameDate = %q, want stored 2022-12-31", again.GameDate)
	}
	if len(again.PlayerStats) != 40 {
		t.Errorf("Reimport() players = %d, want 40", len(again.PlayerStats))
	}

	if _, err := p.Reimport(ctx, "missing", undatedURL); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Reimport(missing) error = %v, want ErrNotFound", err)
	}
}
