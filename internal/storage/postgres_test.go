package storage

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
)

func TestInsertSQL(t *testing.T) {
	query, args := insertSQL(TableTeamStats, Row{"wins": 1, "game_id": "g1", "id": "x"})
	want := `INSERT INTO "team_stats" ("game_id", "id", "wins") VALUES ($1, $2, $3) RETURNING *`
	if query != want {
		t.Errorf("insertSQL() query = %q\nwant %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"g1", "x", 1}) {
		t.Errorf("insertSQL() args = %v", args)
	}
}

func TestUpdateSQL(t *testing.T) {
	tests := []struct {
		name      string
		fields    Row
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "two columns",
			fields:    Row{"home_team": "A", "away_team": "B"},
			wantQuery: `UPDATE "games" SET "away_team" = $1, "home_team" = $2 WHERE "id" = $3`,
			wantArgs:  []any{"B", "A", "g1"},
		},
		{
			name:      "id column is never set",
			fields:    Row{"id": "other", "url": "u"},
			wantQuery: `UPDATE "games" SET "url" = $1 WHERE "id" = $2`,
			wantArgs:  []any{"u", "g1"},
		},
		{
			name:   "nothing to set",
			fields: Row{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := updateSQL(TableGames, "g1", tt.fields)
			if query != tt.wantQuery {
				t.Errorf("updateSQL() query = %q\nwant %q", query, tt.wantQuery)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("updateSQL() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSelectSQL(t *testing.T) {
	query, args := selectSQL(TableGames, Filter{"user_id": "u1", "id": "g1"})
	want := `SELECT * FROM "games" WHERE "id" = $1 AND "user_id" = $2 ORDER BY "created_at", "id"`
	if query != want {
		t.Errorf("selectSQL() query = %q\nwant %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"g1", "u1"}) {
		t.Errorf("selectSQL() args = %v", args)
	}

	query, args = selectSQL(TablePlayerStats, nil)
	if query != `SELECT * FROM "player_stats" ORDER BY "created_at", "id"` || args != nil {
		t.Errorf("selectSQL(nil) = %q, %v", query, args)
	}
}

func TestIdentQuotesHostileNames(t *testing.T) {
	if got := ident(`bad"; DROP TABLE games; --`); got != `"bad""; DROP TABLE games; --"` {
		t.Errorf("ident() = %s", got)
	}
}

func TestSchemaStatements(t *testing.T) {
	stmts := schemaStatements()
	if len(stmts) != 6 {
		t.Fatalf("schemaStatements() = %d statements, want 6", len(stmts))
	}
	for _, s := range stmts {
		if s == "" {
			t.Error("empty statement in schema")
		}
	}
}

// TestPostgresStore runs against a real database when BOXSCORES_TEST_DATABASE_URL is set
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("BOXSCORES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BOXSCORES_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, PoolConfig{URL: url, MaxConns: 2})
	if err != nil {
		t.Fatalf("NewPostgresStore() error: %v", err)
	}
	defer s.Close() // nolint:errcheck
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	games := NewGames(s)
	created, err := games.Create(ctx, "pg-test-user", "https://www.hockey-reference.com/boxscores/202304150BOS.html", sampleRecord())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	defer games.Delete(ctx, created.ID) // nolint:errcheck

	got, err := games.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got.PlayerStats) != 2 || len(got.TeamStats) != 2 {
		t.Errorf("Get() children = %d players, %d teams", len(got.PlayerStats), len(got.TeamStats))
	}

	if err := games.Ping(ctx); err != nil {
		t.Errorf("Ping() error: %v", err)
	}

	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx Store) error {
		if _, err := tx.Insert(ctx, TableGames, gameFields("pg-rollback-user", "u", sampleRecord())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}
	rows, err := s.Select(ctx, TableGames, Filter{"user_id": "pg-rollback-user"})
	if err != nil || len(rows) != 0 {
		t.Errorf("rolled back insert visible: %d rows, err %v", len(rows), err)
	}
}
