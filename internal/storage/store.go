package storage

import (
	"context"
	"errors"
	"fmt"
)

// Table names
const (
	TableGames       = "games"
	TablePlayerStats = "player_stats"
	TableTeamStats   = "team_stats"
)

// Column names every table carries
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
)

// ErrNotFound is returned when no row matches an id
var ErrNotFound = errors.New("not found")

// Row is one stored record keyed by column name
type Row map[string]any

// Filter selects rows whose columns equal every given value. An empty filter matches all rows.
type Filter map[string]any

// Store is the row persistence collaborator. Insert assigns the row's id and creation
// time and returns the stored row. Select returns rows in insertion order.
type Store interface {
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table, id string, fields Row) error
	Delete(ctx context.Context, table string, filter Filter) (int, error)
	Select(ctx context.Context, table string, filter Filter) ([]Row, error)
	Close() error
}

// Transactor is implemented by stores that can apply a group of writes all or nothing.
// fn must do its work through the Store it is given.
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// Pinger is implemented by stores backed by a remote service
type Pinger interface {
	Ping(ctx context.Context) error
}

// String reads a column as a string, or "" when absent
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ID returns the row's id column
func (r Row) ID() string {
	return r.String(ColumnID)
}

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (f Filter) matches(r Row) bool {
	for col, want := range f {
		got, ok := r[col]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func checkTable(table string) error {
	switch table {
	case TableGames, TablePlayerStats, TableTeamStats:
		return nil
	default:
		return fmt.Errorf("unknown table %q", table)
	}
}
