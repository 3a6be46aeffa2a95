package storage

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PoolConfig sizes the Postgres connection pool
type PoolConfig struct {
	URL      string
	MinConns int
	MaxConns int
}

// PostgresStore keeps rows in Postgres tables created by Migrate
type PostgresStore struct {
	pool *pgxpool.Pool // nil inside InTx
	db   querier
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPostgresStore connects and verifies the database is reachable
func NewPostgresStore(ctx context.Context, cfg PoolConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, db: pool}, nil
}

// Migrate creates the tables if they do not exist
func (p *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Ping checks the database is reachable
func (p *PostgresStore) Ping(ctx context.Context) error {
	if p.pool == nil {
		return nil
	}
	return p.pool.Ping(ctx)
}

// InTx runs fn inside one database transaction, committing only if fn succeeds.
// Nested calls become savepoints.
func (p *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		return fn(&PostgresStore{db: tx})
	})
}

// Insert stores row with a fresh id and returns it as written
func (p *PostgresStore) Insert(ctx context.Context, table string, row Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	stored := row.clone()
	stored[ColumnID] = uuid.NewString()

	query, args := insertSQL(table, stored)
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return Row(out), nil
}

// Update overwrites the given columns of the row with id
func (p *PostgresStore) Update(ctx context.Context, table, id string, fields Row) error {
	if err := checkTable(table); err != nil {
		return err
	}
	query, args := updateSQL(table, id, fields)
	if query == "" {
		return nil
	}
	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

// Delete removes rows matching filter
func (p *PostgresStore) Delete(ctx context.Context, table string, filter Filter) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	where, args := whereSQL(filter, 1)
	tag, err := p.db.Exec(ctx, "DELETE FROM "+ident(table)+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}

// Select returns rows matching filter in creation order
func (p *PostgresStore) Select(ctx context.Context, table string, filter Filter) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query, args := selectSQL(table, filter)
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	out := make([]Row, 0, len(maps))
	for _, m := range maps {
		out = append(out, Row(m))
	}
	return out, nil
}

// Close releases the pool. Inside InTx it does nothing.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func schemaStatements() []string {
	out := make([]string, 0)
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func insertSQL(table string, row Row) (string, []any) {
	cols := sortedKeys(row)
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = ident(c)
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[c]
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), strings.Join(names, ", "), strings.Join(params, ", ")), args
}

func updateSQL(table, id string, fields Row) (string, []any) {
	cols := make([]string, 0, len(fields))
	for _, c := range sortedKeys(fields) {
		if c != ColumnID {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return "", nil
	}
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
		args = append(args, fields[c])
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ident(table), strings.Join(sets, ", "), ident(ColumnID), len(args)), args
}

func selectSQL(table string, filter Filter) (string, []any) {
	where, args := whereSQL(filter, 1)
	return fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s, %s",
		ident(table), where, ident(ColumnCreatedAt), ident(ColumnID)), args
}

// whereSQL renders an equality filter with placeholders numbered from start
func whereSQL(filter Filter, start int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	cols := sortedKeys(filter)
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		conds[i] = fmt.Sprintf("%s = $%d", ident(c), start+i)
		args[i] = filter[c]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
