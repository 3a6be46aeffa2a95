package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps rows in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row

	// onChange runs with the write lock held after a table is mutated
	onChange func(table string, rows []Row) error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Row)}
}

// Insert stores a copy of row with a fresh id
func (m *MemoryStore) Insert(ctx context.Context, table string, row Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := row.clone()
	stored[ColumnID] = uuid.NewString()
	if _, ok := stored[ColumnCreatedAt]; !ok {
		stored[ColumnCreatedAt] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], stored)
	if err := m.changed(table); err != nil {
		m.tables[table] = m.tables[table][:len(m.tables[table])-1]
		return nil, err
	}
	return stored.clone(), nil
}

// Update overwrites the given columns of the row with id
func (m *MemoryStore) Update(ctx context.Context, table, id string, fields Row) error {
	_, err := m.update(ctx, table, id, fields)
	return err
}

// update returns the row as it was before the change
func (m *MemoryStore) update(ctx context.Context, table, id string, fields Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	for i := range rows {
		if rows[i].ID() != id {
			continue
		}
		prev := rows[i]
		next := prev.clone()
		for k, v := range fields {
			if k == ColumnID {
				continue
			}
			next[k] = v
		}
		rows[i] = next
		if err := m.changed(table); err != nil {
			rows[i] = prev
			return nil, err
		}
		return prev, nil
	}
	return nil, fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
}

// Delete removes every row matching filter and reports how many were removed
func (m *MemoryStore) Delete(ctx context.Context, table string, filter Filter) (int, error) {
	removed, err := m.delete(ctx, table, filter)
	return len(removed), err
}

// delete returns the removed rows
func (m *MemoryStore) delete(ctx context.Context, table string, filter Filter) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.tables[table]
	kept := make([]Row, 0, len(prev))
	var removed []Row
	for _, r := range prev {
		if filter.matches(r) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	m.tables[table] = kept
	if err := m.changed(table); err != nil {
		m.tables[table] = prev
		return nil, err
	}
	return removed, nil
}

// Select returns copies of the rows matching filter
func (m *MemoryStore) Select(ctx context.Context, table string, filter Filter) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Row, 0)
	for _, r := range m.tables[table] {
		if filter.matches(r) {
			out = append(out, r.clone())
		}
	}
	return out, nil
}

// Close is a no-op for the memory store
func (m *MemoryStore) Close() error {
	return nil
}

// InTx runs fn against a view of the store that records an undo step for every write.
// If fn fails, those writes are reverted and the touched tables are saved again.
// Writes made by others meanwhile are left alone.
func (m *MemoryStore) InTx(ctx context.Context, fn func(Store) error) error {
	tx := &memTx{m: m}
	if err := fn(tx); err != nil {
		if rbErr := tx.rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		return err
	}
	return nil
}

func (m *MemoryStore) changed(table string) error {
	if m.onChange == nil {
		return nil
	}
	return m.onChange(table, m.tables[table])
}

// memTx is the Store handed to InTx callbacks
type memTx struct {
	m    *MemoryStore
	undo []undoStep
}

// undoStep reverts one write; it runs with the write lock held
type undoStep struct {
	table  string
	revert func(rows []Row) []Row
}

func (tx *memTx) Insert(ctx context.Context, table string, row Row) (Row, error) {
	stored, err := tx.m.Insert(ctx, table, row)
	if err != nil {
		return nil, err
	}
	id := stored.ID()
	tx.undo = append(tx.undo, undoStep{table: table, revert: func(rows []Row) []Row {
		return withoutID(rows, id)
	}})
	return stored, nil
}

func (tx *memTx) Update(ctx context.Context, table, id string, fields Row) error {
	prev, err := tx.m.update(ctx, table, id, fields)
	if err != nil {
		return err
	}
	tx.undo = append(tx.undo, undoStep{table: table, revert: func(rows []Row) []Row {
		for i := range rows {
			if rows[i].ID() == id {
				rows[i] = prev
			}
		}
		return rows
	}})
	return nil
}

func (tx *memTx) Delete(ctx context.Context, table string, filter Filter) (int, error) {
	removed, err := tx.m.delete(ctx, table, filter)
	if err != nil || len(removed) == 0 {
		return 0, err
	}
	// restored rows go back at the end of the table
	tx.undo = append(tx.undo, undoStep{table: table, revert: func(rows []Row) []Row {
		return append(rows, removed...)
	}})
	return len(removed), nil
}

func (tx *memTx) Select(ctx context.Context, table string, filter Filter) ([]Row, error) {
	return tx.m.Select(ctx, table, filter)
}

func (tx *memTx) Close() error {
	return nil
}

func (tx *memTx) rollback() error {
	m := tx.m
	m.mu.Lock()
	defer m.mu.Unlock()

	touched := make([]string, 0)
	seen := make(map[string]bool)
	for i := len(tx.undo) - 1; i >= 0; i-- {
		step := tx.undo[i]
		m.tables[step.table] = step.revert(m.tables[step.table])
		if !seen[step.table] {
			seen[step.table] = true
			touched = append(touched, step.table)
		}
	}
	tx.undo = nil

	var errs []error
	for _, table := range touched {
		if err := m.changed(table); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func withoutID(rows []Row, id string) []Row {
	out := rows[:0]
	for _, r := range rows {
		if r.ID() != id {
			out = append(out, r)
		}
	}
	return out
}
