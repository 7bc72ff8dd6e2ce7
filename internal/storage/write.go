// ABOUTME: Write primitives used during ingestion: insert-if-absent, upsert and stub rows.
// ABOUTME: A Tx applies ordered writes inside one database transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Field is one column/value pair of a row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered set of fields.
type Row []Field

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns the values in order.
func (r Row) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Op selects how a write treats an existing row with the same key.
type Op int

const (
	// OpInsertIfAbsent leaves an existing row untouched (first write wins).
	OpInsertIfAbsent Op = iota
	// OpUpsert overwrites every non-key column of an existing row.
	OpUpsert
	// OpPrune deletes the rows matching Row except the one matching Keep.
	OpPrune
)

func (o Op) String() string {
	switch o {
	case OpUpsert:
		return "upsert"
	case OpPrune:
		return "prune"
	}
	return "insert-if-absent"
}

// Write is one pending row write.
type Write struct {
	Op    Op
	Table string
	Key   []string
	Row   Row
	Keep  Row
}

// InsertIfAbsent builds a first-write-wins write keyed on key.
func InsertIfAbsent(table string, row Row, key ...string) Write {
	return Write{Op: OpInsertIfAbsent, Table: table, Key: keyOrID(key), Row: row}
}

// Upsert builds a full-replacement write keyed on key.
func Upsert(table string, row Row, key ...string) Write {
	return Write{Op: OpUpsert, Table: table, Key: keyOrID(key), Row: row}
}

// Prune builds a delete of the rows in table matching owner, sparing the row
// matching keep. A nil keep deletes every matching row.
func Prune(table string, owner, keep Row) Write {
	return Write{Op: OpPrune, Table: table, Row: owner, Keep: keep}
}

// Stub builds a placeholder row carrying only id, so references to it resolve
// before the full row arrives.
func Stub(table string, id int64) Write {
	return InsertIfAbsent(table, Row{{Name: "id", Value: id}}, "id")
}

func keyOrID(key []string) []string {
	if len(key) == 0 {
		return []string{"id"}
	}
	return key
}

// Tx is a write transaction that counts statements per table.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
	counts  map[string]int
}

// Begin starts a write transaction.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, dialect: d.dialect, counts: make(map[string]int)}, nil
}

// WithTx runs fn in a transaction, committing on success and rolling back on error.
func (d *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the transaction.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// InsertIfAbsent inserts row unless a row with the same key exists.
func (t *Tx) InsertIfAbsent(ctx context.Context, table string, row Row, key ...string) error {
	return t.Apply(ctx, InsertIfAbsent(table, row, key...))
}

// Upsert inserts row or overwrites the existing row with the same key.
func (t *Tx) Upsert(ctx context.Context, table string, row Row, key ...string) error {
	return t.Apply(ctx, Upsert(table, row, key...))
}

// Apply executes writes in order, stopping at the first failure.
func (t *Tx) Apply(ctx context.Context, writes ...Write) error {
	for _, w := range writes {
		if len(w.Row) == 0 {
			return fmt.Errorf("apply %s: empty row", w.Table)
		}
		var query string
		switch w.Op {
		case OpPrune:
			// Prunes are not row writes and stay out of Counts.
			query = t.dialect.PruneSQL(w.Table, w.Row.Names(), w.Keep.Names())
			args := append(w.Row.Values(), w.Keep.Values()...)
			if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("prune %s: %w", w.Table, err)
			}
			continue
		case OpUpsert:
			query = t.dialect.UpsertSQL(w.Table, w.Row.Names(), w.Key)
		default:
			query = t.dialect.InsertIfAbsentSQL(w.Table, w.Row.Names(), w.Key)
		}
		if _, err := t.tx.ExecContext(ctx, query, w.Row.Values()...); err != nil {
			return fmt.Errorf("apply %s: %w", w.Table, err)
		}
		t.counts[w.Table]++
	}
	return nil
}

// Counts returns the number of statements applied per table.
func (t *Tx) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of statements applied.
func (t *Tx) Total() int {
	n := 0
	for _, v := range t.counts {
		n += v
	}
	return n
}
