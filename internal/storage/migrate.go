// ABOUTME: Data migration between catalog stores, e.g. SQLite into Postgres.
// ABOUTME: Copies every table in dependency order with first-write-wins inserts.

package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/exercises/internal/models"
)

// CopySummary holds the number of rows copied per table.
type CopySummary struct {
	Tables []models.TableCount
	Total  int64
}

// CopyTables copies all rows from src to dst. Rows whose key already exists in
// dst are left untouched, so copying twice is harmless.
func CopyTables(ctx context.Context, src, dst *DB) (*CopySummary, error) {
	summary := &CopySummary{}

	for _, t := range Schema {
		rows, err := src.readTable(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.Name, err)
		}

		err = dst.WithTx(ctx, func(tx *Tx) error {
			// Self references may point forward, so every key exists before any full row.
			if t.SelfReferencing() {
				for _, row := range rows {
					if err := tx.InsertIfAbsent(ctx, t.Name, keyFields(t, row), t.Key...); err != nil {
						return err
					}
				}
				for _, row := range rows {
					if err := tx.Upsert(ctx, t.Name, row, t.Key...); err != nil {
						return err
					}
				}
				return nil
			}
			for _, row := range rows {
				if err := tx.InsertIfAbsent(ctx, t.Name, row, t.Key...); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", t.Name, err)
		}

		summary.Tables = append(summary.Tables, models.TableCount{Table: t.Name, Rows: int64(len(rows))})
		summary.Total += int64(len(rows))
	}

	return summary, nil
}

// readTable loads every row of t with values normalized to portable Go types.
func (d *DB) readTable(ctx context.Context, t Table) ([]Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		d.dialect.quoteList(t.ColumnNames()), d.dialect.Quote(t.Name), d.dialect.quoteList(t.Key))
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		values := make([]any, len(t.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(t.Columns))
		for i, c := range t.Columns {
			v, err := coerce(c.Kind, values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			row[i] = Field{Name: c.Name, Value: v}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func keyFields(t Table, row Row) Row {
	var key Row
	for _, f := range row {
		if t.isKey(f.Name) {
			key = append(key, f)
		}
	}
	return key
}

// coerce maps driver-specific scan results onto the Go type of the column kind.
// SQLite reports booleans as integers and MySQL reports most values as bytes.
func coerce(kind Kind, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil, nil
	}

	switch kind {
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(x))
		}
	case KindInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int32:
			return int64(x), nil
		case string:
			return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		}
	case KindReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(x), 64)
		}
	case KindText:
		switch x := v.(type) {
		case string:
			return x, nil
		default:
			return fmt.Sprint(x), nil
		}
	}
	return nil, fmt.Errorf("unexpected %T for kind %d", v, kind)
}
