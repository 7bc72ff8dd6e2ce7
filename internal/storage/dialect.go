// ABOUTME: SQL dialects for the supported stores: SQLite, Postgres and MySQL.
// ABOUTME: Renders placeholders, column types, insert-if-absent and upsert statements.
package storage

import (
	"fmt"
	"strings"
)

// Dialect identifies a SQL flavour.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a configured driver name onto a dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unknown store driver: %q", name)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// Quote quotes an identifier.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

func (d Dialect) quoteList(idents []string) string {
	quoted := make([]string, len(idents))
	for i, ident := range idents {
		quoted[i] = d.Quote(ident)
	}
	return strings.Join(quoted, ", ")
}

// Placeholder returns the bind marker for the n-th argument (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) placeholders(from, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = d.Placeholder(from + i)
	}
	return strings.Join(marks, ", ")
}

// Rebind rewrites '?' markers into the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ColumnType renders the SQL type of c. Indexed text columns get a bounded
// type where the dialect cannot index unbounded text.
func (d Dialect) ColumnType(c Column, indexed bool) string {
	switch c.Kind {
	case KindInt:
		if d == SQLite {
			return "INTEGER"
		}
		return "BIGINT"
	case KindBool:
		return "BOOLEAN"
	case KindReal:
		if d == SQLite {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	default:
		if d == MySQL && indexed {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}

// InsertIfAbsentSQL renders an insert that is a no-op when key already exists.
func (d Dialect) InsertIfAbsentSQL(table string, cols, key []string) string {
	insert := d.insertSQL(table, cols)
	if d == MySQL {
		k := d.Quote(key[0])
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s = %s", insert, k, k)
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO NOTHING", insert, d.quoteList(key))
}

// UpsertSQL renders an insert that overwrites every non-key column when key
// already exists. Rows made only of key columns fall back to InsertIfAbsentSQL.
func (d Dialect) UpsertSQL(table string, cols, key []string) string {
	var sets []string
	for _, c := range cols {
		if contains(key, c) {
			continue
		}
		q := d.Quote(c)
		if d == MySQL {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", q, q))
		} else {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", q, q))
		}
	}
	if len(sets) == 0 {
		return d.InsertIfAbsentSQL(table, cols, key)
	}
	insert := d.insertSQL(table, cols)
	if d == MySQL {
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s", insert, strings.Join(sets, ", "))
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s", insert, d.quoteList(key), strings.Join(sets, ", "))
}

// PruneSQL renders a delete of the rows matching every match column, except the
// row matching every keep column.
func (d Dialect) PruneSQL(table string, match, keep []string) string {
	where := make([]string, len(match))
	for i, c := range match {
		where[i] = fmt.Sprintf("%s = %s", d.Quote(c), d.Placeholder(i+1))
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", d.Quote(table), strings.Join(where, " AND "))
	if len(keep) == 0 {
		return query
	}
	spare := make([]string, len(keep))
	for i, c := range keep {
		spare[i] = fmt.Sprintf("%s = %s", d.Quote(c), d.Placeholder(len(match)+i+1))
	}
	return fmt.Sprintf("%s AND NOT (%s)", query, strings.Join(spare, " AND "))
}

func (d Dialect) insertSQL(table string, cols []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table), d.quoteList(cols), d.placeholders(1, len(cols)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
