// ABOUTME: Database connection and lifecycle management for the exercise catalog.
// ABOUTME: SQLite by default (modernc.org/sqlite, no CGO); Postgres and MySQL by DSN.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/harperreed/exercises/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection and its dialect.
type DB struct {
	db      *sql.DB
	dialect Dialect
	dsn     string
}

// Open opens the store for driver at dsn, provisions the schema and seeds genders.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		if dsn == "" {
			dsn = DefaultDBPath()
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	} else if dsn == "" {
		return nil, fmt.Errorf("%s store requires a dsn", dialect)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: db, dialect: dialect, dsn: dsn}

	if dialect == SQLite {
		// One connection keeps the per-connection pragmas in force.
		db.SetMaxOpenConns(1)
		if err := os.Chmod(dsn, 0600); err != nil && !os.IsNotExist(err) {
			_ = db.Close()
			return nil, fmt.Errorf("set database permissions: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := d.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.Provision(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// OpenSQLite opens a SQLite store at path.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	return Open(ctx, string(SQLite), path)
}

// DataDir returns the default data directory following XDG base directories.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "exercises")
}

// DefaultDBPath returns the default SQLite database path following XDG base directories.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "exercises.db")
}

// Dialect returns the store's SQL dialect.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Location describes where the store lives, with any password masked.
func (d *DB) Location() string {
	if d.dialect == SQLite {
		return d.dsn
	}
	return redactDSN(d.dsn)
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite; foreign keys must be enforced for stub ordering to matter.
func (d *DB) configurePragmas(ctx context.Context) error {
	if d.dialect != SQLite {
		return nil
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Provision creates every table and index if missing and seeds the gender lookup.
func (d *DB) Provision(ctx context.Context) error {
	for _, stmt := range DDL(d.dialect) {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			if isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("execute schema: %w", err)
		}
	}
	return d.WithTx(ctx, func(tx *Tx) error {
		for _, g := range models.Genders {
			row := Row{{Name: "id", Value: g.ID}, {Name: "name", Value: g.Name}, {Name: "name_en_us", Value: g.NameEnUS}}
			if err := tx.InsertIfAbsent(ctx, TableGenders, row, "id"); err != nil {
				return fmt.Errorf("seed genders: %w", err)
			}
		}
		return nil
	})
}

// isDuplicateIndex matches MySQL's ER_DUP_KEYNAME from a repeated CREATE INDEX.
func isDuplicateIndex(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1061
}

// redactDSN hides the password of URL-style and MySQL-style DSNs.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	userinfo := dsn[:at]
	start := strings.Index(userinfo, "://")
	if start >= 0 {
		start += 3
	} else {
		start = 0
	}
	colon := strings.Index(userinfo[start:], ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:start+colon+1] + "****" + dsn[at:]
}
