// Package database implements the store interfaces over a relational
// backend. PostgreSQL (via the pgx stdlib driver) is the canonical backend;
// SQLite is kept as a compatibility target because existing deployments run
// on it. The SQL is written once with ? placeholders and rebound per
// dialect.
package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL backend behind a connection.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// String returns the goose dialect name for the backend.
func (d Dialect) String() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// SupportsForUpdate reports whether SELECT ... FOR UPDATE row locking is
// available. SQLite serializes writers at the database level instead.
func (d Dialect) SupportsForUpdate() bool {
	return d == DialectPostgres
}

// Rebind rewrites ? placeholders into the dialect's native form.
// Question marks inside quoted literals are not handled; queries in this
// package never embed literals.
func (d Dialect) Rebind(query string) string {
	if d == DialectSQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DetectDialect picks the backend from a connection URL. postgres:// and
// postgresql:// select PostgreSQL; anything else (file paths, file: URIs,
// :memory:) selects SQLite, matching the deployments this replaces.
func DetectDialect(dbURL string) Dialect {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database named by dbURL, configures the connection
// pool, and returns the handle with its dialect. Callers own the returned
// DB and must Close it.
func Open(dbURL string) (*sql.DB, Dialect, error) {
	dialect := DetectDialect(dbURL)

	var db *sql.DB
	var err error
	switch dialect {
	case DialectPostgres:
		db, err = sql.Open("pgx", dbURL)
	case DialectSQLite:
		db, err = sql.Open("sqlite3", sqliteDSN(dbURL))
	}
	if err != nil {
		return nil, dialect, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite handles a single writer; more connections just contend.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, dialect, nil
}

// sqliteDSN ensures foreign key enforcement is on for every connection;
// the schema's cascading deletes depend on it.
func sqliteDSN(dbURL string) string {
	if strings.Contains(dbURL, "_foreign_keys=") {
		return dbURL
	}
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_foreign_keys=on"
}

// MaskURL masks the password in a database URL for safe logging.
func MaskURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
		return parsed.String()
	}
	return dbURL
}
