package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/milonlex/milon-api/internal/store"
)

// PostgreSQL error codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MapError maps a driver error to the matching store sentinel, wrapping the
// original for context. Every database operation in this package routes its
// errors through here so callers only ever match store errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
			return fmt.Errorf(
				"%w: constraint %s: %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		}
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		default:
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a unique constraint
// violation on either backend, before or after MapError.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, store.ErrDuplicate) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	var sqErr sqlite3.Error
	return errors.As(err, &sqErr) &&
		(sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no
// rows, which for keyed operations means the target does not exist.
func CheckRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// nullStr stores empty strings as NULL so the schema stays interchangeable
// with rows written by earlier deployments.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// strOrEmpty unwraps a nullable text column.
func strOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
