package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can match
	// either the generic or the specific error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert loses to a unique constraint
	// (same word and part of speech, same user and word). The constraint is
	// the concurrency arbiter: callers recover by re-reading the winner.
	ErrDuplicate = errors.New("entity already exists")

	// ErrAmbiguous is returned by word lookups when a normalized form
	// matches several parts of speech and none was requested.
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrInvalidEntity is returned when a write violates referential or
	// check constraints in a way that signals a bug rather than a race.
	// It is not retried.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction fails to commit
	// or an operation within it fails irrecoverably.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrWordNotFound indicates that the requested cached word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrEntryNotFound indicates that the requested dictionary entry does not exist.
	ErrEntryNotFound = fmt.Errorf("%w: dictionary entry", ErrNotFound)
)

// IsNotFound checks if the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if the error signals a lost uniqueness race.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
