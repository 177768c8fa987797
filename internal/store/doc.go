// Package store defines the persistence contracts of the lexical cache:
// the store interfaces, the sentinel errors shared by their implementations,
// and the transaction helper that scopes every write to a single logical
// change. Implementations live in internal/platform/database.
package store
