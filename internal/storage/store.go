// Package storage defines the persistence port the ledger is built on.
// Implementations live in the file and sqlite subpackages.
package storage

import (
	"context"
	"errors"

	"wallet/internal/core"
)

var (
	// ErrNotFound means the backing data does not exist yet.
	ErrNotFound = errors.New("records not found")
	// ErrMalformed means stored data could not be decoded into records.
	ErrMalformed = errors.New("malformed records")
)

// Store persists the full ordered record sequence.
type Store interface {
	// Load streams stored records in order. fn is called once per record;
	// records already passed to fn stay delivered when a later one fails.
	Load(ctx context.Context, fn func(core.Record) error) error

	// Save replaces the stored records with records, in order.
	Save(ctx context.Context, records []core.Record) error

	// Location describes where records are kept, for logs and messages.
	Location() string
}
