// Package ledger holds the in-memory record sequence of a wallet and the
// operations the console shell runs against it.
//
// Every operation reports its outcome twice: a human readable status line
// written to the status writer, and a return value (error or result) for
// programmatic callers. No operation terminates the process.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/storage"
)

// Status lines written by the ledger.
const (
	MsgLoaded       = "Records loaded successfully."
	MsgNotFound     = "Records file not found."
	MsgLoadFailed   = "Failed to load records:"
	MsgSaved        = "Records saved successfully."
	MsgSaveFailed   = "Failed to save records:"
	MsgAdded        = "Record added successfully."
	MsgEdited       = "Record edited successfully."
	MsgInvalidIndex = "Invalid record index."
	MsgBalance      = "Current balance:"
)

// ErrInvalidIndex is returned by Edit for a position outside the ledger.
var ErrInvalidIndex = errors.New("invalid record index")

// Ledger owns the ordered records bound to one store. Balance and search
// are recomputed from records on every call.
type Ledger struct {
	store   storage.Store
	records []core.Record
	status  io.Writer
	logger  *log.Logger
}

type Option func(*Ledger)

// WithStatus sets where status lines are written. Defaults to io.Discard.
func WithStatus(w io.Writer) Option {
	return func(l *Ledger) {
		if w != nil {
			l.status = w
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// New returns an empty ledger bound to store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		status: io.Discard,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load appends the stored records to the ledger. Existing records are kept,
// so calling Load twice duplicates them. On a decode failure the records
// read before the failure stay appended.
func (l *Ledger) Load(ctx context.Context) error {
	before := len(l.records)
	err := l.store.Load(ctx, func(r core.Record) error {
		l.records = append(l.records, r)
		return nil
	})
	loaded := len(l.records) - before

	switch {
	case err == nil:
		l.logger.InfoContext(ctx, "Records loaded",
			log.FieldPath, l.store.Location(),
			log.FieldCount, loaded)
		l.statusf("%s", MsgLoaded)
		return nil
	case errors.Is(err, storage.ErrNotFound):
		l.logger.WarnContext(ctx, "Records file not found", log.NewFields().
			WithOperation(log.OpLoad).
			WithError(err, log.ErrorTypeNotFound).
			ToSlice()...)
		l.statusf("%s", MsgNotFound)
		return err
	default:
		errType := log.ErrorTypeIO
		if errors.Is(err, storage.ErrMalformed) {
			errType = log.ErrorTypeParse
		}
		l.logger.ErrorContext(ctx, "Failed to load records", log.NewFields().
			WithOperation(log.OpLoad).
			WithError(err, errType).
			WithCount(loaded).
			ToSlice()...)
		l.statusf("%s %v", MsgLoadFailed, err)
		return fmt.Errorf("load records: %w", err)
	}
}

// Save overwrites the store with the current records.
func (l *Ledger) Save(ctx context.Context) error {
	if err := l.store.Save(ctx, l.records); err != nil {
		l.logger.ErrorContext(ctx, "Failed to save records", log.NewFields().
			WithOperation(log.OpSave).
			WithError(err, log.ErrorTypeIO).
			WithCount(len(l.records)).
			ToSlice()...)
		l.statusf("%s %v", MsgSaveFailed, err)
		return fmt.Errorf("save records: %w", err)
	}

	l.logger.InfoContext(ctx, "Records saved",
		log.FieldPath, l.store.Location(),
		log.FieldCount, len(l.records))
	l.statusf("%s", MsgSaved)
	return nil
}

// Add appends r. It always succeeds.
func (l *Ledger) Add(r core.Record) {
	l.records = append(l.records, r)
	l.logger.Debug("Record added", log.NewFields().
		WithOperation(log.OpAdd).
		WithRecord(r.Date, string(r.Category), r.Amount, r.Description).
		ToSlice()...)
	l.statusf("%s", MsgAdded)
}

// Edit replaces the record at index. Negative and past-the-end indices both
// return ErrInvalidIndex and leave the ledger unchanged.
func (l *Ledger) Edit(index int, r core.Record) error {
	if index < 0 || index >= len(l.records) {
		l.logger.Warn("Edit rejected", log.FieldIndex, index, log.FieldCount, len(l.records))
		l.statusf("%s", MsgInvalidIndex)
		return fmt.Errorf("%w: %d (ledger has %d records)", ErrInvalidIndex, index, len(l.records))
	}
	l.records[index] = r
	l.logger.Debug("Record edited", log.FieldIndex, index)
	l.statusf("%s", MsgEdited)
	return nil
}

// Records returns a copy of the current records.
func (l *Ledger) Records() []core.Record {
	out := make([]core.Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// Location describes the bound store.
func (l *Ledger) Location() string {
	return l.store.Location()
}

func (l *Ledger) statusf(format string, args ...any) {
	fmt.Fprintf(l.status, format+"\n", args...)
}
