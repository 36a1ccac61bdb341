package sheets

import (
	"context"

	"wallet/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// RecordMirror keeps an external copy of the ledger.
	RecordMirror interface {
		// ReplaceRecords overwrites the mirror with records, in order.
		ReplaceRecords(ctx context.Context, records []core.Record) error
	}

	// RecordReader reads the mirrored records back.
	RecordReader interface {
		ReadRecords(ctx context.Context) ([]core.Record, error)
	}
)
