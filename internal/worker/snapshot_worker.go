package worker

import (
	"context"
	"fmt"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/sheets"
)

// SnapshotWorker applies ledger snapshots from the broker to a mirror.
type SnapshotWorker struct {
	mirror sheets.RecordMirror
	logger *log.Logger

	// last applied snapshot, used to drop stale redeliveries
	lastTimestamp time.Time
	lastID        string
}

func NewSnapshotWorker(mirror sheets.RecordMirror, logger *log.Logger) *SnapshotWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SnapshotWorker{
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSnapshot replaces the mirror contents with the snapshot. Snapshots
// older than the last applied one are acknowledged without writing.
func (w *SnapshotWorker) HandleSnapshot(ctx context.Context, msg *amqp.SnapshotMessage) error {
	if msg.ID == w.lastID || (!w.lastTimestamp.IsZero() && msg.Timestamp.Before(w.lastTimestamp)) {
		w.logger.InfoContext(ctx, "Skipping stale snapshot",
			log.FieldSnapshotID, msg.ID,
			"timestamp", msg.Timestamp)
		return nil
	}

	records := msg.CoreRecords()
	w.logger.InfoContext(ctx, "Applying snapshot",
		log.FieldSnapshotID, msg.ID,
		log.FieldCount, len(records))

	if err := w.mirror.ReplaceRecords(ctx, records); err != nil {
		return fmt.Errorf("replace mirrored records: %w", err)
	}

	w.lastID = msg.ID
	w.lastTimestamp = msg.Timestamp
	return nil
}

// Summary returns the balance of the last snapshot a reader holds, for
// startup logging.
func Summary(ctx context.Context, reader sheets.RecordReader) (core.Summary, error) {
	records, err := reader.ReadRecords(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("read mirrored records: %w", err)
	}
	return core.Summarize(records), nil
}
