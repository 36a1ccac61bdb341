package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"wallet/internal/amqp"
	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/sheets"
)

// SnapshotPublisher sends a ledger snapshot to a message broker.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, msg *amqp.SnapshotMessage) error
}

// MirrorService pushes a saved ledger to the configured external copies.
// Either target may be absent; with neither, Sync does nothing.
type MirrorService struct {
	publisher SnapshotPublisher
	mirror    sheets.RecordMirror
	source    string
	timeout   time.Duration
	logger    *log.Logger
}

func NewMirrorService(publisher SnapshotPublisher, mirror sheets.RecordMirror, source string, timeout time.Duration, logger *log.Logger) *MirrorService {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorService{
		publisher: publisher,
		mirror:    mirror,
		source:    source,
		timeout:   timeout,
		logger:    logger.WithComponent(log.ComponentMirror),
	}
}

// Enabled reports whether at least one target is configured.
func (s *MirrorService) Enabled() bool {
	return s != nil && (s.publisher != nil || s.mirror != nil)
}

// Sync publishes the snapshot and rewrites the sheet concurrently. The
// first failure cancels the other target.
func (s *MirrorService) Sync(ctx context.Context, records []core.Record) error {
	if !s.Enabled() {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	if s.publisher != nil {
		msg := amqp.NewSnapshotMessage(s.source, records)
		g.Go(func() error {
			if err := s.publisher.PublishSnapshot(gctx, msg); err != nil {
				return fmt.Errorf("amqp: %w", err)
			}
			return nil
		})
	}

	if s.mirror != nil {
		g.Go(func() error {
			if err := s.mirror.ReplaceRecords(gctx, records); err != nil {
				return fmt.Errorf("sheets: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Mirror sync failed", log.NewFields().
			WithOperation(log.OpSync).
			WithError(err, log.ErrorTypeNetwork).
			WithCount(len(records)).
			ToSlice()...)
		return fmt.Errorf("mirror sync: %w", err)
	}

	s.logger.InfoContext(ctx, "Mirror sync complete",
		log.FieldCount, len(records),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Close releases targets that hold connections
func (s *MirrorService) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, target := range []any{s.publisher, s.mirror} {
		if c, ok := target.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
