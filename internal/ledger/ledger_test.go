package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wallet/internal/core"
	"wallet/internal/storage"
	"wallet/internal/storage/file"
)

// fakeStore yields records then optionally fails, and records saves.
type fakeStore struct {
	records []core.Record
	loadErr error
	saveErr error
	saved   []core.Record
}

func (s *fakeStore) Load(_ context.Context, fn func(core.Record) error) error {
	for _, r := range s.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return s.loadErr
}

func (s *fakeStore) Save(_ context.Context, records []core.Record) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append([]core.Record(nil), records...)
	return nil
}

func (s *fakeStore) Location() string { return "fake" }

func sample() []core.Record {
	return []core.Record{
		core.NewRecord("2024-01-01", core.Income, 100, "salary"),
		core.NewRecord("2024-01-02", core.Expense, 40, "groceries"),
		core.NewRecord("2024-01-02", core.Income, 5, "refund"),
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.txt")

	src := New(file.New(path))
	for _, r := range sample() {
		src.Add(r)
	}
	src.Add(core.NewRecord("2024-02-01", "Transfer", 0.1+0.2, ""))
	if err := src.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := New(file.New(path))
	if err := dst.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	want, got := src.Records(), dst.Records()
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	var status bytes.Buffer
	l := New(file.New(filepath.Join(t.TempDir(), "missing.txt")), WithStatus(&status))

	err := l.Load(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d records", l.Len())
	}
	if strings.TrimSpace(status.String()) != MsgNotFound {
		t.Fatalf("unexpected status: %q", status.String())
	}
}

func TestLoadAccumulates(t *testing.T) {
	store := &fakeStore{records: sample()}
	l := New(store)
	ctx := context.Background()
	if err := l.Load(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := l.Load(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if l.Len() != 2*len(sample()) {
		t.Fatalf("expected duplicated records, got %d", l.Len())
	}
}

func TestLoadPartialFailureKeepsParsedRecords(t *testing.T) {
	var status bytes.Buffer
	store := &fakeStore{
		records: sample()[:2],
		loadErr: fmt.Errorf("%w: line 13: amount", storage.ErrMalformed),
	}
	l := New(store, WithStatus(&status))
	l.Add(core.NewRecord("2023-12-31", core.Income, 1, "existing"))
	status.Reset()

	err := l.Load(context.Background())
	if !errors.Is(err, storage.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	got := l.Records()
	if len(got) != 3 || got[0].Description != "existing" || got[2] != sample()[1] {
		t.Fatalf("unexpected records after partial load: %+v", got)
	}
	if !strings.HasPrefix(status.String(), MsgLoadFailed) {
		t.Fatalf("unexpected status: %q", status.String())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	content := "Date: 2024-01-01\nCategory: Income\nAmount: 10\nDescription: ok\n\n" +
		"Date: 2024-01-02\nCategory: Expense\nAmount: ten\nDescription: bad\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := New(file.New(path))
	if err := l.Load(context.Background()); !errors.Is(err, storage.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected the first record to stay loaded, got %d", l.Len())
	}
}

func TestSaveFailure(t *testing.T) {
	var status bytes.Buffer
	store := &fakeStore{saveErr: errors.New("disk full")}
	l := New(store, WithStatus(&status))
	l.Add(sample()[0])
	status.Reset()

	if err := l.Save(context.Background()); err == nil {
		t.Fatalf("expected save error")
	}
	if !strings.HasPrefix(status.String(), MsgSaveFailed) {
		t.Fatalf("unexpected status: %q", status.String())
	}
	if l.Len() != 1 {
		t.Fatalf("records must survive a failed save")
	}
}

func TestSaveWritesCurrentOrder(t *testing.T) {
	store := &fakeStore{}
	var status bytes.Buffer
	l := New(store, WithStatus(&status))
	for _, r := range sample() {
		l.Add(r)
	}
	if err := l.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(store.saved) != 3 || store.saved[1] != sample()[1] {
		t.Fatalf("unexpected saved records: %+v", store.saved)
	}
	if !strings.HasSuffix(status.String(), MsgSaved+"\n") {
		t.Fatalf("unexpected status: %q", status.String())
	}
}

func TestAdd(t *testing.T) {
	var status bytes.Buffer
	l := New(&fakeStore{}, WithStatus(&status))
	r := sample()[0]
	l.Add(r)
	l.Add(r)
	if l.Len() != 2 {
		t.Fatalf("duplicates are allowed, got %d records", l.Len())
	}
	if strings.Count(status.String(), MsgAdded) != 2 {
		t.Fatalf("unexpected status: %q", status.String())
	}
}

func TestEditBounds(t *testing.T) {
	replacement := core.NewRecord("2024-05-05", core.Expense, 9.99, "replaced")

	for _, index := range []int{-1, 3} {
		t.Run(fmt.Sprintf("index_%d", index), func(t *testing.T) {
			var status bytes.Buffer
			l := New(&fakeStore{}, WithStatus(&status))
			for _, r := range sample() {
				l.Add(r)
			}
			status.Reset()

			err := l.Edit(index, replacement)
			if !errors.Is(err, ErrInvalidIndex) {
				t.Fatalf("expected ErrInvalidIndex, got %v", err)
			}
			got := l.Records()
			for i, r := range sample() {
				if got[i] != r {
					t.Fatalf("record %d changed: %+v", i, got[i])
				}
			}
			if strings.TrimSpace(status.String()) != MsgInvalidIndex {
				t.Fatalf("unexpected status: %q", status.String())
			}
		})
	}

	t.Run("index_0", func(t *testing.T) {
		l := New(&fakeStore{})
		for _, r := range sample() {
			l.Add(r)
		}
		if err := l.Edit(0, replacement); err != nil {
			t.Fatalf("edit: %v", err)
		}
		got := l.Records()
		if got[0] != replacement || got[1] != sample()[1] || got[2] != sample()[2] {
			t.Fatalf("unexpected records: %+v", got)
		}
	})

	t.Run("empty ledger", func(t *testing.T) {
		l := New(&fakeStore{})
		if err := l.Edit(0, replacement); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("expected ErrInvalidIndex, got %v", err)
		}
	})
}

func TestRecordsReturnsCopy(t *testing.T) {
	l := New(&fakeStore{})
	l.Add(sample()[0])
	rs := l.Records()
	rs[0].Description = "mutated"
	if l.Records()[0].Description != "salary" {
		t.Fatalf("Records must not expose internal state")
	}
}
