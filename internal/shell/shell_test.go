package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wallet/internal/core"
	"wallet/internal/ledger"
	"wallet/internal/storage/file"
)

const seed = "Date: 2024-01-01\nCategory: Income\nAmount: 100.0\nDescription: salary\n\n" +
	"Date: 2024-01-02\nCategory: Expense\nAmount: 40.0\nDescription: groceries\n\n"

func run(t *testing.T, path, input string, opts ...Option) (string, *ledger.Ledger, error) {
	t.Helper()
	var out bytes.Buffer
	l := ledger.New(file.New(path), ledger.WithStatus(&out))
	err := New(l, strings.NewReader(input), &out, opts...).Run(context.Background())
	return out.String(), l, err
}

func seeded(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.txt")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func TestRunBalanceAndExit(t *testing.T) {
	out, _, err := run(t, seeded(t), "1\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{ledger.MsgLoaded, ledger.MsgBalance + " 60", ledger.MsgSaved, MsgFinished} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunAddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	out, _, err := run(t, path, "2\n2024-03-01\nIncome\n12,5\nbonus\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, ledger.MsgNotFound) || !strings.Contains(out, ledger.MsgAdded) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "Date: 2024-03-01\nCategory: Income\nAmount: 12.5\nDescription: bonus\n\n"
	if string(data) != want {
		t.Fatalf("unexpected file:\n%s", data)
	}
}

func TestRunAddInvalidAmount(t *testing.T) {
	out, l, err := run(t, seeded(t), "2\n2024-03-01\nIncome\nlots\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, MsgInvalidAmount) {
		t.Fatalf("expected invalid amount message:\n%s", out)
	}
	if l.Len() != 2 {
		t.Fatalf("expected no record added, got %d", l.Len())
	}
}

func TestRunEdit(t *testing.T) {
	_, l, err := run(t, seeded(t), "3\n2\n2024-01-05\nExpense\n15\nbooks\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := l.Records()
	if got[0].Description != "salary" || got[1] != core.NewRecord("2024-01-05", core.Expense, 15, "books") {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestRunEditInvalidIndex(t *testing.T) {
	for _, index := range []string{"0", "3", "-1", "two"} {
		t.Run(index, func(t *testing.T) {
			out, l, err := run(t, seeded(t), "3\n"+index+"\n5\n")
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !strings.Contains(out, ledger.MsgInvalidIndex) {
				t.Fatalf("expected invalid index message:\n%s", out)
			}
			if strings.Contains(out, "Enter new date") {
				t.Fatalf("fields must not be prompted for an invalid index")
			}
			if l.Len() != 2 {
				t.Fatalf("ledger changed: %d records", l.Len())
			}
		})
	}
}

func TestRunSearch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		not   []string
	}{
		{"all blank lists everything", "4\n\n\n\n5\n", []string{MsgResults, "Record 1:", "Description: salary", "Record 2:", "Description: groceries"}, nil},
		{"by date", "4\n\n2024-01-02\n\n5\n", []string{"Record 1:", "Description: groceries"}, []string{"salary", "Record 2:"}},
		{"by amount", "4\n\n\n100\n5\n", []string{"Amount: 100.0", "Description: salary"}, []string{"groceries"}},
		{"no match", "4\nTransfer\n\n\n5\n", []string{MsgNoResults}, []string{MsgResults}},
		{"bad amount", "4\n\n\nabc\n5\n", []string{MsgInvalidAmount}, []string{MsgResults}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, seeded(t), tt.input)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q", w)
				}
			}
			for _, n := range tt.not {
				// The seed is echoed nowhere else, so absence is meaningful.
				if strings.Contains(out, n) {
					t.Errorf("output unexpectedly contains %q", n)
				}
			}
		})
	}
}

func TestRunAddLongDescription(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	out, l, err := run(t, seeded(t), "2\n2024-03-01\nExpense\n3\n"+long+"\n1\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if l.Len() != 3 || l.Records()[2].Description != long {
		t.Fatalf("long description not stored, %d records", l.Len())
	}
	if !strings.Contains(out, ledger.MsgBalance+" 57.0") {
		t.Fatalf("session ended before the balance choice:\n%s", out[len(out)-200:])
	}
}

func TestRunInvalidChoice(t *testing.T) {
	out, _, err := run(t, seeded(t), "9\n5\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, MsgInvalidChoice) {
		t.Fatalf("expected invalid choice message:\n%s", out)
	}
}

func TestRunEndOfInputSavesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")
	calls := 0
	hook := func(_ context.Context, records []core.Record) error {
		calls++
		if len(records) != 1 {
			t.Errorf("hook got %d records", len(records))
		}
		return nil
	}
	// Input ends in the middle of an add: the partial record is dropped.
	out, _, err := run(t, path, "2\n2024-01-01\nIncome\n1\nfirst\n2\n2024-01-02\n", WithExitHook(hook))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out, ledger.MsgSaved) != 1 || calls != 1 {
		t.Fatalf("expected exactly one save and hook call, saves=%d calls=%d", strings.Count(out, ledger.MsgSaved), calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
}

func TestRunExitHookFailureIsReported(t *testing.T) {
	hook := func(context.Context, []core.Record) error { return errors.New("broker down") }
	out, _, err := run(t, seeded(t), "5\n", WithExitHook(hook))
	if err != nil {
		t.Fatalf("hook failure must not fail the run: %v", err)
	}
	if !strings.Contains(out, MsgMirrorFailed+" broker down") {
		t.Fatalf("expected mirror failure message:\n%s", out)
	}
}

func TestRunSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "records.txt")
	called := false
	hook := func(context.Context, []core.Record) error { called = true; return nil }
	out, _, err := run(t, path, "5\n", WithExitHook(hook))
	if err == nil {
		t.Fatal("expected save error")
	}
	if !strings.Contains(out, ledger.MsgSaveFailed) || !strings.Contains(out, MsgFinished) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if called {
		t.Fatal("hook must not run after a failed save")
	}
}
