// Package shell implements the console menu around a ledger.
//
// The shell owns prompting and input parsing only. Every action is a direct
// call into the ledger, which writes its own status lines.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wallet/internal/core"
	"wallet/internal/ledger"
	"wallet/internal/log"
)

const (
	MsgInvalidChoice = "Invalid choice. Try again."
	MsgInvalidAmount = "Invalid amount."
	MsgNoResults     = "No records match the given criteria."
	MsgResults       = "Search results:"
	MsgFinished      = "Program finished."
	MsgMirrorFailed  = "Mirror sync failed:"
)

// maxLineSize bounds a single line of input.
const maxLineSize = 1 << 20

var menu = []string{
	"1. Show balance",
	"2. Add record",
	"3. Edit record",
	"4. Search records",
	"5. Exit",
}

// errEndOfInput ends the session as if the user chose exit.
var errEndOfInput = errors.New("end of input")

// ExitHook runs after a successful save at exit.
type ExitHook func(ctx context.Context, records []core.Record) error

type Shell struct {
	ledger *ledger.Ledger
	in     *bufio.Scanner
	out    io.Writer
	onExit ExitHook
	logger *log.Logger
}

type Option func(*Shell)

func WithExitHook(hook ExitHook) Option {
	return func(s *Shell) { s.onExit = hook }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger.WithComponent(log.ComponentShell)
		}
	}
}

func New(l *ledger.Ledger, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s := &Shell{
		ledger: l,
		in:     sc,
		out:    out,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loads the ledger, serves menu choices until exit or end of input, then
// saves exactly once. The returned error is the save error, if any; load
// failures are reported and the session continues.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.ledger.Load(ctx); err != nil {
		s.logger.DebugContext(ctx, "Starting with partial or empty ledger", log.FieldError, err)
	}

	for {
		for _, line := range menu {
			fmt.Fprintln(s.out, line)
		}
		choice, err := s.prompt("Choose an action: ")
		if err != nil {
			return s.exit(ctx)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			s.ledger.DisplayBalance()
		case "2":
			err = s.addRecord()
		case "3":
			err = s.editRecord()
		case "4":
			err = s.searchRecords()
		case "5":
			return s.exit(ctx)
		default:
			fmt.Fprintln(s.out, MsgInvalidChoice)
		}
		if errors.Is(err, errEndOfInput) {
			return s.exit(ctx)
		}
	}
}

func (s *Shell) exit(ctx context.Context) error {
	err := s.ledger.Save(ctx)
	if err == nil && s.onExit != nil {
		if hookErr := s.onExit(ctx, s.ledger.Records()); hookErr != nil {
			fmt.Fprintln(s.out, MsgMirrorFailed, hookErr)
		}
	}
	fmt.Fprintln(s.out, MsgFinished)
	return err
}

func (s *Shell) addRecord() error {
	r, ok, err := s.readRecord("Enter date: ", "Enter category (Income/Expense): ", "Enter amount: ", "Enter description: ")
	if err != nil || !ok {
		return err
	}
	s.ledger.Add(r)
	return nil
}

func (s *Shell) editRecord() error {
	text, err := s.prompt("Enter the number of the record to edit: ")
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(text))
	if convErr != nil || n < 1 || n > s.ledger.Len() {
		fmt.Fprintln(s.out, ledger.MsgInvalidIndex)
		return nil
	}

	r, ok, err := s.readRecord("Enter new date: ", "Enter new category (Income/Expense): ", "Enter new amount: ", "Enter new description: ")
	if err != nil || !ok {
		return err
	}
	// Status is reported by the ledger on both outcomes.
	_ = s.ledger.Edit(n-1, r)
	return nil
}

func (s *Shell) searchRecords() error {
	var f ledger.Filter

	category, err := s.prompt("Category to search (Income/Expense, blank for any): ")
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(category); v != "" {
		c := core.Category(v)
		f.Category = &c
	}

	date, err := s.prompt("Date to search (YYYY-MM-DD, blank for any): ")
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(date); v != "" {
		f.Date = &v
	}

	amount, err := s.prompt("Amount to search (blank for any): ")
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(amount); v != "" {
		a, parseErr := core.ParseAmount(v)
		if parseErr != nil {
			fmt.Fprintln(s.out, MsgInvalidAmount)
			return nil
		}
		f.Amount = &a
	}

	s.printResults(s.ledger.Search(f))
	return nil
}

// readRecord prompts for the four fields. ok is false when the amount does
// not parse; the user has been told.
func (s *Shell) readRecord(datePrompt, categoryPrompt, amountPrompt, descriptionPrompt string) (core.Record, bool, error) {
	date, err := s.prompt(datePrompt)
	if err != nil {
		return core.Record{}, false, err
	}
	category, err := s.prompt(categoryPrompt)
	if err != nil {
		return core.Record{}, false, err
	}
	amountText, err := s.prompt(amountPrompt)
	if err != nil {
		return core.Record{}, false, err
	}
	amount, parseErr := core.ParseAmount(amountText)
	if parseErr != nil {
		fmt.Fprintln(s.out, MsgInvalidAmount)
		return core.Record{}, false, nil
	}
	description, err := s.prompt(descriptionPrompt)
	if err != nil {
		return core.Record{}, false, err
	}
	return core.NewRecord(date, core.Category(category), amount, description), true, nil
}

func (s *Shell) printResults(results []core.Record) {
	if len(results) == 0 {
		fmt.Fprintln(s.out, MsgNoResults)
		return
	}
	fmt.Fprintln(s.out, MsgResults)
	for i, r := range results {
		fmt.Fprintf(s.out, "Record %d:\n", i+1)
		fmt.Fprintf(s.out, "Date: %s\n", r.Date)
		fmt.Fprintf(s.out, "Category: %s\n", r.Category)
		fmt.Fprintf(s.out, "Amount: %s\n", core.FormatAmount(r.Amount))
		fmt.Fprintf(s.out, "Description: %s\n", r.Description)
		fmt.Fprintln(s.out)
	}
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		if err := s.in.Err(); err != nil {
			s.logger.Error("Reading input failed", log.FieldError, err)
		}
		return "", errEndOfInput
	}
	return strings.TrimSuffix(s.in.Text(), "\r"), nil
}
