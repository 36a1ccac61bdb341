package file

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"wallet/internal/core"
	"wallet/internal/storage"
)

// Each record takes exactly linesPerRecord lines: four labeled values and a
// blank separator.
const (
	linesPerRecord = 5

	labelDate        = "Date"
	labelCategory    = "Category"
	labelAmount      = "Amount"
	labelDescription = "Description"

	valueSeparator = ": "
	maxLineSize    = 1 << 20
)

// Decoder reads records from the line-oriented ledger format. It has no
// resynchronization: a missing line shifts every record that follows.
type Decoder struct {
	sc   *bufio.Scanner
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{sc: sc}
}

// Decode returns the next record, or io.EOF when the input ends cleanly on a
// record boundary. Decode errors wrap storage.ErrMalformed.
func (d *Decoder) Decode() (core.Record, error) {
	var values [linesPerRecord - 1]string
	for i := range values {
		text, ok, err := d.next()
		if err != nil {
			return core.Record{}, err
		}
		if !ok {
			if i == 0 {
				return core.Record{}, io.EOF
			}
			return core.Record{}, fmt.Errorf("%w: truncated record at line %d", storage.ErrMalformed, d.line)
		}
		_, value, found := strings.Cut(text, valueSeparator)
		if !found {
			return core.Record{}, fmt.Errorf("%w: line %d: missing %q", storage.ErrMalformed, d.line, valueSeparator)
		}
		values[i] = value
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(values[2]), 64)
	if err == nil && (math.IsNaN(amount) || math.IsInf(amount, 0)) {
		err = core.ErrInvalidAmount
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: line %d: amount %q: %v", storage.ErrMalformed, d.line-1, values[2], err)
	}

	// Separator line, not inspected. It may be missing at end of input.
	if _, _, err := d.next(); err != nil {
		return core.Record{}, err
	}

	return core.NewRecord(values[0], core.Category(values[1]), amount, values[3]), nil
}

func (d *Decoder) next() (string, bool, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return "", false, fmt.Errorf("read line %d: %w", d.line+1, err)
		}
		return "", false, nil
	}
	d.line++
	return strings.TrimSuffix(d.sc.Text(), "\r"), true, nil
}

// Encode writes records in the ledger format.
func Encode(w io.Writer, records []core.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "%s%s%s\n", labelDate, valueSeparator, r.Date)
		fmt.Fprintf(bw, "%s%s%s\n", labelCategory, valueSeparator, r.Category)
		fmt.Fprintf(bw, "%s%s%s\n", labelAmount, valueSeparator, core.FormatAmount(r.Amount))
		fmt.Fprintf(bw, "%s%s%s\n", labelDescription, valueSeparator, r.Description)
		bw.WriteString("\n")
	}
	return bw.Flush()
}
