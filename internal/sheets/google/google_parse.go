package google

import (
	"fmt"
	"strconv"
	"strings"

	"wallet/internal/core"
)

var header = []any{"Date", "Category", "Amount", "Description"}

// recordsToValues converts records to a values matrix with a header row.
func recordsToValues(records []core.Record) [][]any {
	values := make([][]any, 0, len(records)+1)
	values = append(values, header)
	for _, r := range records {
		values = append(values, []any{r.Date, string(r.Category), r.Amount, r.Description})
	}
	return values
}

// valuesToRecords converts data rows (no header) as returned by the Sheets
// API. Trailing empty cells may be omitted by the API.
func valuesToRecords(values [][]any) ([]core.Record, error) {
	out := make([]core.Record, 0, len(values))
	for i, row := range values {
		cells := toStrings(row)
		if len(cells) == 0 {
			continue
		}
		amount, err := parseAmountCell(safeGet(row, 2))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, core.NewRecord(
			safeGetString(cells, 0),
			core.Category(safeGetString(cells, 1)),
			amount,
			safeGetString(cells, 3),
		))
	}
	return out, nil
}

func parseAmountCell(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case nil:
		return 0, nil
	default:
		s := strings.TrimSpace(fmt.Sprint(x))
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", core.ErrInvalidAmount, s)
		}
		return f, nil
	}
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

func safeGet(arr []any, idx int) any {
	if idx < 0 || idx >= len(arr) {
		return nil
	}
	return arr[idx]
}

func safeGetString(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
