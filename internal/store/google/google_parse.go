package google

import (
	"errors"
	"fmt"
	"strings"

	"ledger/internal/core"
)

// parseRows converts a values matrix (as returned by the Sheets API) into
// transactions. The first row must be the schema header; blank rows are
// skipped and any other invalid row aborts with a *core.StoreCorruptError.
func parseRows(values [][]any, v *core.Validator) ([]core.Transaction, error) {
	if len(values) == 0 {
		return nil, &core.StoreCorruptError{Backend: backendName, Row: 1, Err: errors.New("missing header")}
	}
	if err := checkHeader(toStrings(values[0]), v.Schema().Columns); err != nil {
		return nil, &core.StoreCorruptError{Backend: backendName, Row: 1, Err: err}
	}

	width := len(v.Schema().Columns)
	var out []core.Transaction
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		// The API trims trailing empty cells; pad so missing cells fail as fields.
		for len(row) < width {
			row = append(row, "")
		}
		t, err := v.ParseRecord(row)
		if err != nil {
			return nil, &core.StoreCorruptError{Backend: backendName, Row: i + 1, Err: err}
		}
		out = append(out, t)
	}
	return out, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("unexpected sheet header: got %v, want %v", got, want)
	}
	for i := range want {
		if !strings.EqualFold(got[i], want[i]) {
			return fmt.Errorf("unexpected sheet header: got %v, want %v", got, want)
		}
	}
	return nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
