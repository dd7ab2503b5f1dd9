// Package csvfile stores transactions in a header-first CSV file, one row per
// transaction. It is the canonical on-disk layout of the ledger.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/core"
	"ledger/internal/store"
)

const backendName = "csv"

var _ store.RecordStore = (*Store)(nil)

type Store struct {
	path      string
	validator *core.Validator
}

func New(path string, validator *core.Validator) *Store {
	return &Store{path: path, validator: validator}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Initialize writes the header to a new file. An existing file is left untouched.
func (s *Store) Initialize(ctx context.Context) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create csv directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(s.validator.Schema().Columns); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv header: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}

	slog.InfoContext(ctx, "Created ledger file", "path", s.path)
	return nil
}

// Append writes one row at the end of the file. The file must exist.
func (s *Store) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := s.validator.Transaction(t); err != nil {
		return "", err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return "", fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.validator.FormatRecord(t)); err != nil {
		return "", fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync csv file: %w", err)
	}

	slog.DebugContext(ctx, "Transaction appended to csv", "path", s.path)
	return fmt.Sprintf("%s:%s", backendName, filepath.Base(s.path)), nil
}

// LoadAll reads every row in file order. Any row that fails validation aborts
// the load with a *core.StoreCorruptError.
func (s *Store) LoadAll(_ context.Context) ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, &core.StoreCorruptError{Backend: backendName, Row: 1, Err: errors.New("missing header")}
	}
	if err != nil {
		return nil, &core.StoreCorruptError{Backend: backendName, Row: 1, Err: err}
	}
	if err := checkHeader(header, s.validator.Schema().Columns); err != nil {
		return nil, &core.StoreCorruptError{Backend: backendName, Row: 1, Err: err}
	}

	var out []core.Transaction
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			row := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				row = pe.Line
			}
			return nil, &core.StoreCorruptError{Backend: backendName, Row: row, Err: err}
		}
		row, _ := r.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		t, err := s.validator.ParseRecord(rec)
		if err != nil {
			return nil, &core.StoreCorruptError{Backend: backendName, Row: row, Err: err}
		}
		out = append(out, t)
	}
	return out, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("unexpected header %v, want %v", got, want)
	}
	for i := range want {
		if strings.TrimSpace(strings.TrimPrefix(got[i], "\ufeff")) != want[i] {
			return fmt.Errorf("unexpected header %v, want %v", got, want)
		}
	}
	return nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
