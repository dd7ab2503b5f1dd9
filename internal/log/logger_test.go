package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"ledger/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})

	tx := core.Transaction{
		Date:        core.NewDate(2024, 2, 1),
		Amount:      core.Money{Cents: 1234},
		Category:    core.Expense,
		Description: core.Travel,
	}
	logger.WithFields(NewFields().WithOperation(OpAppend).WithTransaction(tx)).
		Info("Transaction appended")
	logger.Debug("hidden below info")

	out := buf.String()
	for _, want := range []string{"component=ledger", "operation=append", "amount_cents=1234", "date=02-01-2024", "description=Travel"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "hidden below info") {
		t.Errorf("debug line should be filtered at info level")
	}
}

func TestLogFieldsWithError(t *testing.T) {
	f := NewFields().WithError(nil)
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error must not add a field")
	}
	f.WithError(errors.New("boom"))
	if f[FieldError] != "boom" {
		t.Fatalf("expected error field, got %v", f[FieldError])
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got component %q", l.Component())
	}
	logger := New(Config{Component: ComponentWorker, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected logger from context")
	}
}
