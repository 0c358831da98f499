package history

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/iop/internal/domain"
)

func TestSQLiteStoreSaveAndRecords(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))

	first := domain.HistoryRecord{
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Query:     "list files?",
		Command:   "ls -la",
		Model:     "m",
		Executed:  true,
		Success:   true,
		RiskLevel: domain.RiskSafe,
	}
	second := domain.HistoryRecord{
		Query:     "show disks?",
		Command:   "df -h",
		Model:     "m",
		Executed:  true,
		ExitCode:  1,
		RiskLevel: domain.RiskSafe,
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	records, err := store.Records(ctx, 0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Command != "df -h" || records[0].Success || records[0].ExitCode != 1 {
		t.Fatalf("unexpected newest record: %+v", records[0])
	}
	if !records[1].Timestamp.Equal(first.Timestamp) {
		t.Fatalf("timestamp round trip: got %s want %s", records[1].Timestamp, first.Timestamp)
	}

	found, err := store.Records(ctx, 10, "ls")
	if err != nil {
		t.Fatalf("Records search error: %v", err)
	}
	if len(found) != 1 || found[0].Command != "ls -la" {
		t.Fatalf("search returned %+v", found)
	}

	limited, err := store.Records(ctx, 1, "")
	if err != nil {
		t.Fatalf("Records limit error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d records", len(limited))
	}
}

func TestSQLiteStoreExportAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))
	if err := store.Save(ctx, domain.HistoryRecord{Query: "q", Command: "echo hi"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	var buf bytes.Buffer
	if err := store.ExportJSON(ctx, &buf); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	if !strings.Contains(buf.String(), `"command":"echo hi"`) {
		t.Fatalf("export missing command: %s", buf.String())
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err := store.Records(ctx, 0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d", len(records))
	}
}
