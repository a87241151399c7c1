package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Time: base, Strategy: "alpha", Action: "LEND USDT", Amount: 100, Status: StatusSuccess, Detail: "po1"},
		{Time: base.Add(time.Minute), Strategy: "beta", Action: "MARKET BUY BTC-USDT", Amount: 500, Status: StatusFailure, Detail: "insufficient balance"},
	}
	for _, entry := range entries {
		if err := j.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d", len(got))
	}
	// Newest first.
	if got[0].Strategy != "beta" || got[0].Status != StatusFailure {
		t.Fatalf("got[0] = %+v", got[0])
	}
	if !got[1].Time.Equal(base) {
		t.Fatalf("time = %s, want %s", got[1].Time, base)
	}

	limited, err := j.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(limited) != 1 || limited[0].Strategy != "beta" {
		t.Fatalf("limited = %+v", limited)
	}
}

func TestRecentEmpty(t *testing.T) {
	j := openTestJournal(t)
	got, err := j.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entries = %d", len(got))
	}
}
