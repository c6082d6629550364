package testsupport

import (
	"context"
	"testing"

	"subrename/internal/config"
	"subrename/internal/journal"
)

// MustOpenJournal opens the journal for cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
