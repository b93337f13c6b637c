package testsupport

import (
	"testing"

	"factreel/internal/config"
	"factreel/internal/ledger"
)

// MustOpenLedger opens the ledger store for a test config and registers
// cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
