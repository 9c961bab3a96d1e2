package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
)

// fixedNow is a Wednesday afternoon, far from any month boundary.
var fixedNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestLedger() repositories.LedgerRepository {
	return repositories.NewLedgerRepository(repositories.NewMemoryStore())
}

// brokenStore serves reads from the wrapped store and fails every write.
type brokenStore struct {
	repositories.KVStore
}

func (brokenStore) SetMany(context.Context, map[string][]byte, map[string][]byte) error {
	return errors.New("backend unavailable")
}

// racingStore runs interleave once, just before its first write, to simulate
// another writer committing between a transaction's reads and its commit.
type racingStore struct {
	repositories.KVStore
	interleave func()
	done       bool
}

func (r *racingStore) SetMany(ctx context.Context, entries, expected map[string][]byte) error {
	if !r.done {
		r.done = true
		r.interleave()
	}
	return r.KVStore.SetMany(ctx, entries, expected)
}

func seedItems(t *testing.T, ledger repositories.LedgerRepository, items ...models.Item) {
	t.Helper()
	for _, it := range items {
		require.NoError(t, ledger.UpsertItem(context.Background(), it))
	}
}

func seedBills(t *testing.T, ledger repositories.LedgerRepository, bills ...models.Bill) {
	t.Helper()
	for _, b := range bills {
		require.NoError(t, ledger.UpsertBill(context.Background(), b))
	}
}

func daysAgo(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format(dateLayout)
}
