package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/pkg/utils"
)

// Collection keys.
const (
	CollectionBills             = "bills"
	CollectionClients           = "clients"
	CollectionPurchases         = "purchases"
	CollectionItems             = "items"
	CollectionTechnicianReports = "technician_reports"
)

// LedgerView is the read/write surface shared by the store and its transactions.
// Lists keep insertion order. Upserts replace in place on a matching id, else append.
type LedgerView interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListTechnicianReports(ctx context.Context) ([]models.TechnicianReport, error)

	UpsertBill(ctx context.Context, bill models.Bill) error
	UpsertClient(ctx context.Context, client models.Client) error
	UpsertPurchase(ctx context.Context, purchase models.Purchase) error
	UpsertItem(ctx context.Context, item models.Item) error
	UpsertTechnicianReport(ctx context.Context, report models.TechnicianReport) error

	FindBillByID(ctx context.Context, id string) (*models.Bill, error)
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	FindClientByGSTIN(ctx context.Context, gstin string) (*models.Client, error)
	FindItemByID(ctx context.Context, id string) (*models.Item, error)
	FindItemByDescription(ctx context.Context, description string) (*models.Item, error)
	FindTechnicianReportByID(ctx context.Context, id string) (*models.TechnicianReport, error)
}

// LedgerRepository is the injected ledger store.
type LedgerRepository interface {
	LedgerView
	// Begin starts a transaction whose writes are staged until Commit.
	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx reads through its own staged writes and persists all of them
// in one KVStore.SetMany call on Commit. A commit that finds a collection it
// read already changed fails with ErrConflict.
type LedgerTx interface {
	LedgerView
	Commit(ctx context.Context) error
	Rollback()
}

type ledgerRepository struct {
	kv KVStore
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(kv KVStore) LedgerRepository {
	return &ledgerRepository{kv: kv}
}

func (r *ledgerRepository) Begin(_ context.Context) (LedgerTx, error) {
	return newLedgerTx(r.kv), nil
}

// withTx runs fn in a fresh transaction and commits it, starting over when
// the commit conflicts.
func (r *ledgerRepository) withTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return RetryOnConflict(ctx, func() error {
		tx := newLedgerTx(r.kv)
		defer tx.Rollback()
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

// MaxTxAttempts bounds how often RetryOnConflict runs a transaction.
const MaxTxAttempts = 5

// RetryOnConflict runs fn until it returns anything other than ErrConflict,
// backing off briefly between attempts. The last conflict is returned when
// the attempts run out.
func RetryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= MaxTxAttempts; attempt++ {
		if err = fn(); !errors.Is(err, ErrConflict) {
			return err
		}
		utils.LogDebug("Ledger transaction conflicted, retrying", map[string]interface{}{"attempt": attempt})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 5 * time.Millisecond):
		}
	}
	return err
}

func (r *ledgerRepository) ListBills(ctx context.Context) ([]models.Bill, error) {
	return loadCollection[models.Bill](ctx, r.kv, CollectionBills)
}

func (r *ledgerRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	return loadCollection[models.Client](ctx, r.kv, CollectionClients)
}

func (r *ledgerRepository) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return loadCollection[models.Purchase](ctx, r.kv, CollectionPurchases)
}

func (r *ledgerRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	return loadCollection[models.Item](ctx, r.kv, CollectionItems)
}

func (r *ledgerRepository) ListTechnicianReports(ctx context.Context) ([]models.TechnicianReport, error) {
	return loadCollection[models.TechnicianReport](ctx, r.kv, CollectionTechnicianReports)
}

func (r *ledgerRepository) UpsertBill(ctx context.Context, bill models.Bill) error {
	return r.withTx(ctx, func(tx LedgerTx) error { return tx.UpsertBill(ctx, bill) })
}

func (r *ledgerRepository) UpsertClient(ctx context.Context, client models.Client) error {
	return r.withTx(ctx, func(tx LedgerTx) error { return tx.UpsertClient(ctx, client) })
}

func (r *ledgerRepository) UpsertPurchase(ctx context.Context, purchase models.Purchase) error {
	return r.withTx(ctx, func(tx LedgerTx) error { return tx.UpsertPurchase(ctx, purchase) })
}

func (r *ledgerRepository) UpsertItem(ctx context.Context, item models.Item) error {
	return r.withTx(ctx, func(tx LedgerTx) error { return tx.UpsertItem(ctx, item) })
}

func (r *ledgerRepository) UpsertTechnicianReport(ctx context.Context, report models.TechnicianReport) error {
	return r.withTx(ctx, func(tx LedgerTx) error { return tx.UpsertTechnicianReport(ctx, report) })
}

func (r *ledgerRepository) FindBillByID(ctx context.Context, id string) (*models.Bill, error) {
	bills, err := r.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(bills, func(b models.Bill) bool { return b.ID == id })
}

func (r *ledgerRepository) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	clients, err := r.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(clients, func(c models.Client) bool { return c.ID == id })
}

// FindClientByGSTIN matches exactly, case included.
func (r *ledgerRepository) FindClientByGSTIN(ctx context.Context, gstin string) (*models.Client, error) {
	clients, err := r.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(clients, func(c models.Client) bool { return c.GSTIN == gstin })
}

func (r *ledgerRepository) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(items, func(i models.Item) bool { return i.ID == id })
}

func (r *ledgerRepository) FindItemByDescription(ctx context.Context, description string) (*models.Item, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(items, func(i models.Item) bool { return i.Description == description })
}

func (r *ledgerRepository) FindTechnicianReportByID(ctx context.Context, id string) (*models.TechnicianReport, error) {
	reports, err := r.ListTechnicianReports(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(reports, func(t models.TechnicianReport) bool { return t.ID == id })
}

// loadCollection reads and decodes one collection. A missing key is an empty
// collection; a malformed blob is logged and also read as empty.
func loadCollection[T models.Record](ctx context.Context, kv KVStore, key string) ([]T, error) {
	records, _, err := readCollection[T](ctx, kv, key)
	return records, err
}

// readCollection is loadCollection that also returns the stored bytes.
func readCollection[T models.Record](ctx context.Context, kv KVStore, key string) ([]T, []byte, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	records, err := decodeCollection[T](key, raw)
	if err != nil {
		utils.LogWarn("Discarding malformed ledger collection", map[string]interface{}{
			"collection": key,
			"error":      err.Error(),
		})
		return []T{}, raw, nil
	}
	return records, raw, nil
}

// decodeCollection accepts only a JSON array whose every element decodes into T
// and carries a non-empty id. Anything else is rejected as a whole.
func decodeCollection[T models.Record](key string, raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array: %v", ErrMalformedCollection, key, err)
	}

	records := make([]T, 0, len(elems))
	for i, elem := range elems {
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedCollection, key, i, err)
		}
		if rec.RecordID() == "" {
			return nil, fmt.Errorf("%w: %s[%d] has no id", ErrMalformedCollection, key, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func encodeCollection[T models.Record](key string, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", ErrStorage, key, err)
	}
	return raw, nil
}

func upsertRecord[T models.Record](records []T, rec T) []T {
	for i := range records {
		if records[i].RecordID() == rec.RecordID() {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

func findFirst[T any](records []T, match func(T) bool) (*T, error) {
	for i := range records {
		if match(records[i]) {
			found := records[i]
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
