package repositories

import (
	"context"
	"fmt"

	"gst_invoicing_backend/internal/models"
)

// stagedCollection is one collection as seen inside a transaction.
// raw is the stored value the records were decoded from; Commit expects the
// backend to still hold it.
type stagedCollection[T models.Record] struct {
	key     string
	records []T
	raw     []byte
	loaded  bool
	dirty   bool
}

func (c *stagedCollection[T]) load(ctx context.Context, kv KVStore) error {
	if c.loaded {
		return nil
	}
	records, raw, err := readCollection[T](ctx, kv, c.key)
	if err != nil {
		return err
	}
	c.records = records
	c.raw = raw
	c.loaded = true
	return nil
}

func (c *stagedCollection[T]) snapshot() []T {
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

func (c *stagedCollection[T]) upsert(rec T) {
	c.records = upsertRecord(c.records, rec)
	c.dirty = true
}

func (c *stagedCollection[T]) encodeInto(entries, expected map[string][]byte) error {
	if !c.loaded {
		return nil
	}
	expected[c.key] = c.raw
	if !c.dirty {
		return nil
	}
	raw, err := encodeCollection(c.key, c.records)
	if err != nil {
		return err
	}
	entries[c.key] = raw
	return nil
}

type ledgerTx struct {
	kv   KVStore
	done bool

	bills     stagedCollection[models.Bill]
	clients   stagedCollection[models.Client]
	purchases stagedCollection[models.Purchase]
	items     stagedCollection[models.Item]
	reports   stagedCollection[models.TechnicianReport]
}

func newLedgerTx(kv KVStore) *ledgerTx {
	return &ledgerTx{
		kv:        kv,
		bills:     stagedCollection[models.Bill]{key: CollectionBills},
		clients:   stagedCollection[models.Client]{key: CollectionClients},
		purchases: stagedCollection[models.Purchase]{key: CollectionPurchases},
		items:     stagedCollection[models.Item]{key: CollectionItems},
		reports:   stagedCollection[models.TechnicianReport]{key: CollectionTechnicianReports},
	}
}

// Commit writes every modified collection in one backend call. It fails with
// ErrConflict, writing nothing, if any collection the transaction read has
// changed since. The transaction is finished afterwards, whatever the outcome.
func (tx *ledgerTx) Commit(ctx context.Context) error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true

	entries := make(map[string][]byte)
	expected := make(map[string][]byte)
	encoders := []func(entries, expected map[string][]byte) error{
		tx.bills.encodeInto,
		tx.clients.encodeInto,
		tx.purchases.encodeInto,
		tx.items.encodeInto,
		tx.reports.encodeInto,
	}
	for _, enc := range encoders {
		if err := enc(entries, expected); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}
	if err := tx.kv.SetMany(ctx, entries, expected); err != nil {
		return fmt.Errorf("committing ledger transaction: %w", err)
	}
	return nil
}

// Rollback discards staged writes. Safe to call after Commit.
func (tx *ledgerTx) Rollback() {
	tx.done = true
}

func (tx *ledgerTx) check() error {
	if tx.done {
		return ErrTxDone
	}
	return nil
}

func (tx *ledgerTx) ListBills(ctx context.Context) ([]models.Bill, error) {
	return listStaged(ctx, tx, &tx.bills)
}

func (tx *ledgerTx) ListClients(ctx context.Context) ([]models.Client, error) {
	return listStaged(ctx, tx, &tx.clients)
}

func (tx *ledgerTx) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return listStaged(ctx, tx, &tx.purchases)
}

func (tx *ledgerTx) ListItems(ctx context.Context) ([]models.Item, error) {
	return listStaged(ctx, tx, &tx.items)
}

func (tx *ledgerTx) ListTechnicianReports(ctx context.Context) ([]models.TechnicianReport, error) {
	return listStaged(ctx, tx, &tx.reports)
}

func (tx *ledgerTx) UpsertBill(ctx context.Context, bill models.Bill) error {
	return upsertStaged(ctx, tx, &tx.bills, bill)
}

func (tx *ledgerTx) UpsertClient(ctx context.Context, client models.Client) error {
	return upsertStaged(ctx, tx, &tx.clients, client)
}

func (tx *ledgerTx) UpsertPurchase(ctx context.Context, purchase models.Purchase) error {
	return upsertStaged(ctx, tx, &tx.purchases, purchase)
}

func (tx *ledgerTx) UpsertItem(ctx context.Context, item models.Item) error {
	return upsertStaged(ctx, tx, &tx.items, item)
}

func (tx *ledgerTx) UpsertTechnicianReport(ctx context.Context, report models.TechnicianReport) error {
	return upsertStaged(ctx, tx, &tx.reports, report)
}

func (tx *ledgerTx) FindBillByID(ctx context.Context, id string) (*models.Bill, error) {
	bills, err := tx.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(bills, func(b models.Bill) bool { return b.ID == id })
}

func (tx *ledgerTx) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	clients, err := tx.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(clients, func(c models.Client) bool { return c.ID == id })
}

func (tx *ledgerTx) FindClientByGSTIN(ctx context.Context, gstin string) (*models.Client, error) {
	clients, err := tx.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(clients, func(c models.Client) bool { return c.GSTIN == gstin })
}

func (tx *ledgerTx) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	items, err := tx.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(items, func(i models.Item) bool { return i.ID == id })
}

func (tx *ledgerTx) FindItemByDescription(ctx context.Context, description string) (*models.Item, error) {
	items, err := tx.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(items, func(i models.Item) bool { return i.Description == description })
}

func (tx *ledgerTx) FindTechnicianReportByID(ctx context.Context, id string) (*models.TechnicianReport, error) {
	reports, err := tx.ListTechnicianReports(ctx)
	if err != nil {
		return nil, err
	}
	return findFirst(reports, func(t models.TechnicianReport) bool { return t.ID == id })
}

func listStaged[T models.Record](ctx context.Context, tx *ledgerTx, c *stagedCollection[T]) ([]T, error) {
	if err := tx.check(); err != nil {
		return nil, err
	}
	if err := c.load(ctx, tx.kv); err != nil {
		return nil, err
	}
	return c.snapshot(), nil
}

func upsertStaged[T models.Record](ctx context.Context, tx *ledgerTx, c *stagedCollection[T], rec T) error {
	if err := tx.check(); err != nil {
		return err
	}
	if rec.RecordID() == "" {
		return fmt.Errorf("%w: %s record without id", ErrInvalidRecord, c.key)
	}
	if err := c.load(ctx, tx.kv); err != nil {
		return err
	}
	c.upsert(rec)
	return nil
}
