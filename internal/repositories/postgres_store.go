package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a KVStore over the ledger_collections table.
// The schema is created by the migrations in internal/database.
func NewPostgresStore(db *sql.DB) KVStore {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getPayload(ctx, s.db, key)
}

// SetMany writes every entry inside one SQL transaction. Each touched key is
// guarded by a transaction-scoped advisory lock, so concurrent writers from
// any process are checked against expected one at a time.
func (s *postgresStore) SetMany(ctx context.Context, entries map[string][]byte, expected map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	for _, k := range unionKeys(entries, expected) {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, k); err != nil {
			return fmt.Errorf("%w: locking collection %s: %v", ErrStorage, k, err)
		}
	}

	for k, want := range expected {
		current, err := getPayload(ctx, tx, k)
		if err != nil {
			return err
		}
		if !bytes.Equal(current, want) {
			return fmt.Errorf("%w: collection %s", ErrConflict, k)
		}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := putPayload(ctx, tx, k, entries[k]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", ErrStorage, err)
	}
	return nil
}

// unionKeys returns the keys of both maps, sorted so locks are always taken
// in the same order.
func unionKeys(a, b map[string][]byte) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string][]byte{a, b} {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func getPayload(ctx context.Context, executor SQLExecutor, key string) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM ledger_collections WHERE collection_key = $1`
	err := executor.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading collection %s: %v", ErrStorage, key, err)
	}
	return payload, nil
}

func putPayload(ctx context.Context, executor SQLExecutor, key string, payload []byte) error {
	query := `INSERT INTO ledger_collections (collection_key, payload, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (collection_key)
	          DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	if _, err := executor.ExecContext(ctx, query, key, string(payload)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("%w: writing collection %s: %s (code: %s)", ErrStorage, key, pqErr.Message, pqErr.Code.Name())
		}
		return fmt.Errorf("%w: writing collection %s: %v", ErrStorage, key, err)
	}
	return nil
}
