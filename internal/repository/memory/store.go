// Package memory provides an in-memory implementation of the menu item
// repository. It backs the test suite and lets the server run without a
// database (DATABASE_URL unset).
//
// Concurrency model: the transaction manager holds the store's write lock
// for the whole transaction and keeps a snapshot for rollback, so
// mutations are serialized and atomic. Reads outside a transaction take
// the read lock and copy rows out, so they observe a consistent snapshot.
package memory

import (
	"context"
	"sync"

	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/domain/repositories"
)

// Store holds the shared state behind the memory repository and its
// transaction manager.
type Store struct {
	mu    sync.RWMutex
	items map[string]models.MenuItem
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items: make(map[string]models.MenuItem),
	}
}

// txContextKey marks a context as running inside ExecTx, where the write
// lock is already held.
type txContextKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(bool)
	return ok
}

// TransactionManager implements repositories.TransactionManager for the
// memory store.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager over the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn while holding the store's write lock. On error the
// pre-transaction snapshot is restored, so fn's writes are all-or-nothing.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snapshot := make(map[string]models.MenuItem, len(tm.store.items))
	for id, item := range tm.store.items {
		snapshot[id] = item
	}

	txCtx := context.WithValue(ctx, txContextKey{}, true)

	if err := fn(txCtx); err != nil {
		tm.store.items = snapshot
		return err
	}

	return nil
}
