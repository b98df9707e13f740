// Package ledger provides the transaction store the pipeline reads existing
// records from and appends new records to. Persistence itself is an external
// collaborator: the pipeline only depends on the Store interface.
package ledger

import (
	"sync"

	"golang-ledger-import-service/internal/models"
)

// Store is the ledger collaborator contract. Load returns a snapshot of the
// recorded transactions; Append adds fully-computed import results. Callers
// must not interleave the two within a batch: read first, append after the
// batch's results are final.
type Store interface {
	Load() ([]*models.Transaction, error)
	Append(transactions []*models.Transaction) error
}

// MemoryStore is an in-memory Store, used by tests and dry runs.
type MemoryStore struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

// NewMemoryStore creates a MemoryStore seeded with the given transactions.
func NewMemoryStore(seed ...*models.Transaction) *MemoryStore {
	return &MemoryStore{transactions: append([]*models.Transaction{}, seed...)}
}

// Load returns a copy of the recorded transactions.
func (s *MemoryStore) Load() ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Transaction{}, s.transactions...), nil
}

// Append records the given transactions.
func (s *MemoryStore) Append(transactions []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, transactions...)
	return nil
}

// Len returns the number of recorded transactions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}
