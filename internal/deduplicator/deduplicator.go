// Package deduplicator filters newly parsed transactions against the
// existing ledger so a re-uploaded statement never duplicates records.
//
// Identity is the content fingerprint (date, amount, description). This is
// intentionally coarse: two genuinely distinct same-day purchases with
// identical amount and description are indistinguishable and the second is
// silently discarded. That trade-off is accepted; widening the fingerprint
// would change observed dedup behavior.
package deduplicator

import (
	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/pkg/logger"
)

// Index is a fingerprint set built from the existing ledger.
type Index struct {
	seen map[string]struct{}
}

// NewIndex builds a fingerprint index over the existing ledger snapshot.
func NewIndex(existing []*models.Transaction) *Index {
	idx := &Index{seen: make(map[string]struct{}, len(existing))}
	for _, tx := range existing {
		idx.seen[tx.Fingerprint()] = struct{}{}
	}
	return idx
}

// Contains reports whether a transaction's fingerprint is already recorded.
func (idx *Index) Contains(tx *models.Transaction) bool {
	_, ok := idx.seen[tx.Fingerprint()]
	return ok
}

// Filter returns the subset of candidates whose fingerprint is not present
// in the index. Candidates are only compared against the existing ledger,
// not against each other: the snapshot is read once and appended after the
// batch's results are fully computed.
func (idx *Index) Filter(candidates []*models.Transaction) []*models.Transaction {
	fresh := make([]*models.Transaction, 0, len(candidates))
	for _, tx := range candidates {
		if !idx.Contains(tx) {
			fresh = append(fresh, tx)
		}
	}
	return fresh
}

// Dedupe filters candidates against the existing ledger and returns the
// subset that is genuinely new.
func Dedupe(existing, candidates []*models.Transaction) []*models.Transaction {
	fresh := NewIndex(existing).Filter(candidates)

	logger.GetGlobalLogger().WithComponent("deduplicator").WithFields(logger.Fields{
		"existing":   len(existing),
		"candidates": len(candidates),
		"fresh":      len(fresh),
	}).Debug("Deduplicated candidates against ledger")

	return fresh
}
