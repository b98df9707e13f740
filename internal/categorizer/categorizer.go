// Package categorizer assigns categories to transactions whose category is
// still the unresolved sentinel, by case-insensitive keyword substring match
// against the live category catalog.
//
// The catalog's order is the contract: a transaction gets the id of the FIRST
// category any of whose keywords appears in its description. The matching
// itself runs on an Aho-Corasick automaton so every keyword of every category
// is tested in a single pass over the description, with catalog order
// preserved by picking the earliest matching category.
package categorizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/pkg/logger"
)

// Engine matches descriptions against the keyword catalog.
type Engine struct {
	matcher *ahocorasick.Matcher
	// categoryIndex[i] is the catalog position of the category owning
	// pattern i. A keyword shared by two categories keeps the earliest
	// position, which is the one the ordered scan would have picked.
	categoryIndex []int
	categories    []models.Category
}

// NewEngine builds a matching engine from an ordered category catalog.
// Categories without keywords (including the unresolved sentinel itself)
// contribute no patterns and can never match.
func NewEngine(categories []models.Category) *Engine {
	e := &Engine{categories: categories}

	patternToSlot := make(map[string]int)
	var patterns [][]byte

	for pos, category := range categories {
		for _, keyword := range category.Keywords {
			pattern := strings.ToLower(keyword)
			if pattern == "" {
				continue
			}
			if slot, exists := patternToSlot[pattern]; exists {
				if pos < e.categoryIndex[slot] {
					e.categoryIndex[slot] = pos
				}
				continue
			}
			patternToSlot[pattern] = len(patterns)
			patterns = append(patterns, []byte(pattern))
			e.categoryIndex = append(e.categoryIndex, pos)
		}
	}

	if len(patterns) > 0 {
		e.matcher = ahocorasick.NewMatcher(patterns)
	}

	return e
}

// Match returns the id of the first catalog category any of whose keywords
// is a substring of description, and whether any matched.
func (e *Engine) Match(description string) (string, bool) {
	if e.matcher == nil || description == "" {
		return "", false
	}

	hits := e.matcher.Match([]byte(strings.ToLower(description)))
	if len(hits) == 0 {
		return "", false
	}

	best := -1
	for _, hit := range hits {
		if hit < 0 || hit >= len(e.categoryIndex) {
			continue
		}
		if pos := e.categoryIndex[hit]; best == -1 || pos < best {
			best = pos
		}
	}
	if best == -1 {
		return "", false
	}

	return e.categories[best].ID, true
}

// Apply fills in categories for transactions still carrying the unresolved
// sentinel. Transactions whose category was already resolved by
// source-specific logic are left untouched: auto-categorization only fills
// gaps, never overrides an existing decision. The input slice is mutated in
// place and returned.
func Apply(transactions []*models.Transaction, categories []models.Category) []*models.Transaction {
	log := logger.GetGlobalLogger().WithComponent("categorizer")
	engine := NewEngine(categories)

	assigned := 0
	for _, tx := range transactions {
		if tx.CategoryID != models.CategoryOther {
			continue
		}
		if categoryID, ok := engine.Match(tx.Description); ok {
			tx.CategoryID = categoryID
			assigned++
		}
	}

	log.WithFields(logger.Fields{
		"transactions": len(transactions),
		"assigned":     assigned,
	}).Debug("Applied auto-categorization")

	return transactions
}
