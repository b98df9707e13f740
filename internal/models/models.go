// Package models defines the canonical data types shared by the import
// pipeline: the normalized Transaction, the read-only Category catalog, and
// the raw row shape produced by the statement parser.
package models

import (
	"fmt"
	"regexp"
	"strings"
)

// SourceKind identifies which statement provider a transaction came from.
type SourceKind string

const (
	// SourceRakuten is the credit-card issuer CSV export
	SourceRakuten SourceKind = "RAKUTEN"
	// SourcePayPay is the mobile wallet CSV export
	SourcePayPay SourceKind = "PAYPAY"
	// SourceJPBank is the postal bank CSV export
	SourceJPBank SourceKind = "JP_BANK"
	// SourceManual marks transactions entered by hand, never by this pipeline
	SourceManual SourceKind = "MANUAL"
	// SourceUnknown is the terminal result of a failed format detection
	SourceUnknown SourceKind = "UNKNOWN"
)

// String returns the string representation of SourceKind
func (s SourceKind) String() string {
	return string(s)
}

// IsValid checks if the source kind is one a persisted transaction may carry
func (s SourceKind) IsValid() bool {
	switch s {
	case SourceRakuten, SourcePayPay, SourceJPBank, SourceManual:
		return true
	default:
		return false
	}
}

// CategoryOther is the unresolved category sentinel. Transactions carrying it
// are eligible for keyword auto-categorization at import time.
const CategoryOther = "other"

// UnknownDescription is the placeholder used when a source row carries no
// usable counterparty label.
const UnknownDescription = "不明な取引"

// RawRow is a single data line of a statement file, keyed by column name.
// It is ephemeral: produced by the row parser and consumed immediately by the
// normalizer, but a copy travels on the Transaction for traceability.
type RawRow map[string]string

// Transaction is the canonical, persisted transaction representation.
// Amount is in the currency's smallest denomination: negative for money
// leaving the user, positive for money arriving.
type Transaction struct {
	ID                 string     `json:"id"`
	Date               string     `json:"date"`
	Source             SourceKind `json:"source"`
	Description        string     `json:"description"`
	Amount             int64      `json:"amount"`
	CategoryID         string     `json:"categoryId"`
	IsExcluded         bool       `json:"isExcluded,omitempty"`
	AutoCategoryReason string     `json:"autoCategoryReason,omitempty"`
	OriginalRow        RawRow     `json:"originalRow,omitempty"`
}

// Fingerprint returns the content identity used for deduplication against the
// existing ledger. Two same-day transactions with identical amount and
// description are indistinguishable by design; see the deduplicator package.
func (t *Transaction) Fingerprint() string {
	return fmt.Sprintf("%s|%d|%s", t.Date, t.Amount, t.Description)
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if !isoDatePattern.MatchString(t.Date) {
		return fmt.Errorf("transaction date must be YYYY-MM-DD, got %q", t.Date)
	}

	if !t.Source.IsValid() {
		return fmt.Errorf("invalid transaction source: %s", t.Source)
	}

	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction description cannot be empty")
	}

	if t.Amount == 0 && !t.IsExcluded {
		return fmt.Errorf("transaction amount cannot be zero")
	}

	if strings.TrimSpace(t.CategoryID) == "" {
		return fmt.Errorf("transaction category cannot be empty")
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Date: %s, Source: %s, Amount: %d, Category: %s, Excluded: %t}",
		t.ID, t.Date, t.Source, t.Amount, t.CategoryID, t.IsExcluded)
}

// IsResolved reports whether a category has been assigned beyond the
// unresolved sentinel.
func (t *Transaction) IsResolved() bool {
	return t.CategoryID != "" && t.CategoryID != CategoryOther
}

// CategoryType separates spending categories from income categories.
type CategoryType string

const (
	CategoryExpense CategoryType = "EXPENSE"
	CategoryIncome  CategoryType = "INCOME"
)

// Category is a read-only input to the pipeline. The keyword list drives
// auto-categorization; keyword order within a category does not matter, but
// catalog order does (first matching category wins).
type Category struct {
	ID       string       `json:"id" mapstructure:"id"`
	Name     string       `json:"name" mapstructure:"name"`
	Color    string       `json:"color" mapstructure:"color"`
	Keywords []string     `json:"keywords" mapstructure:"keywords"`
	Type     CategoryType `json:"type" mapstructure:"type"`
}

// Validate performs basic validation on the Category
func (c *Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("category ID cannot be empty")
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}

	if c.Type != CategoryExpense && c.Type != CategoryIncome {
		return fmt.Errorf("invalid category type: %s", c.Type)
	}

	return nil
}

// DefaultCatalog returns the built-in category catalog used when no catalog
// file is supplied. Order matters: the auto-categorizer assigns the first
// category whose keywords match.
func DefaultCatalog() []Category {
	return []Category{
		{ID: "food", Name: "食費", Color: "#ef4444", Keywords: []string{"スーパー", "コンビニ", "食事"}, Type: CategoryExpense},
		{ID: "daily", Name: "消耗品", Color: "#f97316", Keywords: []string{"ドラッグ", "薬局", "ホームセンター"}, Type: CategoryExpense},
		{ID: "social", Name: "交際費", Color: "#eab308", Keywords: []string{"飲み会", "プレゼント", "居酒屋"}, Type: CategoryExpense},
		{ID: "utilities", Name: "水道光熱費", Color: "#3b82f6", Keywords: []string{"電気", "ガス", "水道", "電力"}, Type: CategoryExpense},
		{ID: "transport", Name: "交通費", Color: "#06b6d4", Keywords: []string{"鉄道", "バス", "タクシー", "ETC", "Suica", "PASMO"}, Type: CategoryExpense},
		{ID: "subscription", Name: "サブスク", Color: "#8b5cf6", Keywords: []string{"Netflix", "Spotify", "Amazon Prime", "Apple"}, Type: CategoryExpense},
		{ID: "credit_card", Name: "カード引落", Color: "#6366f1", Keywords: []string{"三井住友", "SMCC", "カード"}, Type: CategoryExpense},
		{ID: "income", Name: "給与・収入", Color: "#22c55e", Keywords: []string{"給料", "振込", "賞与"}, Type: CategoryIncome},
		{ID: CategoryOther, Name: "その他", Color: "#94a3b8", Keywords: []string{}, Type: CategoryExpense},
	}
}
