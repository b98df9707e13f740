// Package normalizer maps source-specific raw rows into canonical
// transactions. Each source branch is a pure function from raw row to a
// draft transaction plus exclusion/category decisions; there is no shared
// mutable state between branches.
//
// A row that lacks required fields, carries no financial information, or
// blows up during extraction is dropped, never propagated: the failure
// boundary is the row, and a malformed row must not take the statement down
// with it.
package normalizer

import (
	"strings"

	"github.com/google/uuid"

	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/pkg/logger"
)

// draft carries the per-source extraction result before the common drop rule
// and identity assignment are applied.
type draft struct {
	date        string
	description string
	amount      int64
	isExcluded  bool
	categoryID  string
	reason      string
}

// Normalize converts a raw row of the given source kind into a canonical
// Transaction. It returns nil when the row is dropped: required fields
// absent, zero amount without an exclusion flag, or an internal panic during
// extraction (recovered, logged, and treated as a skip for that row only).
func Normalize(kind models.SourceKind, row models.RawRow) (tx *models.Transaction) {
	log := logger.GetGlobalLogger().WithComponent("normalizer")

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logger.Fields{
				"source": kind,
				"panic":  r,
			}).Error("Row normalization panicked, dropping row")
			tx = nil
		}
	}()

	var d *draft
	switch kind {
	case models.SourceRakuten:
		d = normalizeRakuten(row)
	case models.SourcePayPay:
		d = normalizePayPay(row)
	case models.SourceJPBank:
		d = normalizeJPBank(row)
	default:
		log.WithField("source", kind).Warn("Unsupported source kind")
		return nil
	}

	if d == nil {
		return nil
	}

	// Zero-amount rows carry no information unless they document a
	// suppressed transfer.
	if d.date == "" || (d.amount == 0 && !d.isExcluded) {
		return nil
	}

	if d.description == "" {
		d.description = models.UnknownDescription
	}
	if d.categoryID == "" {
		d.categoryID = models.CategoryOther
	}

	return &models.Transaction{
		ID:                 uuid.NewString(),
		Date:               d.date,
		Source:             kind,
		Description:        d.description,
		Amount:             d.amount,
		CategoryID:         d.categoryID,
		IsExcluded:         d.isExcluded,
		AutoCategoryReason: d.reason,
		OriginalRow:        row,
	}
}

// field returns the first non-empty value among the named columns.
func field(row models.RawRow, names ...string) string {
	for _, name := range names {
		if v := row[name]; v != "" {
			return v
		}
	}
	return ""
}

// parseAmount reads a statement amount string as an integer number of yen.
// Thousands separators are stripped and parsing stops at the first
// non-digit, so decorated values like "3,000円" still yield 3000. An empty
// or digit-free value is zero, matching the providers' habit of leaving the
// unused in/out column blank.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))

	var n int64
	neg := false
	start := 0
	if start < len(s) && (s[start] == '-' || s[start] == '+') {
		neg = s[start] == '-'
		start++
	}

	digits := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// slashesToDashes rewrites 2024/05/03 style dates into ISO form.
func slashesToDashes(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}

// normalizeDate turns the postal bank's date variants into YYYY-MM-DD: an
// 8-digit numeric string is reinterpreted positionally, anything else has
// slashes and dots replaced with hyphens.
func normalizeDate(date string) string {
	if date == "" {
		return ""
	}
	if len(date) == 8 && allDigits(date) {
		return date[0:4] + "-" + date[4:6] + "-" + date[6:8]
	}
	return strings.ReplaceAll(slashesToDashes(date), ".", "-")
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
