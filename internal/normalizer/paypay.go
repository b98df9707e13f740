package normalizer

import (
	"strings"

	"golang-ledger-import-service/internal/models"
)

// PayPay wallet statement columns, current and legacy
const (
	payPayKindColumn = "種別"

	payPayUnknownRecipient = "使途不明"
)

// Kind values that mark internal transfers: top-ups, withdrawals, and the
// card settlement that funds the wallet. These are not real spend and must
// not appear twice across the card and wallet statements. Point usage is
// deliberately NOT excluded; it behaves like a discount on a real purchase.
var payPayExcludedKinds = []string{"チャージ", "出金", "PayPayカード決済"}

// normalizePayPay handles the mobile wallet export. The row carries separate
// outflow and inflow columns; whichever is positive wins, outflow negated.
func normalizePayPay(row models.RawRow) *draft {
	date := field(row, "取引日", "日時")
	if date == "" {
		return nil
	}

	d := &draft{
		// Discard the time-of-day component.
		date:        slashesToDashes(strings.SplitN(date, " ", 2)[0]),
		description: field(row, "取引先", "店名・宛先", "店名"),
	}
	if d.description == "" {
		d.description = payPayUnknownRecipient
	}

	outAmount := parseAmount(field(row, "出金金額（円）", "出金金額"))
	inAmount := parseAmount(field(row, "入金金額（円）", "入金金額"))

	if outAmount > 0 {
		d.amount = -1 * outAmount
	} else if inAmount > 0 {
		d.amount = inAmount
	}

	kind := row[payPayKindColumn]
	for _, excluded := range payPayExcludedKinds {
		if kind == excluded {
			d.isExcluded = true
			break
		}
	}

	// Bank top-ups often carry the transfer marker in the description
	// rather than the kind column.
	if containsAny(d.description, "チャージ", "PayPayカード") {
		d.isExcluded = true
	}

	return d
}
