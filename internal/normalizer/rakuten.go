package normalizer

import (
	"strings"

	"golang-ledger-import-service/internal/models"
)

// Rakuten card statement columns
const (
	rakutenDateColumn        = "利用日"
	rakutenDescriptionColumn = "利用店名・商品名"
	rakutenAmountColumn      = "支払総額"
)

// normalizeRakuten handles the credit-card export. Card charges are always
// outflow, so the payment total is negated. A charge that tops up the wallet
// is excluded: the same spend reappears in the wallet statement and would be
// counted twice.
func normalizeRakuten(row models.RawRow) *draft {
	date := row[rakutenDateColumn]
	if date == "" {
		return nil
	}

	d := &draft{
		date:        slashesToDashes(date),
		description: row[rakutenDescriptionColumn],
	}

	if raw := row[rakutenAmountColumn]; raw != "" {
		d.amount = -1 * parseAmount(raw)
	}

	// The wallet brand shows up in katakana, full-width latin, or plain
	// ASCII depending on the processing network.
	if d.description != "" {
		upper := strings.ToUpper(d.description)
		if strings.Contains(d.description, "ペイペイ") ||
			strings.Contains(d.description, "ＰＡＹＰＡＹ") ||
			strings.Contains(upper, "PAYPAY") {
			d.isExcluded = true
		}
	}

	return d
}
