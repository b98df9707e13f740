package normalizer

import (
	"strings"

	"golang-ledger-import-service/internal/models"
)

// Postal bank statement columns
const (
	jpBankDetail1Column = "詳細１"
	jpBankDetail2Column = "詳細２"
	jpBankContentColumn = "お取扱内容"
	jpBankDefaultPayee  = "ゆうちょ銀行"
	jpBankSelfPayMarker = "自払"
	jpBankReviewReason  = "自動判定: 要確認"
)

// classifyContext holds the strings the postal bank rules inspect: the two
// raw detail fields and the upper-cased full description.
type classifyContext struct {
	detail1 string
	detail2 string
	full    string
}

// Blacklist: bank-level card-network settlement lines duplicate spend already
// captured in the card and wallet statements. Either predicate excludes.
var jpBankBlacklist = []func(c classifyContext) bool{
	func(c classifyContext) bool {
		return containsAny(c.detail2, "ﾗｸﾃﾝｶｰﾄﾞｻｰﾋ", "(PAYPAY)", "（ＰＡＹＰＡＹ）")
	},
	func(c classifyContext) bool {
		return containsAny(c.detail1, "カード", "ＲＴ")
	},
}

// rescueRule rescues a blacklisted line back into the ledger with a category
// and an audit note. Some card-like bank lines are legitimate recurring
// expenses (paying off a different card, utility auto-debits) and must not be
// silently excluded just because they superficially match the blacklist.
type rescueRule struct {
	matches    func(c classifyContext) bool
	categoryID string
	reason     string
}

// Evaluated after the blacklist, in order; the first matching rescue wins.
var jpBankRescues = []rescueRule{
	{
		matches: func(c classifyContext) bool {
			return containsAny(c.full, "三井住友", "ミツイスミトモ", "ＳＭＣＣ", "ＳＭＢＣ")
		},
		categoryID: "credit_card",
		reason:     "自動判定: カード/固定費",
	},
	{
		matches: func(c classifyContext) bool {
			return containsAny(c.full, "ｷｮｳｴｲｶﾞｽ", "ガス", "電気", "電力", "水道")
		},
		categoryID: "utilities",
		reason:     "自動判定: 光熱費",
	},
	{
		matches: func(c classifyContext) bool {
			return strings.Contains(c.detail2, "DF.ｴﾆﾀｲﾑ") ||
				containsAny(c.full, "エニタイム", "ANYTIME", "ＡＦ")
		},
		categoryID: "subscription",
		reason:     "自動判定: サブスク/ジム",
	},
}

// normalizeJPBank handles the postal bank export. Classification runs as a
// three-stage rule chain: blacklist, then whitelist rescue (which overrides
// the blacklist), then a soft self-payment audit flag.
func normalizeJPBank(row models.RawRow) *draft {
	date := field(row, "取引日", "年月日", "お取扱年月日")
	if date == "" {
		return nil
	}

	detail1 := row[jpBankDetail1Column]
	detail2 := row[jpBankDetail2Column]

	description := strings.TrimSpace(detail1 + " " + detail2)
	if description == "" {
		description = field(row, jpBankContentColumn)
		if description == "" {
			description = jpBankDefaultPayee
		}
	}

	d := &draft{
		date:        normalizeDate(date),
		description: description,
	}

	outAmount := parseAmount(field(row, "払出金額（円）", "お引出し金額"))
	inAmount := parseAmount(field(row, "受入金額（円）", "お預り金額"))

	if outAmount > 0 {
		d.amount = -1 * outAmount
	} else if inAmount > 0 {
		d.amount = inAmount
	}

	ctx := classifyContext{
		detail1: detail1,
		detail2: detail2,
		full:    strings.ToUpper(description),
	}

	for _, blacklisted := range jpBankBlacklist {
		if blacklisted(ctx) {
			d.isExcluded = true
		}
	}

	for _, rescue := range jpBankRescues {
		if rescue.matches(ctx) {
			d.isExcluded = false
			d.categoryID = rescue.categoryID
			d.reason = rescue.reason
			break
		}
	}

	// Soft signal only: an unexplained self-payment line is flagged for
	// manual review without changing category or exclusion.
	if !d.isExcluded && d.categoryID == "" && strings.Contains(ctx.full, jpBankSelfPayMarker) {
		d.reason = jpBankReviewReason
	}

	return d
}
