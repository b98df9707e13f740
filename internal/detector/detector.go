// Package detector identifies which statement provider produced a file.
//
// Bank and wallet exports prepend variable-length metadata preambles (account
// summaries, disclaimers) before the tabular header, and the header's line
// number drifts across exports from the same provider over time. Detection
// therefore scans the first lines of the decoded text for provider-specific
// header signatures instead of assuming a fixed position.
package detector

import (
	"strings"

	"golang-ledger-import-service/internal/models"
)

// maxScanLines bounds the header search window. The deepest observed preamble
// (postal bank) puts the header around line 10; 50 leaves generous slack.
const maxScanLines = 50

// Result reports which source format matched and at which line index the
// tabular header begins. Kind is SourceUnknown when no signature matched, in
// which case HeaderLine is 0.
type Result struct {
	Kind       models.SourceKind
	HeaderLine int
}

// SplitLines splits text into lines, accepting \r\n, \n and \r endings
// uniformly. Shared with the row parser so both see identical line indexes.
func SplitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// Detect scans at most the first 50 lines of text for a header signature.
// Signatures are substring tests, not exclusive, so they are evaluated in a
// fixed precedence order and the first match wins.
func Detect(text string) Result {
	lines := SplitLines(text)
	limit := len(lines)
	if limit > maxScanLines {
		limit = maxScanLines
	}

	for i := 0; i < limit; i++ {
		line := lines[i]

		// Credit card: 利用日 / 利用店名・商品名 / 支払総額
		if strings.Contains(line, "利用日") && strings.Contains(line, "利用店名") && strings.Contains(line, "支払総額") {
			return Result{Kind: models.SourceRakuten, HeaderLine: i}
		}

		// Wallet, current format: 取引日 / 出金金額（円） / 入金金額（円） / 取引先
		if strings.Contains(line, "取引日") && strings.Contains(line, "出金金額") &&
			strings.Contains(line, "入金金額") && strings.Contains(line, "取引先") {
			return Result{Kind: models.SourcePayPay, HeaderLine: i}
		}
		// Wallet, legacy format
		if strings.Contains(line, "日時") && strings.Contains(line, "店名") && strings.Contains(line, "金額") {
			return Result{Kind: models.SourcePayPay, HeaderLine: i}
		}

		// Postal bank: 取引日 / 受入金額（円） / 払出金額（円）
		if strings.Contains(line, "取引日") && strings.Contains(line, "受入金額") && strings.Contains(line, "払出金額") {
			return Result{Kind: models.SourceJPBank, HeaderLine: i}
		}
		// Postal bank, legacy format
		if strings.Contains(line, "お取扱年月日") && (strings.Contains(line, "お引出し") || strings.Contains(line, "入出金")) {
			return Result{Kind: models.SourceJPBank, HeaderLine: i}
		}
	}

	return Result{Kind: models.SourceUnknown, HeaderLine: 0}
}
