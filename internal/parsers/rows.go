// Package parsers turns detected statement text into raw rows.
//
// The parser slices the decoded text at the header line reported by the
// detector and reads the remainder as a comma-separated table, quoted-field
// aware, with the first remaining line as field names. One malformed line
// must never discard the rest of a multi-hundred-row statement: each bad line
// yields one RowError and parsing continues.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang-ledger-import-service/internal/detector"
	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/pkg/logger"
)

// RowError describes a single malformed data line. Line is 1-based and
// relative to the sliced text, so the header row is line 1.
type RowError struct {
	Line    int
	Message string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("行 %d: %s", e.Line, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Config holds configuration for row parsing
type Config struct {
	Delimiter        rune
	TrimLeadingSpace bool
	SkipEmptyRows    bool
}

// DefaultConfig returns a configuration matching the provider exports:
// comma-separated, leading whitespace trimmed, blank lines skipped.
func DefaultConfig() *Config {
	return &Config{
		Delimiter:        ',',
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
	}
}

// RowParser parses header-sliced statement text into raw rows
type RowParser struct {
	config *Config
	logger logger.Logger
}

// NewRowParser creates a RowParser with the given configuration
func NewRowParser(config *Config) *RowParser {
	if config == nil {
		config = DefaultConfig()
	}

	return &RowParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("row_parser"),
	}
}

// Parse drops all lines before headerLine, reads the first remaining line as
// field names and maps every subsequent line into a RawRow keyed by those
// names. Rows with fewer fields than the header map only what is present;
// surplus fields are dropped. Malformed lines are collected as RowErrors and
// never abort the remaining rows.
func (p *RowParser) Parse(text string, headerLine int) ([]models.RawRow, []*RowError) {
	lines := detector.SplitLines(text)
	if headerLine < 0 || headerLine >= len(lines) {
		return nil, []*RowError{{Line: headerLine + 1, Message: "ヘッダー行がありません"}}
	}
	clean := strings.Join(lines[headerLine:], "\n")

	reader := csv.NewReader(strings.NewReader(clean))
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = p.config.TrimLeadingSpace
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, []*RowError{{Line: 1, Message: "ヘッダー行がありません", Err: err}}
		}
		return nil, []*RowError{{Line: 1, Message: "ヘッダー行を読み込めませんでした", Err: err}}
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []models.RawRow
	var rowErrors []*RowError

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErr := &RowError{Message: err.Error(), Err: err}
			if parseErr, ok := err.(*csv.ParseError); ok {
				rowErr.Line = parseErr.Line
				rowErr.Message = parseErr.Err.Error()
			}

			p.logger.WithError(err).WithField("line", rowErr.Line).Warn("Skipping malformed row")
			rowErrors = append(rowErrors, rowErr)
			continue
		}

		if p.config.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		row := make(models.RawRow, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	p.logger.WithFields(logger.Fields{
		"rows":   len(rows),
		"errors": len(rowErrors),
	}).Debug("Parsed statement rows")

	return rows, rowErrors
}

// isEmptyRecord checks if all fields in a record are empty or whitespace
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
