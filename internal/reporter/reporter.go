// Package reporter renders import results for humans and machines.
//
// Supported output formats:
//   - Console: human-readable summary for terminal display
//   - JSON: structured report for programmatic consumption
//   - CSV: the normalized transactions as rows, for spreadsheets
//
// Aggregated totals skip excluded transactions; those are retained for audit
// but never counted as income or expense.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"golang-ledger-import-service/internal/importer"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeErrors        bool `json:"include_errors"`
	IncludeCategoryTotal bool `json:"include_category_totals"`
	IncludeExcluded      bool `json:"include_excluded"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:               FormatConsole,
		IncludeErrors:        true,
		IncludeCategoryTotal: true,
		IncludeExcluded:      true,
		CSVDelimiter:         ',',
		CSVHeaders:           true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// CategoryTotal is the aggregated yen amount imported under one category.
type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
}

// Report is the serializable import summary.
type Report struct {
	Files             int                       `json:"files"`
	TotalParsed       int                       `json:"total_parsed"`
	Imported          int                       `json:"imported"`
	DuplicatesDropped int                       `json:"duplicates_dropped"`
	Excluded          int                       `json:"excluded"`
	DryRun            bool                      `json:"dry_run"`
	BySource          map[string]int            `json:"by_source"`
	ByCategory        []CategoryTotal           `json:"by_category,omitempty"`
	Income            decimal.Decimal           `json:"income"`
	Expense           decimal.Decimal           `json:"expense"`
	Errors            []string                  `json:"errors,omitempty"`
	FileResults       []*importer.FileResult    `json:"file_results,omitempty"`
}

// ReportGenerator generates import reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// BuildReport aggregates an import result into a Report.
func (g *ReportGenerator) BuildReport(result *importer.Result) *Report {
	report := &Report{
		Files:             len(result.Files),
		TotalParsed:       result.TotalParsed,
		Imported:          len(result.Imported),
		DuplicatesDropped: result.DuplicatesDropped,
		DryRun:            result.DryRun,
		BySource:          make(map[string]int),
		Income:            decimal.Zero,
		Expense:           decimal.Zero,
	}

	categoryCounts := make(map[string]int)
	categoryTotals := make(map[string]decimal.Decimal)

	for _, tx := range result.Imported {
		report.BySource[tx.Source.String()]++

		if tx.IsExcluded {
			report.Excluded++
			continue
		}

		amount := decimal.NewFromInt(tx.Amount)
		if tx.Amount > 0 {
			report.Income = report.Income.Add(amount)
		} else {
			report.Expense = report.Expense.Add(amount.Abs())
		}

		categoryCounts[tx.CategoryID]++
		categoryTotals[tx.CategoryID] = categoryTotals[tx.CategoryID].Add(amount)
	}

	if g.config.IncludeCategoryTotal {
		for id, count := range categoryCounts {
			report.ByCategory = append(report.ByCategory, CategoryTotal{
				CategoryID: id,
				Count:      count,
				Total:      categoryTotals[id],
			})
		}
		sort.Slice(report.ByCategory, func(i, j int) bool {
			return report.ByCategory[i].CategoryID < report.ByCategory[j].CategoryID
		})
	}

	if g.config.IncludeErrors {
		for _, fileResult := range result.Files {
			for _, msg := range fileResult.Errors {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", fileResult.Name, msg))
			}
		}
	}

	return report
}

// GenerateReport renders the result to the writer in the configured format.
func (g *ReportGenerator) GenerateReport(result *importer.Result, w io.Writer) error {
	switch g.config.Format {
	case FormatJSON:
		return g.writeJSON(result, w)
	case FormatCSV:
		return g.writeCSV(result, w)
	default:
		return g.writeConsole(result, w)
	}
}

func (g *ReportGenerator) writeJSON(result *importer.Result, w io.Writer) error {
	report := g.BuildReport(result)
	report.FileResults = result.Files

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (g *ReportGenerator) writeConsole(result *importer.Result, w io.Writer) error {
	report := g.BuildReport(result)

	var b strings.Builder
	b.WriteString("Import Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Files processed:    %d\n", report.Files)
	fmt.Fprintf(&b, "Rows normalized:    %d\n", report.TotalParsed)
	fmt.Fprintf(&b, "Imported:           %d\n", report.Imported)
	fmt.Fprintf(&b, "Duplicates dropped: %d\n", report.DuplicatesDropped)
	if g.config.IncludeExcluded {
		fmt.Fprintf(&b, "Excluded transfers: %d\n", report.Excluded)
	}
	if report.DryRun {
		b.WriteString("Dry run: nothing was written to the ledger\n")
	}

	if len(report.BySource) > 0 {
		b.WriteString("\nBy source:\n")
		sources := make([]string, 0, len(report.BySource))
		for source := range report.BySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Fprintf(&b, "  %-10s %d\n", source, report.BySource[source])
		}
	}

	fmt.Fprintf(&b, "\nIncome:  %s 円\n", report.Income.String())
	fmt.Fprintf(&b, "Expense: %s 円\n", report.Expense.String())

	if g.config.IncludeCategoryTotal && len(report.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		for _, total := range report.ByCategory {
			fmt.Fprintf(&b, "  %-14s %4d  %s 円\n", total.CategoryID, total.Count, total.Total.String())
		}
	}

	if g.config.IncludeErrors && len(report.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(report.Errors))
		for _, msg := range report.Errors {
			fmt.Fprintf(&b, "  %s\n", msg)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (g *ReportGenerator) writeCSV(result *importer.Result, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = g.config.CSVDelimiter

	if g.config.CSVHeaders {
		header := []string{"id", "date", "source", "description", "amount", "category_id", "is_excluded", "auto_category_reason"}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, tx := range result.Imported {
		record := []string{
			tx.ID,
			tx.Date,
			tx.Source.String(),
			tx.Description,
			strconv.FormatInt(tx.Amount, 10),
			tx.CategoryID,
			strconv.FormatBool(tx.IsExcluded),
			tx.AutoCategoryReason,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
