package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang-ledger-import-service/internal/importer"
	"golang-ledger-import-service/internal/models"
)

func sampleResult() *importer.Result {
	transactions := []*models.Transaction{
		{ID: "1", Date: "2024-05-03", Source: models.SourceRakuten, Description: "コンビニA", Amount: -3000, CategoryID: "food"},
		{ID: "2", Date: "2024-05-04", Source: models.SourcePayPay, Description: "スーパーB", Amount: -500, CategoryID: "food"},
		{ID: "3", Date: "2024-05-25", Source: models.SourceJPBank, Description: "給与 株式会社", Amount: 250000, CategoryID: "income"},
		{ID: "4", Date: "2024-05-27", Source: models.SourceJPBank, Description: "振替 決済 (PAYPAY)", Amount: -12000, CategoryID: "other", IsExcluded: true},
	}

	return &importer.Result{
		Files: []*importer.FileResult{
			{Name: "rakuten.csv", Source: models.SourceRakuten, Errors: []string{"行 5: 不正な形式"}},
			{Name: "jpbank.csv", Source: models.SourceJPBank},
		},
		Imported:          transactions,
		TotalParsed:       5,
		DuplicatesDropped: 1,
	}
}

func TestBuildReport(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatal(err)
	}

	report := generator.BuildReport(sampleResult())

	if report.Files != 2 {
		t.Errorf("files = %d, want 2", report.Files)
	}
	if report.Imported != 4 {
		t.Errorf("imported = %d, want 4", report.Imported)
	}
	if report.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", report.Excluded)
	}

	// The excluded transfer must not count toward totals.
	if report.Expense.String() != "3500" {
		t.Errorf("expense = %s, want 3500", report.Expense.String())
	}
	if report.Income.String() != "250000" {
		t.Errorf("income = %s, want 250000", report.Income.String())
	}

	if report.BySource["JP_BANK"] != 2 {
		t.Errorf("by source JP_BANK = %d, want 2", report.BySource["JP_BANK"])
	}

	var food *CategoryTotal
	for i := range report.ByCategory {
		if report.ByCategory[i].CategoryID == "food" {
			food = &report.ByCategory[i]
		}
	}
	if food == nil {
		t.Fatal("missing food category total")
	}
	if food.Count != 2 || food.Total.String() != "-3500" {
		t.Errorf("food total = %d/%s, want 2/-3500", food.Count, food.Total.String())
	}

	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "rakuten.csv") {
		t.Errorf("errors = %v", report.Errors)
	}
}

func TestGenerateReport_Console(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Import Summary",
		"Imported:           4",
		"Duplicates dropped: 1",
		"Excluded transfers: 1",
		"Income:  250000 円",
		"Expense: 3500 円",
		"行 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q\n%s", want, out)
		}
	}
}

func TestGenerateReport_ConsoleDryRun(t *testing.T) {
	generator, _ := NewReportGenerator(nil)

	result := sampleResult()
	result.DryRun = true

	var buf bytes.Buffer
	if err := generator.GenerateReport(result, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Dry run") {
		t.Error("dry-run notice missing from console output")
	}
}

func TestGenerateReport_JSON(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{
		Format:               FormatJSON,
		IncludeErrors:        true,
		IncludeCategoryTotal: true,
		IncludeExcluded:      true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Imported != 4 {
		t.Errorf("imported = %d, want 4", report.Imported)
	}
	if len(report.FileResults) != 2 {
		t.Errorf("file results = %d, want 2", len(report.FileResults))
	}
}

func TestGenerateReport_CSV(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{
		Format:       FormatCSV,
		CSVDelimiter: ',',
		CSVHeaders:   true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(sampleResult(), &buf); err != nil {
		t.Fatalf("generate: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,date,source") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "-3000") {
		t.Errorf("first row missing amount: %q", lines[1])
	}
}

func TestNewReportGenerator_InvalidFormat(t *testing.T) {
	if _, err := NewReportGenerator(&ReportConfig{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestOutputFormatIsValid(t *testing.T) {
	for _, format := range []OutputFormat{FormatConsole, FormatJSON, FormatCSV} {
		if !format.IsValid() {
			t.Errorf("%s should be valid", format)
		}
	}
	if OutputFormat("yaml").IsValid() {
		t.Error("yaml should be invalid")
	}
}
