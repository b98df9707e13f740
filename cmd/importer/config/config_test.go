package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/internal/reporter"
	importerrors "golang-ledger-import-service/pkg/errors"
)

func TestLoadCategories_Default(t *testing.T) {
	categories, err := LoadCategories("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("expected the built-in catalog")
	}
	if categories[0].ID != "food" {
		t.Errorf("first category = %s, want food", categories[0].ID)
	}
}

func TestLoadCategories_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - id: food
    name: 食費
    type: EXPENSE
    keywords:
      - コンビニ
      - スーパー
  - id: income
    name: 収入
    type: INCOME
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	categories, err := LoadCategories(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(categories))
	}
	if categories[0].ID != "food" || len(categories[0].Keywords) != 2 {
		t.Errorf("unexpected first category: %+v", categories[0])
	}
	if categories[1].Type != models.CategoryIncome {
		t.Errorf("type = %s, want INCOME", categories[1].Type)
	}
}

func TestLoadCategories_MissingFile(t *testing.T) {
	_, err := LoadCategories(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}

	importErr, ok := importerrors.AsImportError(err)
	if !ok {
		t.Fatalf("expected ImportError, got %T", err)
	}
	if importErr.Category != importerrors.CategoryConfig {
		t.Errorf("category = %s, want %s", importErr.Category, importerrors.CategoryConfig)
	}
}

func TestLoadCategories_EmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("categories: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCategories(path); err == nil {
		t.Error("expected error for empty category list")
	}
}

func TestLoadCategories_InvalidCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - id: ""
    name: 食費
    type: EXPENSE
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCategories(path); err == nil {
		t.Error("expected validation error for category without id")
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format string
		want   reporter.OutputFormat
	}{
		{"console", reporter.FormatConsole},
		{"json", reporter.FormatJSON},
		{"csv", reporter.FormatCSV},
	}

	for _, tt := range tests {
		config := CreateReportConfig(tt.format)
		if config.Format != tt.want {
			t.Errorf("CreateReportConfig(%q).Format = %s, want %s", tt.format, config.Format, tt.want)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("CreateReportConfig(%q) invalid: %v", tt.format, err)
		}
	}

	if err := CreateReportConfig("xml").Validate(); err == nil {
		t.Error("unsupported format must fail validation")
	}
}

func TestValidateConfig(t *testing.T) {
	importerConfig := CreateImporterConfig()
	reportConfig := CreateReportConfig("console")
	categories := models.DefaultCatalog()

	if err := ValidateConfig(importerConfig, reportConfig, categories); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateConfig(nil, reportConfig, categories); err == nil {
		t.Error("nil importer config must fail")
	}

	bad := append([]models.Category{}, categories...)
	bad[0].ID = ""
	if err := ValidateConfig(importerConfig, reportConfig, bad); err == nil {
		t.Error("invalid category must fail")
	}
}
