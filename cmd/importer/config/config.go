// Package config builds component configurations for the importer CLI and
// loads the category catalog the pipeline categorizes against.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"golang-ledger-import-service/internal/importer"
	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/internal/parsers"
	"golang-ledger-import-service/internal/reporter"
	importerrors "golang-ledger-import-service/pkg/errors"
)

// CreateImporterConfig creates the default importer configuration
func CreateImporterConfig() *importer.Config {
	return &importer.Config{
		Parser: parsers.DefaultConfig(),
	}
}

// LoadCategories returns the category catalog. With an empty path the
// built-in default catalog is used; otherwise the file (YAML or JSON with a
// top-level "categories" list) is read. The catalog is a read-only snapshot:
// the pipeline never creates, renames or deletes categories.
func LoadCategories(path string) ([]models.Category, error) {
	if path == "" {
		return models.DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, importerrors.ConfigError(importerrors.CodeInvalidConfig, "categories", err).
			WithContext("path", path)
	}

	var categories []models.Category
	if err := v.UnmarshalKey("categories", &categories); err != nil {
		return nil, importerrors.ConfigError(importerrors.CodeInvalidConfig, "categories", err).
			WithContext("path", path)
	}

	if len(categories) == 0 {
		return nil, importerrors.ConfigError(importerrors.CodeMissingConfig, "categories", nil).
			WithContext("path", path).
			WithSuggestion("the catalog file must contain a non-empty 'categories' list")
	}

	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return nil, importerrors.ConfigError(importerrors.CodeInvalidConfig, "categories", err).
				WithContext("path", path).
				WithContext("index", i)
		}
	}

	return categories, nil
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	default:
		config.Format = reporter.OutputFormat(format)
	}

	return config
}

// ValidateConfig validates that all supplied configurations are consistent
func ValidateConfig(importerConfig *importer.Config, reportConfig *reporter.ReportConfig, categories []models.Category) error {
	if importerConfig == nil || importerConfig.Parser == nil {
		return fmt.Errorf("importer configuration is required")
	}

	if err := reportConfig.Validate(); err != nil {
		return fmt.Errorf("invalid report config: %w", err)
	}

	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return fmt.Errorf("invalid category at index %d: %w", i, err)
		}
	}

	return nil
}
