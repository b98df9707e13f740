package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"golang-ledger-import-service/cmd/importer/config"
	"golang-ledger-import-service/internal/importer"
	"golang-ledger-import-service/internal/ledger"
	"golang-ledger-import-service/internal/reporter"
	importerrors "golang-ledger-import-service/pkg/errors"
)

// Flags for the import command
var (
	ledgerPath     string
	categoriesPath string
	outputFormat   string
	outputFile     string
	dryRun         bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <statement.csv> [statement.csv...]",
	Short: "Import statement files into the transaction ledger",
	Long: `Import ingests one or more statement CSV exports, detects each file's
source format, normalizes the rows into canonical transactions, assigns
categories by keyword, and appends the genuinely new transactions to the
ledger.

A file whose format cannot be recognized contributes zero transactions and
one error; it never stops the other files in the batch. Malformed rows are
reported individually and never discard the rest of their file.

Examples:
  # Import a single card statement
  importer import rakuten_202405.csv --ledger ledger.json

  # Batch import with a custom category catalog
  importer import paypay.csv jpbank.csv --ledger ledger.json --categories categories.yaml

  # Preview without writing the ledger
  importer import statement.csv --ledger ledger.json --dry-run

  # Machine-readable report
  importer import statement.csv --ledger ledger.json --output-format json -o report.json`,

	Args:    cobra.MinimumNArgs(1),
	PreRunE: validateImportFlags,
	RunE:    runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&ledgerPath, "ledger", "l", "ledger.json", "path to the ledger JSON file")
	importCmd.Flags().StringVarP(&categoriesPath, "categories", "c", "", "category catalog file (YAML or JSON; built-in catalog when omitted)")
	importCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	importCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without appending to the ledger")

	viper.BindPFlag("ledger", importCmd.Flags().Lookup("ledger"))
	viper.BindPFlag("categories", importCmd.Flags().Lookup("categories"))
	viper.BindPFlag("output-format", importCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", importCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("dry-run", importCmd.Flags().Lookup("dry-run"))
}

func validateImportFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from config file and environment
	ledgerPath = viper.GetString("ledger")
	categoriesPath = viper.GetString("categories")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	dryRun = viper.GetBool("dry-run")

	if ledgerPath == "" {
		return fmt.Errorf("ledger path is required")
	}

	for _, statementFile := range args {
		if err := validateFileExists(statementFile, "statement file"); err != nil {
			return err
		}
	}

	if categoriesPath != "" {
		if err := validateFileExists(categoriesPath, "category catalog file"); err != nil {
			return err
		}
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting import...\n")
		fmt.Fprintf(os.Stderr, "Statement files: %s\n", strings.Join(args, ", "))
		fmt.Fprintf(os.Stderr, "Ledger: %s\n", ledgerPath)
		if dryRun {
			fmt.Fprintf(os.Stderr, "Dry run: ledger will not be modified\n")
		}
	}

	categories, err := config.LoadCategories(categoriesPath)
	if err != nil {
		return err
	}

	files := make([]importer.SourceFile, 0, len(args))
	for _, statementFile := range args {
		data, err := os.ReadFile(statementFile)
		if err != nil {
			if os.IsPermission(err) {
				return importerrors.FileError(importerrors.CodeFilePermission, statementFile, err)
			}
			return importerrors.FileError(importerrors.CodeFileRead, statementFile, err)
		}
		files = append(files, importer.SourceFile{
			Name: filepath.Base(statementFile),
			Data: data,
		})
	}

	service := importer.NewService(config.CreateImporterConfig())
	store := ledger.NewFileStore(ledgerPath)

	request := &importer.Request{
		Files:      files,
		Categories: categories,
		DryRun:     dryRun,
	}

	result, err := service.ProcessImport(ctx, request, store)
	if err != nil {
		return err
	}

	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nImport completed.\n")
		fmt.Fprintf(os.Stderr, "Parsed %d transactions from %d files.\n",
			result.TotalParsed, len(result.Files))
		fmt.Fprintf(os.Stderr, "Imported %d, dropped %d duplicates against %d existing records.\n",
			len(result.Imported), result.DuplicatesDropped, result.ExistingLedger)
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Duration)
	}

	return nil
}
