// Package importer orchestrates the statement import pipeline: encoding
// fallback, format detection, row parsing, normalization, categorization and
// deduplication against the existing ledger.
//
// Processing is single-pass and synchronous per file. Files in a batch run
// sequentially, each producing an independent (transactions, errors) result;
// a totally unrecognized file contributes zero transactions and one error
// message, never a batch abort.
package importer

import (
	"context"
	"time"

	"golang-ledger-import-service/internal/categorizer"
	"golang-ledger-import-service/internal/deduplicator"
	"golang-ledger-import-service/internal/detector"
	"golang-ledger-import-service/internal/encoding"
	"golang-ledger-import-service/internal/ledger"
	"golang-ledger-import-service/internal/models"
	"golang-ledger-import-service/internal/normalizer"
	"golang-ledger-import-service/internal/parsers"
	importerrors "golang-ledger-import-service/pkg/errors"
	"golang-ledger-import-service/pkg/logger"
)

// SourceFile is one statement file to import: opaque bytes plus a display
// name. Consumed once per import operation.
type SourceFile struct {
	Name string
	Data []byte
}

// FileResult is the per-file pipeline output. Errors are human-readable, one
// entry per malformed row or one entry for an unrecognized-format file.
type FileResult struct {
	Name         string                `json:"name"`
	Source       models.SourceKind     `json:"source"`
	Transactions []*models.Transaction `json:"transactions"`
	Errors       []string              `json:"errors"`
	RowsParsed   int                   `json:"rows_parsed"`
	RowsDropped  int                   `json:"rows_dropped"`
}

// Request describes a batch import.
type Request struct {
	Files      []SourceFile
	Categories []models.Category
	// DryRun runs the full pipeline without appending to the ledger.
	DryRun bool
}

// Result is the batch outcome after categorization and deduplication.
type Result struct {
	Files             []*FileResult         `json:"files"`
	Imported          []*models.Transaction `json:"imported"`
	TotalParsed       int                   `json:"total_parsed"`
	DuplicatesDropped int                   `json:"duplicates_dropped"`
	ExistingLedger    int                   `json:"existing_ledger"`
	DryRun            bool                  `json:"dry_run"`
	Duration          time.Duration         `json:"duration"`
}

// Config holds importer configuration.
type Config struct {
	Parser *parsers.Config
}

// DefaultConfig returns the default importer configuration.
func DefaultConfig() *Config {
	return &Config{Parser: parsers.DefaultConfig()}
}

// Service runs the import pipeline.
type Service struct {
	parser *parsers.RowParser
	logger logger.Logger
}

// NewService creates an import Service.
func NewService(config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		parser: parsers.NewRowParser(config.Parser),
		logger: logger.GetGlobalLogger().WithComponent("importer"),
	}
}

// ImportFile runs one file through decode, detect, parse and normalize.
// Detection is attempted on the UTF-8 decoding first; if it fails, the file
// is re-decoded as Shift-JIS and detection re-runs on that text. Both
// failing yields a result with zero transactions and the unrecognized-format
// message.
func (s *Service) ImportFile(file SourceFile) *FileResult {
	log := s.logger.WithField("file", file.Name)
	result := &FileResult{Name: file.Name, Source: models.SourceUnknown}

	text, _ := encoding.Decode(file.Data, encoding.UTF8)
	detection := detector.Detect(text)

	if detection.Kind == models.SourceUnknown {
		log.Debug("UTF-8 detection failed, retrying as Shift-JIS")
		if sjisText, err := encoding.Decode(file.Data, encoding.ShiftJIS); err == nil {
			if sjisDetection := detector.Detect(sjisText); sjisDetection.Kind != models.SourceUnknown {
				text = sjisText
				detection = sjisDetection
			}
		}
	}

	if detection.Kind == models.SourceUnknown {
		log.Warn("No header signature matched under either encoding")
		result.Errors = append(result.Errors, importerrors.UnrecognizedFormat(file.Name).Message)
		return result
	}

	result.Source = detection.Kind
	log = log.WithFields(logger.Fields{
		"source":      detection.Kind,
		"header_line": detection.HeaderLine,
	})

	rows, rowErrors := s.parser.Parse(text, detection.HeaderLine)
	result.RowsParsed = len(rows)
	for _, rowErr := range rowErrors {
		result.Errors = append(result.Errors, rowErr.Error())
	}

	for _, row := range rows {
		tx := normalizer.Normalize(detection.Kind, row)
		if tx == nil {
			result.RowsDropped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	log.WithFields(logger.Fields{
		"rows":         len(rows),
		"transactions": len(result.Transactions),
		"dropped":      result.RowsDropped,
		"errors":       len(result.Errors),
	}).Info("Imported statement file")

	return result
}

// ImportBatch processes files sequentially. A failure on one file does not
// prevent processing of subsequent files.
func (s *Service) ImportBatch(ctx context.Context, files []SourceFile) []*FileResult {
	results := make([]*FileResult, 0, len(files))
	for _, file := range files {
		if ctx.Err() != nil {
			s.logger.Warn("Batch import cancelled")
			break
		}
		results = append(results, s.ImportFile(file))
	}
	return results
}

// ProcessImport runs the whole pipeline for a batch: per-file import, then
// auto-categorization over the newly introduced transactions, then
// deduplication against a single ledger snapshot, then append. The snapshot
// is read before any candidate is compared and the ledger is only appended
// after the batch's results are fully computed.
func (s *Service) ProcessImport(ctx context.Context, request *Request, store ledger.Store) (*Result, error) {
	start := time.Now()

	result := &Result{
		Files:  s.ImportBatch(ctx, request.Files),
		DryRun: request.DryRun,
	}

	var candidates []*models.Transaction
	for _, fileResult := range result.Files {
		candidates = append(candidates, fileResult.Transactions...)
	}
	result.TotalParsed = len(candidates)

	categorizer.Apply(candidates, request.Categories)

	existing, err := store.Load()
	if err != nil {
		return nil, importerrors.WrapIfNeeded(err, importerrors.CategoryStorage,
			importerrors.CodeLedgerRead, "failed to load ledger snapshot")
	}
	result.ExistingLedger = len(existing)

	result.Imported = deduplicator.Dedupe(existing, candidates)
	result.DuplicatesDropped = len(candidates) - len(result.Imported)

	if !request.DryRun && len(result.Imported) > 0 {
		if err := store.Append(result.Imported); err != nil {
			return nil, importerrors.WrapIfNeeded(err, importerrors.CategoryStorage,
				importerrors.CodeLedgerWrite, "failed to append to ledger")
		}
	}

	result.Duration = time.Since(start)

	s.logger.WithFields(logger.Fields{
		"files":      len(result.Files),
		"parsed":     result.TotalParsed,
		"imported":   len(result.Imported),
		"duplicates": result.DuplicatesDropped,
		"dry_run":    result.DryRun,
		"duration":   result.Duration,
	}).Info("Import batch complete")

	return result, nil
}
