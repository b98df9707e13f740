package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"

	importerrors "golang-ledger-import-service/pkg/errors"
	"golang-ledger-import-service/pkg/logger"

	"golang-ledger-import-service/internal/models"
)

// FileStore persists the ledger as a single JSON document, the same shape the
// transactions carry in memory. A missing file is an empty ledger, not an
// error.
type FileStore struct {
	path   string
	logger logger.Logger
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.GetGlobalLogger().WithComponent("ledger").WithField("path", path),
	}
}

// Load reads the ledger document. A missing file yields an empty snapshot.
func (s *FileStore) Load() ([]*models.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug("Ledger file does not exist yet, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, importerrors.StorageError(importerrors.CodeLedgerRead, s.path, err)
	}

	var transactions []*models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, importerrors.StorageError(importerrors.CodeLedgerRead, s.path, err)
	}

	s.logger.WithField("transactions", len(transactions)).Debug("Loaded ledger")
	return transactions, nil
}

// Append loads the current document, appends the given transactions and
// rewrites the file atomically via a temp file in the same directory.
func (s *FileStore) Append(transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}

	merged := append(existing, transactions...)
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return importerrors.StorageError(importerrors.CodeLedgerWrite, s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return importerrors.StorageError(importerrors.CodeLedgerWrite, s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return importerrors.StorageError(importerrors.CodeLedgerWrite, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return importerrors.StorageError(importerrors.CodeLedgerWrite, s.path, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return importerrors.StorageError(importerrors.CodeLedgerWrite, s.path, err)
	}

	s.logger.WithFields(logger.Fields{
		"appended": len(transactions),
		"total":    len(merged),
	}).Info("Appended transactions to ledger")

	return nil
}
