package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dandiscope/internal/core/domain"
)

// Store persists pipeline stage output as JSON files so later stages can
// resume without re-running earlier ones.
type Store struct {
	recordsPath string
	rowsPath    string
}

// NewStore creates a checkpoint store writing to the given file paths
func NewStore(recordsPath, rowsPath string) *Store {
	return &Store{
		recordsPath: recordsPath,
		rowsPath:    rowsPath,
	}
}

// SaveRecords writes the harvested records checkpoint
func (s *Store) SaveRecords(records []domain.AssetRecord) error {
	return s.save(s.recordsPath, records, "records")
}

// LoadRecords reads the harvested records checkpoint
func (s *Store) LoadRecords() ([]domain.AssetRecord, error) {
	data, err := os.ReadFile(s.recordsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no records checkpoint at %s", s.recordsPath)
		}
		return nil, fmt.Errorf("failed to read records checkpoint: %w", err)
	}

	var records []domain.AssetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records checkpoint: %w", err)
	}

	return records, nil
}

// RecordsExist checks whether a records checkpoint is present
func (s *Store) RecordsExist() bool {
	return fileExists(s.recordsPath)
}

// SaveViewerRows writes the viewer rows checkpoint
func (s *Store) SaveViewerRows(rows []domain.ViewerRow) error {
	return s.save(s.rowsPath, rows, "viewer rows")
}

// LoadViewerRows reads the viewer rows checkpoint
func (s *Store) LoadViewerRows() ([]domain.ViewerRow, error) {
	data, err := os.ReadFile(s.rowsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no viewer rows checkpoint at %s", s.rowsPath)
		}
		return nil, fmt.Errorf("failed to read viewer rows checkpoint: %w", err)
	}

	var rows []domain.ViewerRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal viewer rows checkpoint: %w", err)
	}

	return rows, nil
}

// ViewerRowsExist checks whether a viewer rows checkpoint is present
func (s *Store) ViewerRowsExist() bool {
	return fileExists(s.rowsPath)
}

func (s *Store) save(path string, v interface{}, what string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s checkpoint: %w", what, err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
