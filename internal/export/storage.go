package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ReportStorage abstracts blob storage for generated workbooks and archived
// event batches.
type ReportStorage interface {
	PutReport(ctx context.Context, chainID, reportID string, data []byte) error
	GetReport(ctx context.Context, chainID, reportID string) ([]byte, error)
	PutBatch(ctx context.Context, chainID, batchID string, data []byte) error
	GetBatch(ctx context.Context, chainID, batchID string) ([]byte, error)
}

// LocalStorage implements ReportStorage using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(chainID, kind, id, ext string) string {
	return filepath.Join(s.BaseDir, chainID, kind, id+ext)
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutReport stores a workbook blob.
func (s *LocalStorage) PutReport(ctx context.Context, chainID, reportID string, data []byte) error {
	return s.put(s.path(chainID, "reports", reportID, ".zip"), data)
}

// GetReport retrieves a workbook blob.
func (s *LocalStorage) GetReport(ctx context.Context, chainID, reportID string) ([]byte, error) {
	return os.ReadFile(s.path(chainID, "reports", reportID, ".zip"))
}

// PutBatch stores a raw event batch.
func (s *LocalStorage) PutBatch(ctx context.Context, chainID, batchID string, data []byte) error {
	return s.put(s.path(chainID, "batches", batchID, ".json"), data)
}

// GetBatch retrieves a raw event batch.
func (s *LocalStorage) GetBatch(ctx context.Context, chainID, batchID string) ([]byte, error) {
	return os.ReadFile(s.path(chainID, "batches", batchID, ".json"))
}
