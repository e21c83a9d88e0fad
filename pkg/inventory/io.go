package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Batch is the on-disk and over-the-wire shape for a set of audit events.
type Batch struct {
	Source string  `json:"source,omitempty"`
	Events []Event `json:"events"`
}

// SaveBatch writes an event batch to disk as JSON.
func SaveBatch(path string, batch *Batch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for batch: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}

	return nil
}

// LoadBatch reads an event batch from disk.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("unmarshaling batch: %w", err)
	}

	return &batch, nil
}
