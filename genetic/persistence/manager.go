package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// FileManager handles save/load of run records as YAML snapshots
type FileManager struct {
	basePath string
}

// NewFileManager creates a manager with the given base directory
func NewFileManager(basePath string) *FileManager {
	return &FileManager{basePath: basePath}
}

// FilePath returns the path for a run file
func (m *FileManager) FilePath(id string) string {
	return filepath.Join(m.basePath, id+".yaml")
}

// Exists checks if a run file exists
func (m *FileManager) Exists(id string) bool {
	_, err := os.Stat(m.FilePath(id))
	return err == nil
}

// Save writes a run to disk
func (m *FileManager) Save(run RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("save run: empty id")
	}
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	return os.WriteFile(m.FilePath(run.ID), data, 0644)
}

// Load reads a run from disk
func (m *FileManager) Load(id string) (RunRecord, error) {
	var run RunRecord

	data, err := os.ReadFile(m.FilePath(id))
	if err != nil {
		return run, err
	}

	if err := yaml.Unmarshal(data, &run); err != nil {
		return run, fmt.Errorf("decode run %s: %w", id, err)
	}

	return run, nil
}

// Record implements Recorder
func (m *FileManager) Record(_ context.Context, run RunRecord) error {
	return m.Save(run)
}
