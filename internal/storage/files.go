package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps submitted CSV files under a local directory, one
// uuid-named file per submission.
type FileStore struct {
	dir string
}

// NewFileStore creates the storage directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// StoreCSV writes CSV content to a fresh file and returns its path.
func (s *FileStore) StoreCSV(content string) (string, error) {
	name := fmt.Sprintf("strategy_%s.csv", strings.ReplaceAll(uuid.NewString(), "-", ""))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("store csv: %w", err)
	}
	return path, nil
}

// ReadCSV reads back a stored CSV file. The path must be inside the store.
func (s *FileStore) ReadCSV(path string) (string, error) {
	if err := s.checkPath(path); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Delete removes a stored file. The path must be inside the store.
func (s *FileStore) Delete(path string) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	return os.Remove(path)
}

func (s *FileStore) checkPath(path string) error {
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the file store", path)
	}
	return nil
}
