package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Local stores sync output on the local filesystem. Paths are used as
// given, so relative folders resolve against the working directory.
type Local struct{}

// NewLocal creates a filesystem-backed storage
func NewLocal() *Local {
	return &Local{}
}

// FolderExists reports whether path exists and is a directory
func (l *Local) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CreateFolder creates the folder and any missing parents
func (l *Local) CreateFolder(path string) error {
	if err := os.MkdirAll(path, dirPermissions); err != nil {
		return fmt.Errorf("create folder %s: %w", path, err)
	}
	return nil
}

// WriteFile writes content to path, replacing any existing file
func (l *Local) WriteFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the full paths of the regular files directly inside
// the folder
func (l *Local) ListFiles(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}
