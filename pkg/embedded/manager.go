package embedded

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Manager extracts embedded files into a target directory. Files whose content
// already matches are left untouched so their modification time survives a
// restart; everything else is overwritten.
type Manager struct {
	embeddedFS fs.FS
	targetDir  string
	fileMode   os.FileMode
}

// NewManager creates a new embedded files manager.
func NewManager(embeddedFS fs.FS, targetDir string) *Manager {
	return &Manager{
		embeddedFS: embeddedFS,
		targetDir:  targetDir,
		fileMode:   0o644,
	}
}

// TargetDir returns the extraction directory.
func (m *Manager) TargetDir() string {
	return m.targetDir
}

// SyncFiles extracts the embedded files into the target directory and returns
// the relative paths that were written.
func (m *Manager) SyncFiles() ([]string, error) {
	written, err := m.extractFiles()
	if err != nil {
		return written, fmt.Errorf("failed to extract embedded files: %w", err)
	}
	return written, nil
}

// extractFiles walks through the embedded FS and writes every changed entry into the target directory.
func (m *Manager) extractFiles() ([]string, error) {
	if err := os.MkdirAll(m.targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	var written []string
	err := fs.WalkDir(m.embeddedFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		targetPath := filepath.Join(m.targetDir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(targetPath, 0o755)
		}

		data, err := fs.ReadFile(m.embeddedFS, path)
		if err != nil {
			return fmt.Errorf("failed to read embedded file %s: %w", path, err)
		}

		if current, err := os.ReadFile(targetPath); err == nil && bytes.Equal(current, data) {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent directory for %s: %w", targetPath, err)
		}
		if err := os.WriteFile(targetPath, data, m.fileMode); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetPath, err)
		}
		written = append(written, path)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("failed to extract files: %w", err)
	}
	return written, nil
}
