package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"jasper-launcher/pkg/embedded"
	"jasper-launcher/pkg/log"
)

// ComposeFileName is the bundled project file inside the extraction directory.
const ComposeFileName = "docker-compose.yaml"

//go:embed assets/**
var composeFS embed.FS

// Manager keeps the bundled compose project in sync on disk.
type Manager struct {
	embeddedManager *embedded.Manager
}

// NewManager creates a manager extracting into targetDir.
func NewManager(targetDir string) (*Manager, error) {
	// Create a sub-filesystem rooted at the "assets" directory so that the
	// extracted file paths do not include the top-level "assets" prefix.
	subFS, err := fs.Sub(composeFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("failed to create sub filesystem for bundled compose project: %w", err)
	}
	return &Manager{embeddedManager: embedded.NewManager(subFS, targetDir)}, nil
}

// ComposeFile returns the path of the extracted compose file.
func (m *Manager) ComposeFile() string {
	return filepath.Join(m.embeddedManager.TargetDir(), ComposeFileName)
}

// SyncFiles writes the bundled compose project to disk.
func (m *Manager) SyncFiles() error {
	written, err := m.embeddedManager.SyncFiles()
	if err != nil {
		return err
	}
	if len(written) > 0 {
		log.Info("Synced bundled compose project", "dir", m.embeddedManager.TargetDir(), "files", written)
	}
	return nil
}

// Bundled returns the raw bundled compose file.
func Bundled() ([]byte, error) {
	return composeFS.ReadFile("assets/" + ComposeFileName)
}
