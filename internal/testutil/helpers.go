// Package testutil provides reusable fixtures for autopilot tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Project is an isolated project directory for a single test
type Project struct {
	Root string // Canonical project root
	t    *testing.T
}

// SetupProject creates an empty project under t.TempDir(). The root has its
// symlinks resolved so paths compare cleanly against pathguard output.
func SetupProject(t *testing.T) *Project {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	return &Project{Root: root, t: t}
}

// CreateFile creates a file relative to the project root, creating parent directories.
func (p *Project) CreateFile(relPath, content string) string {
	p.t.Helper()

	fullPath := p.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		p.t.Fatalf("Failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// ReadFile reads a file relative to the project root.
func (p *Project) ReadFile(relPath string) string {
	p.t.Helper()

	data, err := os.ReadFile(p.Path(relPath))
	if err != nil {
		p.t.Fatalf("Failed to read file %s: %v", relPath, err)
	}
	return string(data)
}

// FileExists checks if a file exists relative to the project root.
func (p *Project) FileExists(relPath string) bool {
	p.t.Helper()

	_, err := os.Stat(p.Path(relPath))
	return err == nil
}

// Path returns the absolute path of relPath inside the project.
func (p *Project) Path(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(p.Root, relPath)
}

// ObservedLogger returns a logger that records every entry for assertions.
func ObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}
