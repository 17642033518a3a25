// Package testutil provides mock toolchain implementations for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// MockToolchain implements the cache's Builder, Installer, and Patcher
// interfaces, recording every invocation. The zero value succeeds every
// step; set the *Err fields to inject failures.
type MockToolchain struct {
	mu       sync.Mutex
	creates  []string
	patches  []string
	installs []string

	// CreateErr, PatchErr, and InstallErr fail the matching step when set.
	CreateErr  error
	PatchErr   error
	InstallErr error
}

// NewMockToolchain constructs a toolchain whose steps all succeed.
func NewMockToolchain() *MockToolchain {
	return &MockToolchain{}
}

// Create records the call and lays out a minimal environment skeleton with
// a bin/activate script, mimicking what a real environment builder leaves
// behind.
func (m *MockToolchain) Create(_ context.Context, path string) error {
	m.mu.Lock()
	m.creates = append(m.creates, path)
	err := m.CreateErr
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(path, "bin"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, "bin", "activate"), []byte("# activate\n"), 0o644)
}

// Patch records the call.
func (m *MockToolchain) Patch(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, path)
	return m.PatchErr
}

// Install records the manifest content it was pointed at.
func (m *MockToolchain) Install(_ context.Context, _, manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.installs = append(m.installs, string(data))
	return m.InstallErr
}

// Creates returns the paths passed to Create, in order.
func (m *MockToolchain) Creates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.creates...)
}

// Patches returns the paths passed to Patch, in order.
func (m *MockToolchain) Patches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.patches...)
}

// Installs returns the manifest contents seen by Install, in order.
func (m *MockToolchain) Installs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.installs...)
}
