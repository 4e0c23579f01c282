// Package testutil provides fixtures for testing gadgetfetch in isolation.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// SetupPackageDir creates an isolated package directory holding a
// package.json with the given version and returns its path.
//
// HOME and XDG_CACHE_HOME are pointed into the test's temp dir so nothing
// the test runs can touch the user's real files.
func SetupPackageDir(t *testing.T, version string) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))

	dir := filepath.Join(tmpDir, "node_modules", "frida-gadget-ios")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create package directory %s: %v", dir, err)
	}

	manifest := fmt.Sprintf(`{"name": "frida-gadget-ios", "version": %q, "main": "index.js"}`, version)
	WriteFile(t, filepath.Join(dir, "package.json"), manifest)

	return dir
}

// WriteFile writes content to path or fails the test.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// XZ compresses data into a single xz stream.
func XZ(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("failed to write xz data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close xz writer: %v", err)
	}
	return buf.Bytes()
}

// Gzip compresses data into a gzip member.
func Gzip(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("failed to write gzip data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}
