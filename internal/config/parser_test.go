package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDetector is a test implementation of platform.Detector.
type mockDetector struct {
	info *platform.Info
	err  error
}

func (m *mockDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return m.info, m.err
}

func TestParser_ParseString_NoTableKeepsDefaults(t *testing.T) {
	cfg, err := NewParser(nil).ParseString(context.Background(), `local x = 1`)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParser_ParseString_Overrides(t *testing.T) {
	luaCode := `
		gadget = {
			name = "frida-gadget",
			platform = "macos-universal",
			ext = "dylib",
			url = "https://mirror.example/{version}/{name}-{version}-{platform}.{ext}.gz",
			user_agent = "ci-bot/2",
			timeout = 1.5,
			package_dir = "/opt/gadget",
		}
	`

	cfg, err := NewParser(nil).ParseString(context.Background(), luaCode)
	require.NoError(t, err)

	assert.Equal(t, "macos-universal", cfg.Platform)
	assert.Equal(t, "https://mirror.example/{version}/{name}-{version}-{platform}.{ext}.gz", cfg.URL)
	assert.Equal(t, "ci-bot/2", cfg.UserAgent)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "/opt/gadget", cfg.PackageDir)
}

func TestParser_ParseString_PlatformTable(t *testing.T) {
	detector := &mockDetector{info: &platform.Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"}}
	luaCode := `
		gadget = {
			platform = platform.is_macos and "macos-universal" or "ios-universal",
		}
	`

	cfg, err := NewParser(detector).ParseString(context.Background(), luaCode)
	require.NoError(t, err)
	assert.Equal(t, "macos-universal", cfg.Platform)
}

func TestParser_ParseString_DetectorError(t *testing.T) {
	detector := &mockDetector{err: errors.New("no host info")}

	_, err := NewParser(detector).ParseString(context.Background(), `gadget = {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform detection failed")
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		message string
	}{
		{name: "syntax_error", code: `gadget = {`, message: "Lua error"},
		{name: "gadget_not_table", code: `gadget = "nope"`, message: "invalid 'gadget' table"},
		{name: "name_not_string", code: `gadget = { name = 42 }`, message: `invalid field "name"`},
		{name: "timeout_not_number", code: `gadget = { timeout = "soon" }`, message: `invalid field "timeout"`},
		{name: "url_without_version", code: `gadget = { url = "https://example.com/latest.xz" }`, message: "config validation failed"},
		{name: "negative_timeout", code: `gadget = { timeout = -1 }`, message: "config validation failed"},
		{name: "os_blocked", code: `os.execute("true")`, message: "Lua error"},
		{name: "io_blocked", code: `io.open("/etc/passwd")`, message: "Lua error"},
		{name: "require_blocked", code: `require("socket")`, message: "Lua error"},
		{name: "platform_read_only", code: `platform.os = "plan9"`, message: "Lua error"},
	}

	detector := &mockDetector{info: &platform.Info{OS: "linux", Arch: "amd64", ArchRaw: "amd64"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(detector).ParseString(context.Background(), tt.code)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.message, parseErr.Message)
		})
	}
}

func TestParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(`gadget = { ext = "so" }`), 0o644))

	cfg, err := NewParser(nil).ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "so", cfg.Ext)

	_, err = NewParser(nil).ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
