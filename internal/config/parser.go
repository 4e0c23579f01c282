package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates Lua config files with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table out of the VM.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and evaluates the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString evaluates luaCode and applies the gadget table on top of the
// defaults.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global gadget table. A file that does not define
// it leaves the defaults untouched.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	value := L.GetGlobal(luaGlobalGadget)
	switch value.Type() {
	case lua.LTNil:
		return cfg, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: "invalid 'gadget' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}
	table := value.(*lua.LTable)

	strFields := map[string]*string{
		luaFieldName:       &cfg.Name,
		luaFieldPlatform:   &cfg.Platform,
		luaFieldExt:        &cfg.Ext,
		luaFieldURL:        &cfg.URL,
		luaFieldUserAgent:  &cfg.UserAgent,
		luaFieldPackageDir: &cfg.PackageDir,
	}
	for field, dst := range strFields {
		v := table.RawGetString(field)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*dst = v.String()
		default:
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid field %q", field),
				Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
			}
		}
	}

	switch v := table.RawGetString(luaFieldTimeout); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Timeout = time.Duration(float64(v.(lua.LNumber)) * float64(time.Second))
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid field %q", luaFieldTimeout),
			Detail:  fmt.Sprintf("expected number of seconds, got %s", v.Type()),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}
