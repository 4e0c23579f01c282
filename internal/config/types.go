package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config describes which artifact to fetch and how.
type Config struct {
	// Name is the asset name shared by every version, e.g. "frida-gadget".
	Name string `json:"name"`

	// Platform is the platform segment of the asset name.
	Platform string `json:"platform"`

	// Ext is the extension of the installed file, without the dot.
	Ext string `json:"ext"`

	// URL is the release asset URL template.
	URL string `json:"url"`

	// UserAgent overrides the User-Agent header when set.
	UserAgent string `json:"user_agent,omitempty"`

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration `json:"timeout,omitempty"`

	// PackageDir is where the manifest and the artifact live. Empty means
	// the caller decides.
	PackageDir string `json:"package_dir,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:     DefaultName,
		Platform: DefaultPlatform,
		Ext:      DefaultExt,
		URL:      DefaultURL,
		Timeout:  DefaultTimeout,
	}
}

// FileName returns the installed file name for version,
// e.g. "frida-gadget-16.1.4-ios-universal.dylib".
func (c *Config) FileName(version string) string {
	return fmt.Sprintf("%s-%s-%s.%s", c.Name, version, c.Platform, c.Ext)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("name must not contain path separators: %q", c.Name)
	}
	if strings.ContainsAny(c.Platform, `/\`) {
		return fmt.Errorf("platform must not contain path separators: %q", c.Platform)
	}
	if strings.TrimSpace(c.Ext) == "" {
		return fmt.Errorf("ext must not be empty")
	}

	if !strings.Contains(c.URL, PlaceholderVersion) {
		return fmt.Errorf("url template must contain %s: %q", PlaceholderVersion, c.URL)
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url template: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("url template must use http or https, got %q", u.Scheme)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}

	return nil
}
