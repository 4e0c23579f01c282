package binary

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/platform"
)

// Installer ensures a single gadget version is installed.
type Installer struct {
	settings     *config.Config
	platformInfo *platform.Info
	fetcher      Fetcher
	logger       config.Logger
	createTemp   func(path string) (io.WriteCloser, error)
}

// Config holds the collaborators of an Installer.
type Config struct {
	// Settings describe the asset name and URL template.
	Settings *config.Config
	// PlatformInfo fills the {os} and {arch} placeholders. Optional.
	PlatformInfo *platform.Info
	// Fetcher downloads the asset.
	Fetcher Fetcher
	// Logger defaults to a no-op logger.
	Logger config.Logger
}

// NewInstaller creates a new installer
func NewInstaller(cfg Config) (*Installer, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("Settings is required")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("Fetcher is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = config.NopLogger()
	}

	return &Installer{
		settings:     cfg.Settings,
		platformInfo: cfg.PlatformInfo,
		fetcher:      cfg.Fetcher,
		logger:       logger,
		createTemp:   createTempFile,
	}, nil
}

// AssetURL returns the release asset URL for version.
func (i *Installer) AssetURL(version string) (string, error) {
	return assetURL(i.settings, version, i.platformInfo)
}

// checkAccess reports whether target exists. Any stat failure, not only
// "does not exist", counts as absent.
func checkAccess(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &AccessCheckError{Path: path, Err: err}
	}
	return nil
}

// IsInstalled checks if the target file is present.
func (i *Installer) IsInstalled(target Target) bool {
	if err := checkAccess(target.Path); err != nil {
		i.logger.Debug("artifact not present", "path", target.Path, "reason", err.Error())
		return false
	}
	return true
}

// EnsureInstalled prunes obsolete versions and, unless target is already
// present, downloads and installs it.
func (i *Installer) EnsureInstalled(ctx context.Context, target Target) error {
	if err := target.Validate(); err != nil {
		return err
	}

	removed, err := i.Prune(target)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	if len(removed) > 0 {
		i.logger.Info("pruned obsolete artifacts", "count", len(removed))
	}

	if i.IsInstalled(target) {
		i.logger.Debug("artifact already installed", "path", target.Path, "version", target.Version)
		return nil
	}

	assetURL, err := i.AssetURL(target.Version)
	if err != nil {
		return err
	}

	start := time.Now()
	tempPath := target.TempPath()
	i.logger.Info("downloading artifact", "url", assetURL, "version", target.Version)

	written, err := i.download(ctx, assetURL, tempPath)
	if err != nil {
		return err
	}

	if err := os.Rename(tempPath, target.Path); err != nil {
		return &RenameError{From: tempPath, To: target.Path, Err: err}
	}

	i.logger.Info("installed artifact",
		"path", target.Path,
		"size", humanize.Bytes(uint64(written)),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
