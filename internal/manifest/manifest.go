// Package manifest resolves which gadget a package directory expects, from
// the version recorded in its package.json.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"sigs.k8s.io/yaml"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/binary"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/config"
)

// FileName is the manifest file looked up in a package directory.
const FileName = "package.json"

// Manifest holds the package.json fields gadgetfetch reads.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Load reads the manifest in dir.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%s has no version", FileName)
	}
	return &m, nil
}

// ReleaseVersion returns v without pre-release or build suffix, e.g.
// "16.1.4-beta.2" becomes "16.1.4". Versions that are not strict semver are
// cut at the first "-".
func ReleaseVersion(v string) string {
	if sv, err := semver.StrictNewVersion(v); err == nil {
		return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
	}
	release, _, _ := strings.Cut(v, "-")
	return release
}

// Resolve returns the install target for the package in dir.
func Resolve(dir string, settings *config.Config) (binary.Target, error) {
	if settings == nil {
		settings = config.Default()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return binary.Target{}, fmt.Errorf("resolve package dir: %w", err)
	}

	m, err := Load(absDir)
	if err != nil {
		return binary.Target{}, err
	}

	version := ReleaseVersion(m.Version)
	if version == "" {
		return binary.Target{}, fmt.Errorf("invalid version %q in %s", m.Version, FileName)
	}

	return binary.Target{
		Path:    filepath.Join(absDir, settings.FileName(version)),
		Version: version,
	}, nil
}
