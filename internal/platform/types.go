// Package platform describes the host gadgetfetch runs on.
//
// OS and architecture come from the Go runtime. On Linux the distribution is
// read with gopsutil; failures there are not fatal and leave the distro
// fields empty. The result feeds the User-Agent header, the {os} and {arch}
// URL placeholders, and the read-only platform table in Lua configs.
package platform

import (
	"context"
	"fmt"
)

// Canonical Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // normalized, e.g. "amd64", "arm64"
	ArchRaw  string // runtime.GOARCH
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (Linux only)
	Version  string // distro version (Linux only)
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// UserAgent formats an HTTP User-Agent for product running on this host,
// e.g. "gadgetfetch/1.0 (linux; amd64; ubuntu 22.04)".
func (i *Info) UserAgent(product string) string {
	if i.Platform != "" {
		if i.Version != "" {
			return fmt.Sprintf("%s (%s; %s; %s %s)", product, i.OS, i.Arch, i.Platform, i.Version)
		}
		return fmt.Sprintf("%s (%s; %s; %s)", product, i.OS, i.Arch, i.Platform)
	}
	return fmt.Sprintf("%s (%s; %s)", product, i.OS, i.Arch)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
