package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the running host.
type RealDetector struct {
	goos   string
	goarch string
	// platformInfo is host.PlatformInformationWithContext, replaceable in tests.
	platformInfo func(ctx context.Context) (platform, family, version string, err error)
}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{
		goos:         runtime.GOOS,
		goarch:       runtime.GOARCH,
		platformInfo: host.PlatformInformationWithContext,
	}
}

// Detected returns a Detector that always reports info. It lets one
// detection result be shared by several consumers.
func Detected(info *Info) Detector {
	return staticDetector{info: info}
}

type staticDetector struct {
	info *Info
}

func (d staticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.info, nil
}

// Detect performs platform detection. Distro detection failures on Linux
// are ignored; a cancelled context is not.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      d.goos,
		Arch:    normalizeArch(d.goarch),
		ArchRaw: d.goarch,
	}

	if d.goos != "linux" || d.platformInfo == nil {
		return info, nil
	}

	platform, family, version, err := d.platformInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if platform = normalizePlatform(platform); platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}
