package binary

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/platform"
)

// assetURL expands the configured URL template for version.
// Pattern: https://github.com/frida/frida/releases/download/{version}/{name}-{version}-{platform}.{ext}.xz
func assetURL(settings *config.Config, version string, info *platform.Info) (string, error) {
	if settings == nil {
		return "", fmt.Errorf("settings are required")
	}

	var goos, arch string
	if info != nil {
		goos, arch = info.OS, info.Arch
	}

	replacer := strings.NewReplacer(
		config.PlaceholderVersion, url.PathEscape(version),
		config.PlaceholderName, url.PathEscape(settings.Name),
		config.PlaceholderPlatform, url.PathEscape(settings.Platform),
		config.PlaceholderExt, url.PathEscape(settings.Ext),
		config.PlaceholderOS, goos,
		config.PlaceholderArch, arch,
	)
	expanded := replacer.Replace(settings.URL)

	if _, err := url.Parse(expanded); err != nil {
		return "", fmt.Errorf("invalid asset url %q: %w", expanded, err)
	}
	return expanded, nil
}
