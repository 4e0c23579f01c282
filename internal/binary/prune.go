package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/config"
)

// namePattern derives the glob shared by every version of the asset:
// the configured file name with "*" in place of the version. base must be
// exactly the file name settings produce for version.
func namePattern(settings *config.Config, base, version string) (glob.Glob, error) {
	if version == "" || base != settings.FileName(version) {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedName, base, settings.FileName(version))
	}
	prefix := settings.Name + "-"
	suffix := "-" + settings.Platform + "." + settings.Ext

	g, err := glob.Compile(glob.QuoteMeta(prefix) + "*" + glob.QuoteMeta(suffix))
	if err != nil {
		return nil, fmt.Errorf("compile name pattern: %w", err)
	}
	return g, nil
}

// Prune removes artifacts of other versions next to target and returns the
// removed paths. The first failed removal stops the prune.
func (i *Installer) Prune(target Target) ([]string, error) {
	dir, base := filepath.Dir(target.Path), filepath.Base(target.Path)

	pattern, err := namePattern(i.settings, base, target.Version)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == base || !pattern.Match(name) {
			continue
		}

		obsolete := filepath.Join(dir, name)
		if err := os.Remove(obsolete); err != nil {
			return removed, &DeleteError{Path: obsolete, Err: err}
		}
		i.logger.Debug("removed obsolete artifact", "path", obsolete)
		removed = append(removed, obsolete)
	}

	return removed, nil
}
