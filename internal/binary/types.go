package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// TempSuffix is appended to the target path while a download is in flight.
const TempSuffix = ".download"

// ErrUnexpectedName is returned when the target's file name is not the one
// the settings produce for its version, so no prune pattern can be derived.
var ErrUnexpectedName = errors.New("target file name does not match the configured asset name")

// Target identifies the artifact that must be present.
type Target struct {
	// Path is the absolute path of the installed file.
	Path string
	// Version is the release version without pre-release suffix.
	Version string
}

// Validate checks that the target can be installed.
func (t Target) Validate() error {
	if t.Version == "" {
		return fmt.Errorf("target version is required")
	}
	if !filepath.IsAbs(t.Path) {
		return fmt.Errorf("target path must be absolute: %q", t.Path)
	}
	return nil
}

// TempPath returns the path the download is written to before commit.
func (t Target) TempPath() string {
	return t.Path + TempSuffix
}

// Fetcher returns the body of a successful GET for url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// AccessCheckError reports that the target could not be stat'ed. The
// installer treats it as "not installed".
type AccessCheckError struct {
	Path string
	Err  error
}

func (e *AccessCheckError) Error() string {
	return fmt.Sprintf("access %s: %v", e.Path, e.Err)
}

func (e *AccessCheckError) Unwrap() error { return e.Err }

// DeleteError reports a failure to remove an obsolete artifact.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("remove obsolete %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// RenameError reports a failure to move the finished download into place.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s to %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }
