package binary

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/pipeline"
)

// createTempFile opens the download destination, truncating a leftover
// from an earlier failed run.
func createTempFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

// download fetches assetURL and streams it, decompressed, into tempPath.
// The directory of tempPath is created only once the fetch succeeded.
// It returns the number of bytes written. On failure tempPath may hold a
// partial file.
func (i *Installer) download(ctx context.Context, assetURL, tempPath string) (int64, error) {
	body, err := i.fetcher.Fetch(ctx, assetURL)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", assetURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(tempPath), 0o755); err != nil {
		body.Close()
		return 0, fmt.Errorf("create target dir: %w", err)
	}

	out, err := i.createTemp(tempPath)
	if err != nil {
		body.Close()
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	sink := &countingWriter{w: out}
	transforms := decompressor(compressionFor(assetURL))
	if err := pipeline.Pipe(ctx, body, sink, transforms...); err != nil {
		return sink.n, fmt.Errorf("write %s: %w", tempPath, err)
	}

	return sink.n, nil
}

// countingWriter counts bytes written through it. Only the pipeline's sink
// goroutine writes, so no locking is needed.
type countingWriter struct {
	w io.WriteCloser
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) Close() error {
	return c.w.Close()
}
