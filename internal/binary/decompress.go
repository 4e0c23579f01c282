package binary

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/pipeline"
)

// Compression identifies how a release asset is encoded.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionGzip Compression = "gzip"
)

// compressionFor picks the compression from the asset URL's file extension.
func compressionFor(rawURL string) Compression {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".xz":
		return CompressionXZ
	case ".gz":
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// decompressor returns the pipeline stages that decode c. Plain assets need
// none.
func decompressor(c Compression) []pipeline.Transform {
	switch c {
	case CompressionXZ:
		return []pipeline.Transform{pipeline.TransformFunc(unxz)}
	case CompressionGzip:
		return []pipeline.Transform{pipeline.TransformFunc(gunzip)}
	default:
		return nil
	}
}

func unxz(dst io.Writer, src io.Reader) error {
	r, err := xz.NewReader(src)
	if err != nil {
		return fmt.Errorf("open xz stream: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("decompress xz: %w", err)
	}
	return nil
}

func gunzip(dst io.Writer, src io.Reader) error {
	r, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer r.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("decompress gzip: %w", err)
	}
	return nil
}
