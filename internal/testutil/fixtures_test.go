package testutil_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/ZebulonRouseFrantzich/gadgetfetch/internal/testutil"
)

func TestSetupPackageDir(t *testing.T) {
	dir := testutil.SetupPackageDir(t, "16.1.4")

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "16.1.4"`)

	home := os.Getenv("HOME")
	assert.True(t, strings.HasPrefix(dir, filepath.Dir(home)), "package dir and HOME share the test temp dir")
}

func TestCompressors(t *testing.T) {
	payload := []byte("gadget payload")

	xr, err := xz.NewReader(bytes.NewReader(testutil.XZ(t, payload)))
	require.NoError(t, err)
	got, err := io.ReadAll(xr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	gr, err := gzip.NewReader(bytes.NewReader(testutil.Gzip(t, payload)))
	require.NoError(t, err)
	got, err = io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
