package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	fp, err := Fingerprint(empty)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xef46db3751d8e999), fp)

	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(a, []byte("report"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("report"), 0o600))
	require.NoError(t, os.WriteFile(c, []byte("report!"), 0o600))

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	fc, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
}

func TestFingerprint_Missing(t *testing.T) {
	fp, err := Fingerprint(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, common.ErrIO)
	assert.Zero(t, fp)
}
