package detect

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/magicnumber"
	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	entry, err := w.Create("hello.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("hello, world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestBackendZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.rar")
	writeZip(t, path)

	b, err := Backend(path)
	require.NoError(t, err)
	assert.Equal(t, archiver.Zip, b, "signature wins over extension")
	assert.Equal(t, archiver.Zip, Resolve(path))
}

func TestBackendRar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	rar5 := []byte{'R', 'a', 'r', '!', 0x1a, 0x07, 0x01, 0x00}
	require.NoError(t, os.WriteFile(path, append(rar5, make([]byte, 64)...), 0o644))

	b, err := Backend(path)
	require.NoError(t, err)
	assert.Equal(t, archiver.Rar, b)
}

func TestBackendUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text, not an archive"), 0o644))

	_, err := Backend(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, archiver.Zip, Resolve(path))
}

func TestBackendMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.rar")
	_, err := Backend(path)
	assert.Error(t, err)
	assert.Equal(t, archiver.Rar, Resolve(path))
}

func TestFromSignature(t *testing.T) {
	b, err := FromSignature(magicnumber.RoshalARchive)
	require.NoError(t, err)
	assert.Equal(t, archiver.Rar, b)

	b, err = FromSignature(magicnumber.X7zCompressArchive)
	require.NoError(t, err)
	assert.Equal(t, archiver.Zip, b)

	_, err = FromSignature(magicnumber.Unknown)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestByExtension(t *testing.T) {
	assert.Equal(t, archiver.Rar, ByExtension("/a/B.RAR"))
	assert.Equal(t, archiver.Zip, ByExtension("/a/b.zip"))
	assert.Equal(t, archiver.Zip, ByExtension("/a/b"))
}
