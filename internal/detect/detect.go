// Package detect picks the archiver backend for an existing archive.
package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Defacto2/magicnumber"
	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownFormat is returned when no backend can read the file.
var ErrUnknownFormat = errors.Base("unrecognized archive format")

// Backend sniffs the signature of the file at path.
// RAR archives go to the RAR backend; everything 7-Zip reads goes to Zip.
func Backend(path string) (archiver.Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sign, err := magicnumber.Archive(f)
	if err != nil {
		return 0, errors.Errorf("%w: %s: %v", ErrUnknownFormat, path, err)
	}
	return FromSignature(sign)
}

// FromSignature maps a magic number signature to a backend.
func FromSignature(sign magicnumber.Signature) (archiver.Backend, error) {
	switch sign { //nolint:exhaustive
	case magicnumber.RoshalARchive,
		magicnumber.RoshalARchivev5:
		return archiver.Rar, nil
	case magicnumber.PKWAREZip,
		magicnumber.PKWAREZip64,
		magicnumber.PKWAREZipImplode,
		magicnumber.PKWAREZipReduce,
		magicnumber.PKWAREZipShrink,
		magicnumber.X7zCompressArchive,
		magicnumber.GzipCompressArchive,
		magicnumber.Bzip2CompressArchive,
		magicnumber.XZCompressArchive,
		magicnumber.TapeARchive,
		magicnumber.MicrosoftCABinet,
		magicnumber.ArchiveRobertJung,
		magicnumber.YoshiLHA:
		return archiver.Zip, nil
	}
	return 0, errors.Errorf("%w: %s", ErrUnknownFormat, sign)
}

// ByExtension guesses the backend from the file name alone.
func ByExtension(path string) archiver.Backend {
	if strings.EqualFold(filepath.Ext(path), ".rar") {
		return archiver.Rar
	}
	return archiver.Zip
}

// Resolve sniffs path and falls back to its extension when the file is
// missing or unrecognized.
func Resolve(path string) archiver.Backend {
	if b, err := Backend(path); err == nil {
		return b
	}
	return ByExtension(path)
}
