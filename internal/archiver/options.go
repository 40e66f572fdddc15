package archiver

import (
	"strconv"
	"strings"

	"github.com/mcdonaldj/arcwrap/internal/ports"
)

// Backend selects the external archiver.
type Backend int

const (
	// Zip drives 7-Zip and produces ZIP archives.
	Zip Backend = iota
	// Rar drives RAR or WinRAR.
	Rar
)

func (b Backend) String() string {
	switch b {
	case Zip:
		return "zip"
	case Rar:
		return "rar"
	}
	return "backend(" + strconv.Itoa(int(b)) + ")"
}

// Extension is the archive extension the backend produces, with the dot.
func (b Backend) Extension() string {
	if b == Rar {
		return ".rar"
	}
	return ".zip"
}

// ParseBackend accepts zip, 7z, 7zip and rar in any case.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zip", "7z", "7zip", "7-zip":
		return Zip, nil
	case "rar", "winrar":
		return Rar, nil
	}
	return 0, configErrorf("backend", "unknown backend %q", s)
}

// UpdateMode controls how compress treats an existing archive.
type UpdateMode string

const (
	// UpdateSync updates changed files and removes entries whose source is gone.
	UpdateSync UpdateMode = "sync"
	// UpdateAdd updates changed files and keeps everything else.
	UpdateAdd UpdateMode = "add"
	// UpdateMirror passes no update switches at all.
	UpdateMirror UpdateMode = "mirror"
)

func (m UpdateMode) normalize() (UpdateMode, error) {
	switch UpdateMode(strings.ToLower(strings.TrimSpace(string(m)))) {
	case "":
		return UpdateSync, nil
	case UpdateSync:
		return UpdateSync, nil
	case UpdateAdd:
		return UpdateAdd, nil
	case UpdateMirror:
		return UpdateMirror, nil
	}
	return "", configErrorf("update mode", "unknown mode %q (want sync, add or mirror)", string(m))
}

// Recursion controls how subdirectories of the sources are walked.
type Recursion string

const (
	// RecurseAll recurses into every subdirectory. With a plain file source this
	// also matches files of the same name anywhere below it.
	RecurseAll Recursion = "all"
	// RecurseNone disables recursion.
	RecurseNone Recursion = "none"
	// RecurseWildcard recurses only for wildcard sources.
	RecurseWildcard Recursion = "wildcard"
)

func (r Recursion) normalize() (Recursion, error) {
	switch Recursion(strings.ToLower(strings.TrimSpace(string(r)))) {
	case "":
		return RecurseWildcard, nil
	case RecurseAll:
		return RecurseAll, nil
	case RecurseNone:
		return RecurseNone, nil
	case RecurseWildcard:
		return RecurseWildcard, nil
	}
	return "", configErrorf("recursion", "unknown mode %q (want all, none or wildcard)", string(r))
}

// switchSuffix is shared by both backends: -r, -r- and -r0.
func (r Recursion) switchSuffix() string {
	switch r {
	case RecurseAll:
		return ""
	case RecurseNone:
		return "-"
	}
	return "0"
}

// Level is a compression level, either a named tier or a number.
// The empty Level means normal.
type Level string

// tierLevels holds the numeric level of each named tier for Zip and Rar.
var tierLevels = map[string][2]int{
	"store":   {0, 0},
	"fastest": {1, 1},
	"fast":    {3, 2},
	"normal":  {5, 3},
	"maximum": {7, 4},
	"ultra":   {9, 5},
}

var levelBounds = map[Backend][2]int{
	Zip: {0, 9},
	Rar: {0, 5},
}

// resolve returns the numeric level for b. Numbers outside the backend's
// range are clamped to the nearest bound.
func (l Level) resolve(b Backend) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(l)))
	if s == "" {
		s = "normal"
	}
	if tier, ok := tierLevels[s]; ok {
		return tier[b], nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, configErrorf("level", "unknown compression level %q", string(l))
	}
	bounds := levelBounds[b]
	return min(max(n, bounds[0]), bounds[1]), nil
}

// ZipOptions are the 7-Zip specific compress options.
// A nil *ZipOptions in a request means DefaultZipOptions.
type ZipOptions struct {
	UpdateMode  UpdateMode
	Recursion   Recursion
	Level       Level
	Excludes    []string
	SharedFiles bool // -ssw: compress files open for writing
}

// DefaultZipOptions returns the options used when a request carries none.
func DefaultZipOptions() ZipOptions {
	return ZipOptions{
		UpdateMode:  UpdateSync,
		Recursion:   RecurseWildcard,
		Level:       "normal",
		SharedFiles: true,
	}
}

// RarOptions are the RAR specific compress options.
// A nil *RarOptions in a request means DefaultRarOptions.
type RarOptions struct {
	UpdateMode      UpdateMode
	SkipExisting    bool // -o- instead of -o+
	Recursion       Recursion
	Level           Level
	Excludes        []string
	SharedFiles     bool // -dh
	NTFSStreams     bool // -os
	SecurityInfo    bool // -ow
	EmptyDirs       bool // false adds -ed
	Solid           bool // -s, otherwise -s-
	AssumeYes       bool // -y
	CPUPriority     int  // 1..15 adds -ri<n>
	RecoveryPercent int  // 1..100 adds -rr<n>p
	FullPaths       bool // -ep2 instead of -ep1
	StderrMessages  bool // -ierr
	FormatVersion   int  // 4 is -ma4, 5 is -ma5, below 4 adds nothing
	SymlinksAsLinks bool // -ol, RAR5 format only
	UseGUI          bool // run WinRAR instead of the console Rar
}

// DefaultRarOptions returns the options used when a request carries none.
func DefaultRarOptions() RarOptions {
	return RarOptions{
		UpdateMode:    UpdateSync,
		Recursion:     RecurseWildcard,
		Level:         "normal",
		SharedFiles:   true,
		NTFSStreams:   true,
		SecurityInfo:  true,
		EmptyDirs:     true,
		Solid:         true,
		AssumeYes:     true,
		FormatVersion: 5,
	}
}

// CommonOptions apply to every operation and backend.
type CommonOptions struct {
	// ExecutablePath overrides the configured archiver executable.
	ExecutablePath string
	// WorkingDir is passed to the archiver as its temporary work directory.
	WorkingDir string
	Password   string
	// DateCode is a layout such as yyyyMMdd-HHmmss spliced into the archive name.
	DateCode string
	DryRun   bool
	// OutputsLog raises per-switch log lines from debug to info.
	OutputsLog bool
	// RetainListFiles keeps temporary list files for inspection.
	RetainListFiles bool
	// ListFileEncoding overrides the configured list-file encoding.
	ListFileEncoding string
}

// CompressRequest describes a compress operation.
type CompressRequest struct {
	Backend     Backend
	Sources     []string
	Destination string
	Zip         *ZipOptions
	Rar         *RarOptions
	Common      CommonOptions
}

// ExtractRequest describes an extract operation. An empty DestinationDir
// means the directory holding the archive.
type ExtractRequest struct {
	Backend             Backend
	Archive             string
	DestinationDir      string
	MakesArchiveNameDir bool
	Common              CommonOptions
}

// TestRequest describes an archive integrity test.
type TestRequest struct {
	Backend Backend
	Archive string
	Common  CommonOptions
}

// OpenRequest describes opening an archive in the backend's GUI.
type OpenRequest struct {
	Backend        Backend
	Archive        string
	ExecutablePath string
	// WindowStyle of the GUI. WindowHidden is treated as WindowActiveDefault.
	WindowStyle ports.WindowStyle
}

func validatePassword(pw string) error {
	for _, r := range pw {
		if r < 0x20 || r == 0x7f {
			return configErrorf("password", "must not contain control characters")
		}
	}
	return nil
}
