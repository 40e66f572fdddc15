// Package archiver drives 7-Zip and RAR from typed requests.
//
// Every operation resolves paths, assembles an argument vector, runs the
// archiver exactly once through a ports.ProcessRunner and classifies its exit
// code. Temporary list files are removed before an operation returns.
package archiver

import (
	"context"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/mcdonaldj/arcwrap/internal/cmdline"
	"github.com/mcdonaldj/arcwrap/internal/ports"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ToolConfig locates one backend's executables.
type ToolConfig struct {
	InstallDir string
	Exe        string
	GUIExe     string
}

// Executable returns the console or GUI executable path.
// Without an install directory the bare name is returned for PATH lookup.
func (t ToolConfig) Executable(gui bool) string {
	exe := t.Exe
	if gui {
		exe = t.GUIExe
	}
	if t.InstallDir == "" {
		return exe
	}
	return filepath.Join(t.InstallDir, exe)
}

// Config is the explicit configuration of an Archiver.
type Config struct {
	Zip ToolConfig
	Rar ToolConfig
	// ListFileEncoding is the default list-file encoding name.
	ListFileEncoding string
	// ScratchDir holds temporary list files; empty means the OS temp directory.
	ScratchDir string
	// OutputsLog is the default for CommonOptions.OutputsLog.
	OutputsLog bool
}

// DefaultConfig returns the built-in tool locations for the current platform.
func DefaultConfig() Config {
	if runtime.GOOS == "windows" {
		return Config{
			Zip:              ToolConfig{InstallDir: `C:\Program Files\7-Zip`, Exe: "7z.exe", GUIExe: "7zFM.exe"},
			Rar:              ToolConfig{InstallDir: `C:\Program Files\WinRAR`, Exe: "Rar.exe", GUIExe: "WinRAR.exe"},
			ListFileEncoding: "utf-8",
		}
	}
	return Config{
		Zip:              ToolConfig{Exe: "7z", GUIExe: "7zFM"},
		Rar:              ToolConfig{Exe: "rar", GUIExe: "winrar"},
		ListFileEncoding: "utf-8",
	}
}

func (c Config) tool(b Backend) ToolConfig {
	if b == Rar {
		return c.Rar
	}
	return c.Zip
}

// OperationResult describes a finished or previewed operation.
type OperationResult struct {
	// Command is the command line as it would be typed, for display only.
	Command  string
	Path     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	// Error is the normalized failure flag; some non-zero exit codes are not errors.
	Error          bool
	Warning        bool
	Message        string
	ArchivePath    string
	DestinationDir string
	DryRun         bool
	ListFiles      []string
}

// Archiver runs archive operations. It holds no per-operation state and may
// be used from several goroutines.
type Archiver struct {
	cfg    Config
	fs     ports.FileSystem
	runner ports.ProcessRunner
	now    func() time.Time
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithClock sets the time source used for date codes.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		a.now = now
	}
}

// New creates an Archiver. It fails when the configured list-file encoding is unknown.
func New(cfg Config, fsys ports.FileSystem, runner ports.ProcessRunner, opts ...Option) (*Archiver, error) {
	if _, err := LookupEncoding(cfg.ListFileEncoding); err != nil {
		return nil, err
	}
	a := &Archiver{
		cfg:    cfg,
		fs:     fsys,
		runner: runner,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Compress creates or updates an archive from req.Sources.
// A fatal exit code yields both the result and an *ExitError.
func (a *Archiver) Compress(ctx context.Context, req CompressRequest) (*OperationResult, error) {
	log := zerolog.Ctx(ctx)
	if err := req.Backend.validate(); err != nil {
		return nil, err
	}
	sources, err := a.absPaths(req.Sources)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, configErrorf("sources", "no source paths given")
	}
	if err := validatePassword(req.Common.Password); err != nil {
		return nil, err
	}

	dest, err := ResolveDestination(a.fs, req.Backend.Extension(), sources, req.Destination)
	if err != nil {
		return nil, err
	}
	if req.Common.DateCode != "" {
		dest = spliceDateCode(dest, FormatDateCode(req.Common.DateCode, a.now()))
	}
	if !req.Common.DryRun {
		if err := a.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, errors.Errorf("creating archive directory: %w", err)
		}
	}

	lists, err := a.listFiles(req.Common)
	if err != nil {
		return nil, err
	}
	defer a.release(ctx, lists)

	plan := compressPlan{
		dest:     dest,
		sources:  sources,
		password: req.Common.Password,
		workDir:  req.Common.WorkingDir,
		verbose:  a.verbose(req.Common),
	}
	var (
		args []string
		gui  bool
	)
	switch req.Backend {
	case Rar:
		opts := DefaultRarOptions()
		if req.Rar != nil {
			opts = *req.Rar
		}
		gui = opts.UseGUI
		args, err = assembleRarCompress(log, plan, opts, lists)
	default:
		opts := DefaultZipOptions()
		if req.Zip != nil {
			opts = *req.Zip
		}
		args, err = assembleZipCompress(log, plan, opts, lists)
	}
	if err != nil {
		return nil, err
	}

	cmd := ports.Command{Path: a.executable(req.Backend, req.Common.ExecutablePath, gui), Args: args}
	result := newResult(cmd, req.Common.DryRun, lists)
	result.ArchivePath = dest
	if req.Common.DryRun {
		log.Info().Str("command", result.Command).Msg("dry run")
		return result, nil
	}

	if err := a.execute(ctx, req.Backend, OpCompress, cmd, result); err != nil {
		return result, err
	}
	if reported := reportedArchivePath(result.Stdout); reported != "" {
		result.ArchivePath = reported
	}
	return result, nil
}

// Extract unpacks req.Archive with full paths.
func (a *Archiver) Extract(ctx context.Context, req ExtractRequest) (*OperationResult, error) {
	log := zerolog.Ctx(ctx)
	if err := req.Backend.validate(); err != nil {
		return nil, err
	}
	archive, err := a.archivePath(req.Archive)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Common.Password); err != nil {
		return nil, err
	}

	dir := strings.TrimSpace(req.DestinationDir)
	if dir != "" {
		if dir, err = a.fs.Abs(dir); err != nil {
			return nil, errors.Errorf("resolving destination directory: %w", err)
		}
	}
	dir = ResolveExtractDir(archive, dir, req.MakesArchiveNameDir)
	if !req.Common.DryRun {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Errorf("creating destination directory: %w", err)
		}
	}

	verbose := a.verbose(req.Common)
	var args []string
	if req.Backend == Rar {
		args = assembleRarExtract(log, archive, dir, req.Common.Password, verbose)
	} else {
		args = assembleZipExtract(log, archive, dir, req.Common.Password, verbose)
	}

	cmd := ports.Command{Path: a.executable(req.Backend, req.Common.ExecutablePath, false), Args: args}
	result := newResult(cmd, req.Common.DryRun, nil)
	result.ArchivePath = archive
	result.DestinationDir = dir
	if req.Common.DryRun {
		log.Info().Str("command", result.Command).Msg("dry run")
		return result, nil
	}
	if err := a.execute(ctx, req.Backend, OpExtract, cmd, result); err != nil {
		return result, err
	}
	return result, nil
}

// Test checks the integrity of req.Archive.
func (a *Archiver) Test(ctx context.Context, req TestRequest) (*OperationResult, error) {
	log := zerolog.Ctx(ctx)
	if err := req.Backend.validate(); err != nil {
		return nil, err
	}
	archive, err := a.archivePath(req.Archive)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Common.Password); err != nil {
		return nil, err
	}

	verbose := a.verbose(req.Common)
	var args []string
	if req.Backend == Rar {
		args = assembleRarTest(log, archive, req.Common.Password, verbose)
	} else {
		args = assembleZipTest(log, archive, req.Common.Password, verbose)
	}

	cmd := ports.Command{Path: a.executable(req.Backend, req.Common.ExecutablePath, false), Args: args}
	result := newResult(cmd, req.Common.DryRun, nil)
	result.ArchivePath = archive
	if req.Common.DryRun {
		log.Info().Str("command", result.Command).Msg("dry run")
		return result, nil
	}
	if err := a.execute(ctx, req.Backend, OpTest, cmd, result); err != nil {
		return result, err
	}
	return result, nil
}

// Open launches the backend's GUI on req.Archive and returns without waiting.
func (a *Archiver) Open(ctx context.Context, req OpenRequest) error {
	if err := req.Backend.validate(); err != nil {
		return err
	}
	archive, err := a.archivePath(req.Archive)
	if err != nil {
		return err
	}

	exe := req.ExecutablePath
	if exe == "" {
		exe = a.cfg.tool(req.Backend).Executable(true)
	}
	style := req.WindowStyle
	if style == ports.WindowHidden {
		style = ports.WindowActiveDefault
	}

	cmd := ports.Command{Path: exe, Args: []string{archive}}
	zerolog.Ctx(ctx).Info().Str("exe", exe).Str("archive", archive).Stringer("window", style).Msg("opening archive")
	if err := a.runner.Start(ctx, cmd, ports.RunOptions{WindowStyle: style}); err != nil {
		return errors.WithStack(&LaunchError{Path: exe, Err: err})
	}
	return nil
}

func (b Backend) validate() error {
	if b != Zip && b != Rar {
		return configErrorf("backend", "unsupported backend %s", b)
	}
	return nil
}

func (a *Archiver) absPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := a.fs.Abs(p)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func (a *Archiver) archivePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", configErrorf("archive", "no archive path given")
	}
	abs, err := a.fs.Abs(p)
	if err != nil {
		return "", errors.Errorf("resolving archive %s: %w", p, err)
	}
	return abs, nil
}

// executable applies the precedence: explicit override, then configuration.
func (a *Archiver) executable(b Backend, override string, gui bool) string {
	if override != "" {
		return override
	}
	return a.cfg.tool(b).Executable(gui)
}

func (a *Archiver) verbose(c CommonOptions) bool {
	return c.OutputsLog || a.cfg.OutputsLog
}

func (a *Archiver) listFiles(c CommonOptions) (*ListFileManager, error) {
	name := c.ListFileEncoding
	if name == "" {
		name = a.cfg.ListFileEncoding
	}
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return NewListFileManager(a.fs, ListFileOptions{
		Dir:      a.cfg.ScratchDir,
		Encoding: enc,
		DryRun:   c.DryRun,
		Retain:   c.RetainListFiles,
	}), nil
}

func (a *Archiver) release(ctx context.Context, lists *ListFileManager) {
	log := zerolog.Ctx(ctx)
	if lists.opts.Retain && lists.Used() {
		log.Info().Strs("files", lists.Paths()).Msg("keeping list files")
		return
	}
	if err := lists.ReleaseAll(); err != nil {
		log.Warn().Err(err).Msg("removing list files")
	}
}

func newResult(cmd ports.Command, dryRun bool, lists *ListFileManager) *OperationResult {
	r := &OperationResult{
		Command: cmdline.Format(cmd.Path, cmd.Args),
		Path:    cmd.Path,
		Args:    cmd.Args,
		DryRun:  dryRun,
	}
	if lists != nil {
		r.ListFiles = lists.Paths()
	}
	return r
}

// execute runs cmd once and records the classified outcome in result.
func (a *Archiver) execute(ctx context.Context, b Backend, op Operation, cmd ports.Command, result *OperationResult) error {
	log := zerolog.Ctx(ctx)
	log.Debug().Str("command", result.Command).Msg("running archiver")

	res, err := a.runner.Run(ctx, cmd, ports.RunOptions{WindowStyle: ports.WindowHidden})
	if err != nil {
		log.Error().Err(err).Str("exe", cmd.Path).Msg("could not launch archiver")
		return errors.WithStack(&LaunchError{Path: cmd.Path, Err: err})
	}

	result.ExitCode = res.ExitCode
	result.Stdout = res.Stdout
	result.Stderr = res.Stderr

	outcome := Classify(b, op, res.ExitCode)
	result.Error = outcome.Error
	result.Warning = outcome.Warning
	result.Message = outcome.Message

	ev := log.Info()
	switch {
	case outcome.Fatal:
		ev = log.Error()
	case outcome.Warning:
		ev = log.Warn()
	}
	ev.Str("backend", b.String()).Str("op", string(op)).Int("exit_code", res.ExitCode).Msg(outcome.Message)

	if outcome.Fatal {
		return errors.WithStack(&ExitError{
			Backend:  b,
			ExitCode: res.ExitCode,
			Message:  outcome.Message,
			Stderr:   strings.TrimSpace(res.Stderr),
		})
	}
	return nil
}

// archiveLine matches the line 7-Zip and RAR print before writing an archive.
var archiveLine = regexp.MustCompile(`(?mi)^(?:Creating|Updating) archive:?[ \t]+(.+?)[ \t\r]*$`)

// reportedArchivePath returns the archive path announced on stdout, if any.
func reportedArchivePath(stdout string) string {
	m := archiveLine.FindStringSubmatch(stdout)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
