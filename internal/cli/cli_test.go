package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"github.com/mcdonaldj/arcwrap/internal/config"
	"github.com/mcdonaldj/arcwrap/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// ============================================================================
// Mock implementations for testing
// ============================================================================

// mockConfigService implements ConfigService for testing.
type mockConfigService struct {
	config        *config.Config
	loadErr       error
	saveErr       error
	saved         *config.Config
	configPath    string
	configPathErr error
	defaultCfgErr error
}

func newMockConfigService() *mockConfigService {
	cfg, _ := config.DefaultConfig()
	return &mockConfigService{
		config:     cfg,
		configPath: "/test/.arcwrap/config.yaml",
	}
}

func (m *mockConfigService) Load() (*config.Config, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.config, nil
}

func (m *mockConfigService) Save(cfg *config.Config) error {
	m.saved = cfg
	return m.saveErr
}

func (m *mockConfigService) ConfigPath() (string, error) {
	if m.configPathErr != nil {
		return "", m.configPathErr
	}
	return m.configPath, nil
}

func (m *mockConfigService) DefaultConfig() (*config.Config, error) {
	if m.defaultCfgErr != nil {
		return nil, m.defaultCfgErr
	}
	return m.config, nil
}

// mockArchiveService implements ArchiveService for testing.
type mockArchiveService struct {
	compressReq *archiver.CompressRequest
	extractReq  *archiver.ExtractRequest
	testReq     *archiver.TestRequest
	openReq     *archiver.OpenRequest

	result  *archiver.OperationResult
	err     error
	openErr error
	hasLog  bool
}

func newMockArchiveService() *mockArchiveService {
	return &mockArchiveService{
		result: &archiver.OperationResult{
			Command:        "7z a out.zip src",
			ArchivePath:    "/work/out.zip",
			DestinationDir: "/work/out",
			Message:        "no error",
		},
	}
}

func (m *mockArchiveService) seeLogger(ctx context.Context) {
	m.hasLog = zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled
}

func (m *mockArchiveService) Compress(ctx context.Context, req archiver.CompressRequest) (*archiver.OperationResult, error) {
	m.seeLogger(ctx)
	m.compressReq = &req
	return m.result, m.err
}

func (m *mockArchiveService) Extract(ctx context.Context, req archiver.ExtractRequest) (*archiver.OperationResult, error) {
	m.extractReq = &req
	return m.result, m.err
}

func (m *mockArchiveService) Test(ctx context.Context, req archiver.TestRequest) (*archiver.OperationResult, error) {
	m.testReq = &req
	return m.result, m.err
}

func (m *mockArchiveService) Open(ctx context.Context, req archiver.OpenRequest) error {
	m.openReq = &req
	return m.openErr
}

// ============================================================================
// Test helpers
// ============================================================================

// testCLI wraps CLI with captured output and exit code.
type testCLI struct {
	*CLI
	out        *bytes.Buffer
	errOut     *bytes.Buffer
	exitCode   int
	exitCalled bool
	cfgSvc     *mockConfigService
	arcSvc     *mockArchiveService
}

func newTestCLI(args ...string) *testCLI {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	tc := &testCLI{
		out:    out,
		errOut: errOut,
		cfgSvc: newMockConfigService(),
		arcSvc: newMockArchiveService(),
	}
	tc.CLI = NewForTesting(out, errOut, append([]string{"arcwrap"}, args...))
	tc.CLI.Exit = func(code int) {
		tc.exitCode = code
		tc.exitCalled = true
	}
	tc.CLI.ConfigSvc = tc.cfgSvc
	tc.CLI.ArchiveSvc = tc.arcSvc
	tc.CLI.DetectBackend = func(string) archiver.Backend { return archiver.Rar }
	return tc
}

// ============================================================================
// Basic commands
// ============================================================================

func TestVersion(t *testing.T) {
	tc := newTestCLI("version")
	tc.Version = "1.2.3"
	tc.Run()

	assert.False(t, tc.exitCalled)
	assert.Equal(t, "arcwrap v1.2.3\n", tc.out.String())
}

func TestHelp(t *testing.T) {
	tc := newTestCLI("--help")
	tc.Run()

	assert.False(t, tc.exitCalled)
	for _, cmd := range []string{"compress", "extract", "test", "open", "init", "version"} {
		assert.Contains(t, tc.out.String(), cmd)
	}
}

func TestNoCommand(t *testing.T) {
	tc := newTestCLI()
	tc.Run()

	assert.False(t, tc.exitCalled)
	assert.Contains(t, tc.out.String(), "Usage:")
}

func TestUnknownCommand(t *testing.T) {
	tc := newTestCLI("bogus")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Equal(t, 1, tc.exitCode)
	assert.Contains(t, tc.errOut.String(), "Error:")
	assert.Contains(t, tc.errOut.String(), "bogus")
}

func TestCLINew(t *testing.T) {
	c := New("9.9.9")
	assert.Equal(t, "9.9.9", c.Version)
	assert.NotNil(t, c.Out)
	assert.NotNil(t, c.Err)
	assert.NotNil(t, c.Exit)
	assert.NotNil(t, c.green)
	assert.NotNil(t, c.red)
}

func TestNewForTesting(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewForTesting(out, out, []string{"arcwrap"})
	assert.Equal(t, "test", c.Version)
	assert.Equal(t, "plain", c.green("plain"))
	assert.Equal(t, "a1", c.yellow("a", 1))
	assert.NotPanics(t, func() { c.Exit(3) })
}

// ============================================================================
// init
// ============================================================================

func TestInitConfigSuccess(t *testing.T) {
	tc := newTestCLI("init")
	tc.Run()

	assert.False(t, tc.exitCalled)
	assert.Same(t, tc.cfgSvc.config, tc.cfgSvc.saved)
	assert.Contains(t, tc.out.String(), "Created config at /test/.arcwrap/config.yaml")
}

func TestInitConfigSaveError(t *testing.T) {
	tc := newTestCLI("init")
	tc.cfgSvc.saveErr = errors.New("disk full")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Contains(t, tc.errOut.String(), "saving config: disk full")
}

// ============================================================================
// compress
// ============================================================================

func TestCompressZipDefaults(t *testing.T) {
	tc := newTestCLI("compress", "src", "docs")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	req := tc.arcSvc.compressReq
	require.NotNil(t, req)
	assert.Equal(t, archiver.Zip, req.Backend)
	assert.Equal(t, []string{"src", "docs"}, req.Sources)
	assert.Empty(t, req.Destination)
	require.NotNil(t, req.Zip)
	assert.Nil(t, req.Rar)
	assert.Equal(t, archiver.Level("normal"), req.Zip.Level)
	assert.Equal(t, archiver.UpdateSync, req.Zip.UpdateMode)
	assert.Equal(t, archiver.RecurseWildcard, req.Zip.Recursion)
	assert.True(t, req.Zip.SharedFiles)
	assert.Contains(t, tc.out.String(), "* compress /work/out.zip")
}

func TestCompressBackendFromOutputExtension(t *testing.T) {
	tc := newTestCLI("compress", "src", "-o", "backup.rar", "--recovery", "3", "--no-solid", "-x", "*.tmp", "-x", "*.bak")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	req := tc.arcSvc.compressReq
	require.NotNil(t, req)
	assert.Equal(t, archiver.Rar, req.Backend)
	require.NotNil(t, req.Rar)
	assert.Equal(t, 3, req.Rar.RecoveryPercent)
	assert.False(t, req.Rar.Solid)
	assert.True(t, req.Rar.NTFSStreams)
	assert.Equal(t, []string{"*.tmp", "*.bak"}, req.Rar.Excludes)
	assert.Equal(t, "backup.rar", req.Destination)
}

func TestCompressCommonOptions(t *testing.T) {
	tc := newTestCLI("-v", "compress", "src", "--backend", "zip", "-p", "secret",
		"--date-code", "yyyyMMdd", "-w", "/tmp/work", "--retain-lists", "--encoding", "utf-16le", "--exe", "/usr/bin/7zz")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	c := tc.arcSvc.compressReq.Common
	assert.Equal(t, archiver.CommonOptions{
		ExecutablePath:   "/usr/bin/7zz",
		WorkingDir:       "/tmp/work",
		Password:         "secret",
		DateCode:         "yyyyMMdd",
		OutputsLog:       true,
		RetainListFiles:  true,
		ListFileEncoding: "utf-16le",
	}, c)
}

func TestCompressDryRunPrintsCommand(t *testing.T) {
	tc := newTestCLI("compress", "src", "--dry-run")
	tc.arcSvc.result = &archiver.OperationResult{
		Command:   "7z u -tzip out.zip @/tmp/arcwrap-src-0a1b2c3d4e5f.txt",
		DryRun:    true,
		ListFiles: []string{"/tmp/arcwrap-src-0a1b2c3d4e5f.txt"},
	}
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	assert.True(t, tc.arcSvc.compressReq.Common.DryRun)
	assert.Contains(t, tc.out.String(), "7z u -tzip out.zip @/tmp/arcwrap-src-0a1b2c3d4e5f.txt\n")
	assert.Contains(t, tc.out.String(), "list /tmp/arcwrap-src-0a1b2c3d4e5f.txt")
}

func TestCompressWarning(t *testing.T) {
	tc := newTestCLI("compress", "src")
	tc.arcSvc.result.Warning = true
	tc.arcSvc.result.ExitCode = 1
	tc.arcSvc.result.Message = "some files could not be read"
	tc.Run()

	assert.False(t, tc.exitCalled)
	assert.Contains(t, tc.out.String(), "! compress /work/out.zip (some files could not be read)")
}

func TestCompressFatalExit(t *testing.T) {
	tc := newTestCLI("compress", "src")
	tc.arcSvc.result.Error = true
	tc.arcSvc.result.ExitCode = 2
	tc.arcSvc.err = &archiver.ExitError{Backend: archiver.Zip, ExitCode: 2, Message: "fatal error"}
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Equal(t, 1, tc.exitCode)
	assert.Contains(t, tc.errOut.String(), "zip exited with code 2: fatal error")
	assert.NotContains(t, tc.out.String(), "*")
}

func TestCompressInvalidBackend(t *testing.T) {
	tc := newTestCLI("compress", "src", "--backend", "tar")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Nil(t, tc.arcSvc.compressReq)
	assert.Contains(t, tc.errOut.String(), "backend")
}

func TestCompressRequiresSource(t *testing.T) {
	tc := newTestCLI("compress")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Nil(t, tc.arcSvc.compressReq)
}

func TestCompressAttachesLogger(t *testing.T) {
	tc := newTestCLI("compress", "src")
	tc.Run()

	assert.True(t, tc.arcSvc.hasLog)
}

// ============================================================================
// extract, test, open
// ============================================================================

func TestExtractDetectsBackend(t *testing.T) {
	tc := newTestCLI("extract", "data.bin", "-o", "out", "--name-dir", "-p", "pw")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	req := tc.arcSvc.extractReq
	require.NotNil(t, req)
	assert.Equal(t, archiver.Rar, req.Backend)
	assert.Equal(t, "data.bin", req.Archive)
	assert.Equal(t, "out", req.DestinationDir)
	assert.True(t, req.MakesArchiveNameDir)
	assert.Equal(t, "pw", req.Common.Password)
	assert.Contains(t, tc.out.String(), "* extract /work/out")
}

func TestExtractExplicitBackend(t *testing.T) {
	tc := newTestCLI("extract", "data.rar", "--backend", "7z")
	tc.Run()

	require.NotNil(t, tc.arcSvc.extractReq)
	assert.Equal(t, archiver.Zip, tc.arcSvc.extractReq.Backend)
}

func TestTestCommand(t *testing.T) {
	tc := newTestCLI("test", "data.zip", "--backend", "zip")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	require.NotNil(t, tc.arcSvc.testReq)
	assert.Equal(t, "data.zip", tc.arcSvc.testReq.Archive)
	assert.Contains(t, tc.out.String(), "* test /work/out.zip")
}

func TestTestRequiresArchive(t *testing.T) {
	tc := newTestCLI("test")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Nil(t, tc.arcSvc.testReq)
}

func TestOpenCommand(t *testing.T) {
	tc := newTestCLI("open", "data.zip", "--minimized", "--exe", "/opt/7zFM")
	tc.Run()

	require.False(t, tc.exitCalled, tc.errOut.String())
	req := tc.arcSvc.openReq
	require.NotNil(t, req)
	assert.Equal(t, archiver.Rar, req.Backend)
	assert.Equal(t, ports.WindowMinimized, req.WindowStyle)
	assert.Equal(t, "/opt/7zFM", req.ExecutablePath)
	assert.Contains(t, tc.out.String(), "Opened data.zip")
}

func TestOpenLaunchError(t *testing.T) {
	tc := newTestCLI("open", "data.zip")
	tc.arcSvc.openErr = &archiver.LaunchError{Path: "/opt/7zFM", Err: errors.New("not found")}
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Equal(t, ports.WindowActiveDefault, tc.arcSvc.openReq.WindowStyle)
}

// ============================================================================
// Service fallbacks
// ============================================================================

func TestDefaultServiceFallbacks(t *testing.T) {
	c := NewForTesting(&bytes.Buffer{}, &bytes.Buffer{}, []string{"arcwrap"})
	assert.IsType(t, &defaultConfigService{}, c.configSvc())

	cfgSvc := newMockConfigService()
	c.ConfigSvc = cfgSvc
	svc, err := c.archiveSvc()
	require.NoError(t, err)
	assert.IsType(t, &archiver.Archiver{}, svc)
}

func TestArchiveServiceConfigLoadError(t *testing.T) {
	tc := newTestCLI("compress", "src")
	tc.CLI.ArchiveSvc = nil
	tc.cfgSvc.loadErr = errors.New("bad yaml")
	tc.Run()

	assert.True(t, tc.exitCalled)
	assert.Contains(t, tc.errOut.String(), "bad yaml")
}
