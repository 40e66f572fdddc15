package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setHome points the home directory at a fresh temp dir.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "utf-8", cfg.ListFileEncoding)
	assert.NotEmpty(t, cfg.Zip.Exe)
	assert.NotEmpty(t, cfg.Zip.GUIExe)
	assert.NotEmpty(t, cfg.Rar.Exe)
	assert.NotEmpty(t, cfg.Rar.GUIExe)
	assert.Empty(t, cfg.Zip.InstallDir)
	assert.False(t, cfg.OutputsLog)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingConfig(t *testing.T) {
	setHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	def, _ := DefaultConfig()
	assert.Equal(t, def, cfg)
}

func TestLoadValidConfig(t *testing.T) {
	home := setHome(t)
	configDir := filepath.Join(home, ".arcwrap")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
zip:
  install_dir: /opt/7zip
  exe: 7zz
rar:
  gui_exe: winrar-gui
list_file_encoding: utf-16le
scratch_dir: ~/scratch
outputs_log: true
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/7zip", cfg.Zip.InstallDir)
	assert.Equal(t, "7zz", cfg.Zip.Exe)
	assert.NotEmpty(t, cfg.Zip.GUIExe, "unset keys keep defaults")
	assert.Equal(t, "winrar-gui", cfg.Rar.GUIExe)
	assert.Equal(t, "utf-16le", cfg.ListFileEncoding)
	assert.True(t, cfg.OutputsLog)

	ac, err := cfg.Archiver()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/7zip", "7zz"), ac.Zip.Executable(false))
	assert.Equal(t, filepath.Join(home, "scratch"), ac.ScratchDir)
	assert.True(t, ac.OutputsLog)
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("this: is: not: valid: yaml: [[["), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadInvalidEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("list_file_encoding: klingon\n"), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadReadFileError(t *testing.T) {
	// A directory where the file should be.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.MkdirAll(path, 0o755))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	home := setHome(t)

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Rar.InstallDir = "/opt/rar"
	cfg.OutputsLog = true
	require.NoError(t, cfg.Save())

	assert.FileExists(t, filepath.Join(home, ".arcwrap", "config.yaml"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestArchiverDefaults(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	ac, err := cfg.Archiver()
	require.NoError(t, err)
	if runtime.GOOS == "windows" {
		assert.Equal(t, `C:\Program Files\7-Zip\7z.exe`, ac.Zip.Executable(false))
		assert.Equal(t, `C:\Program Files\WinRAR\WinRAR.exe`, ac.Rar.Executable(true))
	} else {
		assert.Equal(t, "7z", ac.Zip.Executable(false))
		assert.Equal(t, "rar", ac.Rar.Executable(false))
	}
}

func TestExpandPath(t *testing.T) {
	home := setHome(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"~/code", filepath.Join(home, "code")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	home := setHome(t)
	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".arcwrap", "config.yaml"), path)
}
