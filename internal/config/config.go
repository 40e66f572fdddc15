// Package config loads and saves the arcwrap YAML configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Tool locates one archiver. Empty fields fall back to built-in defaults.
type Tool struct {
	InstallDir string `yaml:"install_dir"`
	Exe        string `yaml:"exe"`
	GUIExe     string `yaml:"gui_exe"`
}

type Config struct {
	Zip              Tool   `yaml:"zip"`
	Rar              Tool   `yaml:"rar"`
	ListFileEncoding string `yaml:"list_file_encoding"`
	ScratchDir       string `yaml:"scratch_dir"`
	OutputsLog       bool   `yaml:"outputs_log"`
}

func DefaultConfig() (*Config, error) {
	def := archiver.DefaultConfig()
	return &Config{
		Zip:              Tool{Exe: def.Zip.Exe, GUIExe: def.Zip.GUIExe},
		Rar:              Tool{Exe: def.Rar.Exe, GUIExe: def.Rar.GUIExe},
		ListFileEncoding: def.ListFileEncoding,
	}, nil
}

// ConfigPath returns ~/.arcwrap/config.yaml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".arcwrap", "config.yaml"), nil
}

// Load reads the config from ConfigPath, using defaults when it is missing.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Keys absent from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, errors.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to ConfigPath.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail on first use.
func (c *Config) Validate() error {
	if _, err := archiver.LookupEncoding(c.ListFileEncoding); err != nil {
		return errors.Errorf("config: %w", err)
	}
	return nil
}

// Archiver converts the file config into an archiver.Config, filling unset
// fields from archiver.DefaultConfig and expanding ~ in paths.
func (c *Config) Archiver() (archiver.Config, error) {
	out := archiver.DefaultConfig()

	var err error
	if out.Zip, err = c.Zip.merge(out.Zip); err != nil {
		return archiver.Config{}, err
	}
	if out.Rar, err = c.Rar.merge(out.Rar); err != nil {
		return archiver.Config{}, err
	}
	if c.ListFileEncoding != "" {
		out.ListFileEncoding = c.ListFileEncoding
	}
	if out.ScratchDir, err = ExpandPath(c.ScratchDir); err != nil {
		return archiver.Config{}, err
	}
	out.OutputsLog = c.OutputsLog
	return out, nil
}

func (t Tool) merge(def archiver.ToolConfig) (archiver.ToolConfig, error) {
	if t.InstallDir != "" {
		dir, err := ExpandPath(t.InstallDir)
		if err != nil {
			return archiver.ToolConfig{}, err
		}
		def.InstallDir = dir
	}
	if t.Exe != "" {
		def.Exe = t.Exe
	}
	if t.GUIExe != "" {
		def.GUIExe = t.GUIExe
	}
	return def, nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("expanding %s: %w", path, err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
