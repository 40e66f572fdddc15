// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mcdonaldj/arcwrap/internal/adapters/execproc"
	"github.com/mcdonaldj/arcwrap/internal/adapters/osfs"
	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"github.com/mcdonaldj/arcwrap/internal/config"
	"github.com/mcdonaldj/arcwrap/internal/detect"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() (string, error)
	DefaultConfig() (*config.Config, error)
}

// ArchiveService runs archive operations for the CLI.
type ArchiveService interface {
	Compress(ctx context.Context, req archiver.CompressRequest) (*archiver.OperationResult, error)
	Extract(ctx context.Context, req archiver.ExtractRequest) (*archiver.OperationResult, error)
	Test(ctx context.Context, req archiver.TestRequest) (*archiver.OperationResult, error)
	Open(ctx context.Context, req archiver.OpenRequest) error
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc  ConfigService
	ArchiveSvc ArchiveService
	// DetectBackend picks the backend for an existing archive.
	DetectBackend func(path string) archiver.Backend

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string

	noColorLog bool
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:        out,
		Err:        errOut,
		Version:    "test",
		Args:       args,
		Exit:       func(code int) {},
		green:      noColor,
		yellow:     noColor,
		cyan:       noColor,
		gray:       noColor,
		red:        noColor,
		noColorLog: true,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error)          { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error          { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() (string, error)            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() (*config.Config, error) { return config.DefaultConfig() }

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

// archiveSvc returns the injected service or builds an Archiver from the config file.
func (c *CLI) archiveSvc() (ArchiveService, error) {
	if c.ArchiveSvc != nil {
		return c.ArchiveSvc, nil
	}
	cfg, err := c.configSvc().Load()
	if err != nil {
		return nil, err
	}
	ac, err := cfg.Archiver()
	if err != nil {
		return nil, err
	}
	return archiver.New(ac, osfs.New(), execproc.New())
}

func (c *CLI) detectBackend(path string) archiver.Backend {
	if c.DetectBackend != nil {
		return c.DetectBackend(path)
	}
	return detect.Resolve(path)
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	root := c.rootCmd()
	if len(c.Args) > 1 {
		root.SetArgs(c.Args[1:])
	} else {
		root.SetArgs([]string{})
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error:"), err)
		c.Exit(1)
	}
}

type rootFlags struct {
	debug   bool
	verbose bool
}

func (c *CLI) rootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "arcwrap",
		Short: "Drive 7-Zip and RAR from the command line",
		Long: `arcwrap builds 7-Zip and RAR command lines from typed options, runs the
archiver once and reports whether it succeeded.

Config: ~/.arcwrap/config.yaml`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(c.logger(flags).WithContext(cmd.Context()))
		},
	}
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every archiver switch as it is added")

	root.AddCommand(
		c.compressCmd(flags),
		c.extractCmd(flags),
		c.testCmd(flags),
		c.openCmd(),
		c.initCmd(),
		c.versionCmd(),
	)
	return root
}

// logger writes human-readable logs to Err. Switch-by-switch logs only
// appear with --verbose or --debug.
func (c *CLI) logger(flags *rootFlags) zerolog.Logger {
	level := zerolog.WarnLevel
	if flags.verbose {
		level = zerolog.InfoLevel
	}
	if flags.debug {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: c.Err, NoColor: c.noColorLog, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
