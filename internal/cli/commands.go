package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcdonaldj/arcwrap/internal/archiver"
	"github.com/mcdonaldj/arcwrap/internal/detect"
	"github.com/mcdonaldj/arcwrap/internal/ports"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// commonFlags are shared by compress, extract and test.
type commonFlags struct {
	backend    string
	password   string
	exe        string
	workDir    string
	dateCode   string
	encoding   string
	dryRun     bool
	retainList bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.backend, "backend", "b", "auto", "archiver backend: zip, rar or auto")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "archive password")
	cmd.Flags().StringVar(&f.exe, "exe", "", "archiver executable, overriding the config")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "print the command line without running it")
	cmd.Flags().BoolVar(&f.retainList, "retain-lists", false, "keep temporary list files")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "list file encoding, e.g. utf-8 or windows-1252")
}

func (f *commonFlags) options(root *rootFlags) archiver.CommonOptions {
	return archiver.CommonOptions{
		ExecutablePath:   f.exe,
		WorkingDir:       f.workDir,
		Password:         f.password,
		DateCode:         f.dateCode,
		DryRun:           f.dryRun,
		OutputsLog:       root.verbose,
		RetainListFiles:  f.retainList,
		ListFileEncoding: f.encoding,
	}
}

// backendFor resolves the --backend flag. "auto" asks fallback.
func backendFor(flag string, fallback func() archiver.Backend) (archiver.Backend, error) {
	if strings.EqualFold(strings.TrimSpace(flag), "auto") || flag == "" {
		return fallback(), nil
	}
	return archiver.ParseBackend(flag)
}

type compressFlags struct {
	commonFlags
	output       string
	level        string
	excludes     []string
	update       string
	recurse      string
	gui          bool
	recovery     int
	priority     int
	noSolid      bool
	fullPaths    bool
	skipExisting bool
}

func (c *CLI) compressCmd(root *rootFlags) *cobra.Command {
	f := &compressFlags{}
	cmd := &cobra.Command{
		Use:   "compress <source>...",
		Short: "Create or update an archive",
		Long: `Create or update an archive from files, directories or wildcards.

Without --output the archive is named after the sources. A date code such as
yyyyMMdd-HHmmss is spliced into the name before the extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFor(f.backend, func() archiver.Backend {
				if f.output != "" {
					return detect.ByExtension(f.output)
				}
				return archiver.Zip
			})
			if err != nil {
				return err
			}

			req := archiver.CompressRequest{
				Backend:     backend,
				Sources:     args,
				Destination: f.output,
				Common:      f.options(root),
			}
			switch backend {
			case archiver.Rar:
				opts := archiver.DefaultRarOptions()
				opts.Level = archiver.Level(f.level)
				opts.Excludes = f.excludes
				opts.UpdateMode = archiver.UpdateMode(f.update)
				opts.Recursion = archiver.Recursion(f.recurse)
				opts.RecoveryPercent = f.recovery
				opts.CPUPriority = f.priority
				opts.Solid = !f.noSolid
				opts.FullPaths = f.fullPaths
				opts.SkipExisting = f.skipExisting
				opts.UseGUI = f.gui
				req.Rar = &opts
			default:
				opts := archiver.DefaultZipOptions()
				opts.Level = archiver.Level(f.level)
				opts.Excludes = f.excludes
				opts.UpdateMode = archiver.UpdateMode(f.update)
				opts.Recursion = archiver.Recursion(f.recurse)
				req.Zip = &opts
			}

			svc, err := c.archiveSvc()
			if err != nil {
				return err
			}
			result, err := svc.Compress(cmd.Context(), req)
			return c.report("compress", result, err)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "archive path or name hint")
	cmd.Flags().StringVarP(&f.level, "level", "l", "normal", "store, fastest, fast, normal, maximum, ultra or a number")
	cmd.Flags().StringArrayVarP(&f.excludes, "exclude", "x", nil, "exclude pattern (repeatable)")
	cmd.Flags().StringVar(&f.update, "update", "sync", "update mode: sync, add or mirror")
	cmd.Flags().StringVar(&f.recurse, "recurse", "wildcard", "recursion: all, none or wildcard")
	cmd.Flags().StringVar(&f.dateCode, "date-code", "", "date code spliced into the archive name")
	cmd.Flags().StringVarP(&f.workDir, "workdir", "w", "", "archiver work directory")
	cmd.Flags().BoolVar(&f.gui, "gui", false, "run WinRAR instead of the console Rar")
	cmd.Flags().IntVar(&f.recovery, "recovery", 0, "RAR recovery record percent (1-100)")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "RAR CPU priority (1-15)")
	cmd.Flags().BoolVar(&f.noSolid, "no-solid", false, "RAR: create a non-solid archive")
	cmd.Flags().BoolVar(&f.fullPaths, "full-paths", false, "RAR: store full paths")
	cmd.Flags().BoolVar(&f.skipExisting, "skip-existing", false, "RAR: skip files already in the archive")
	return cmd
}

type extractFlags struct {
	commonFlags
	output  string
	nameDir bool
}

func (c *CLI) extractCmd(root *rootFlags) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFor(f.backend, func() archiver.Backend { return c.detectBackend(args[0]) })
			if err != nil {
				return err
			}
			svc, err := c.archiveSvc()
			if err != nil {
				return err
			}
			result, err := svc.Extract(cmd.Context(), archiver.ExtractRequest{
				Backend:             backend,
				Archive:             args[0],
				DestinationDir:      f.output,
				MakesArchiveNameDir: f.nameDir,
				Common:              f.options(root),
			})
			return c.report("extract", result, err)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "destination directory (default: next to the archive)")
	cmd.Flags().BoolVar(&f.nameDir, "name-dir", false, "extract into a directory named after the archive")
	return cmd
}

func (c *CLI) testCmd(root *rootFlags) *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "test <archive>",
		Short: "Test archive integrity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFor(f.backend, func() archiver.Backend { return c.detectBackend(args[0]) })
			if err != nil {
				return err
			}
			svc, err := c.archiveSvc()
			if err != nil {
				return err
			}
			result, err := svc.Test(cmd.Context(), archiver.TestRequest{
				Backend: backend,
				Archive: args[0],
				Common:  f.options(root),
			})
			return c.report("test", result, err)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) openCmd() *cobra.Command {
	var backend, exe string
	var minimized bool
	cmd := &cobra.Command{
		Use:   "open <archive>",
		Short: "Open an archive in the archiver's GUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backendFor(backend, func() archiver.Backend { return c.detectBackend(args[0]) })
			if err != nil {
				return err
			}
			svc, err := c.archiveSvc()
			if err != nil {
				return err
			}
			style := ports.WindowActiveDefault
			if minimized {
				style = ports.WindowMinimized
			}
			if err := svc.Open(cmd.Context(), archiver.OpenRequest{
				Backend:        b,
				Archive:        args[0],
				ExecutablePath: exe,
				WindowStyle:    style,
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "%s Opened %s\n", c.cyan("=>"), args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&backend, "backend", "b", "auto", "archiver backend: zip, rar or auto")
	cmd.Flags().StringVar(&exe, "exe", "", "GUI executable, overriding the config")
	cmd.Flags().BoolVar(&minimized, "minimized", false, "start the GUI minimized")
	return cmd
}

func (c *CLI) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.configSvc()
			cfg, err := svc.DefaultConfig()
			if err != nil {
				return err
			}
			if err := svc.Save(cfg); err != nil {
				return errors.Errorf("saving config: %w", err)
			}
			path, err := svc.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "Created config at %s\n", path)
			return nil
		},
	}
}

func (c *CLI) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.Out, "arcwrap v%s\n", c.Version)
		},
	}
}

// report prints a one-line summary of result. A dry run prints the command
// line instead. A fatal result is returned as an error.
func (c *CLI) report(op string, result *archiver.OperationResult, err error) error {
	if result == nil {
		return err
	}
	if result.DryRun {
		fmt.Fprintln(c.Out, result.Command)
		for _, l := range result.ListFiles {
			fmt.Fprintf(c.Out, "  %s %s\n", c.gray("list"), c.gray(l))
		}
		return err
	}
	if err != nil {
		return err
	}

	target := result.ArchivePath
	if op == "extract" {
		target = result.DestinationDir
	}
	if result.Warning {
		fmt.Fprintf(c.Out, "  %s %s %s %s\n", c.yellow("!"), op, filepath.Clean(target), c.yellow("("+result.Message+")"))
		return nil
	}
	fmt.Fprintf(c.Out, "  %s %s %s", c.green("*"), op, filepath.Clean(target))
	if result.ExitCode != 0 {
		fmt.Fprintf(c.Out, " %s", c.gray("("+result.Message+")"))
	}
	fmt.Fprintln(c.Out)
	return nil
}
