// Package execproc provides a process runner adapter using exec.Command.
package execproc

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/mcdonaldj/arcwrap/internal/ports"
	"gitlab.com/tozd/go/errors"
)

// ExecProcessRunner implements ports.ProcessRunner using exec.Command.
type ExecProcessRunner struct {
	// lookPath resolves an executable name or path. Defaults to exec.LookPath.
	lookPath func(file string) (string, error)
}

// Option is a functional option for configuring ExecProcessRunner.
type Option func(*ExecProcessRunner)

// WithLookPath replaces the executable resolver.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(r *ExecProcessRunner) {
		r.lookPath = fn
	}
}

// New creates a new ExecProcessRunner adapter.
func New(opts ...Option) *ExecProcessRunner {
	r := &ExecProcessRunner{
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd, captures both output streams and waits for it to exit.
// A program that ran and exited non-zero is reported through the exit code,
// not the error; the error is only set when the program could not be launched.
func (r *ExecProcessRunner) Run(ctx context.Context, cmd ports.Command, opts ports.RunOptions) (ports.ProcessResult, error) {
	path, err := r.lookPath(cmd.Path)
	if err != nil {
		return ports.ProcessResult{}, errors.Errorf("locating %s: %w", cmd.Path, err)
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = &stdout
	c.Stderr = &stderr
	setProcAttr(c, opts.WindowStyle, false)

	err = c.Run()
	result := ports.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, errors.Errorf("starting %s: %w", path, err)
	}
	return result, nil
}

// Start launches cmd detached and returns as soon as the process exists.
// The child is reaped in the background so it never lingers as a zombie.
func (r *ExecProcessRunner) Start(ctx context.Context, cmd ports.Command, opts ports.RunOptions) error {
	path, err := r.lookPath(cmd.Path)
	if err != nil {
		return errors.Errorf("locating %s: %w", cmd.Path, err)
	}

	// Not CommandContext: the launched program must outlive ctx.
	c := exec.Command(path, cmd.Args...)
	c.Dir = cmd.Dir
	setProcAttr(c, opts.WindowStyle, true)

	if err := c.Start(); err != nil {
		return errors.Errorf("starting %s: %w", path, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

// Compile-time check that ExecProcessRunner implements ports.ProcessRunner.
var _ ports.ProcessRunner = (*ExecProcessRunner)(nil)
