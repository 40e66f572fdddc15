package ports

import "context"

// WindowStyle selects how a launched program's window is shown.
// Only Windows honours it; other platforms ignore everything but Hidden.
type WindowStyle int

const (
	// WindowHidden runs the program without a visible window.
	WindowHidden WindowStyle = iota
	// WindowActiveDefault shows the window activated at its default size.
	WindowActiveDefault
	// WindowMinimized shows the window minimized and not activated.
	WindowMinimized
)

// String returns the name of the window style.
func (w WindowStyle) String() string {
	switch w {
	case WindowHidden:
		return "hidden"
	case WindowActiveDefault:
		return "active"
	case WindowMinimized:
		return "minimized"
	}
	return "unknown"
}

// Command is a fully composed program invocation.
type Command struct {
	Path string   // Executable path or name
	Args []string // Arguments, not including the program itself
	Dir  string   // Working directory of the child process, empty for the current one
}

// RunOptions configures how a Command is executed.
type RunOptions struct {
	WindowStyle WindowStyle
}

// ProcessResult is the outcome of a program that ran to completion.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessRunner abstracts child process execution for testability.
// Production code uses the execproc adapter; tests use MockProcessRunner.
type ProcessRunner interface {
	// Run executes cmd and waits for it to exit.
	// A non-zero exit code is not an error; the error return is reserved for
	// failures to launch the program at all.
	Run(ctx context.Context, cmd Command, opts RunOptions) (ProcessResult, error)

	// Start launches cmd detached from the caller and returns without waiting.
	Start(ctx context.Context, cmd Command, opts RunOptions) error
}
