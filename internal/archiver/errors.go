package archiver

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConfig is wrapped by every ConfigError.
	ErrConfig = errors.Base("configuration error")
	// ErrInvalidArgument is returned by the list-file manager for unusable input.
	ErrInvalidArgument = errors.Base("invalid argument")
)

// ConfigError reports a request that cannot be turned into a command.
// It is returned before any process is started.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func configErrorf(field, format string, args ...any) error {
	return errors.WithStack(&ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// LaunchError reports that the archiver executable could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError reports a fatal exit code from the archiver.
type ExitError struct {
	Backend  Backend
	ExitCode int
	Message  string
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d: %s", e.Backend, e.ExitCode, e.Message)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}
