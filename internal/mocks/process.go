package mocks

import (
	"context"

	"github.com/mcdonaldj/arcwrap/internal/ports"
)

// RunCall records parameters of a Run or Start call.
type RunCall struct {
	Command ports.Command
	Options ports.RunOptions
}

// MockProcessRunner implements ports.ProcessRunner for testing.
type MockProcessRunner struct {
	// RunCalls records calls to Run
	RunCalls []RunCall
	// StartCalls records calls to Start
	StartCalls []RunCall
	// Result is returned by every Run call
	Result ports.ProcessResult
	// Errors allows simulating launch failures
	Errors struct {
		Run   error
		Start error
	}
	// OnRun, when set, is invoked during Run before the result is returned.
	// Tests use it to inspect state that only exists while the process runs.
	OnRun func(cmd ports.Command)
}

// NewMockProcessRunner creates a new mock process runner that reports success.
func NewMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{}
}

// Run records the call and returns the configured result.
func (m *MockProcessRunner) Run(ctx context.Context, cmd ports.Command, opts ports.RunOptions) (ports.ProcessResult, error) {
	m.RunCalls = append(m.RunCalls, RunCall{Command: cmd, Options: opts})
	if m.OnRun != nil {
		m.OnRun(cmd)
	}
	if m.Errors.Run != nil {
		return ports.ProcessResult{}, m.Errors.Run
	}
	return m.Result, nil
}

// Start records the call.
func (m *MockProcessRunner) Start(ctx context.Context, cmd ports.Command, opts ports.RunOptions) error {
	m.StartCalls = append(m.StartCalls, RunCall{Command: cmd, Options: opts})
	return m.Errors.Start
}

// LastRun returns the most recent Run call, or the zero value.
func (m *MockProcessRunner) LastRun() RunCall {
	if len(m.RunCalls) == 0 {
		return RunCall{}
	}
	return m.RunCalls[len(m.RunCalls)-1]
}

// Compile-time check that MockProcessRunner implements ports.ProcessRunner.
var _ ports.ProcessRunner = (*MockProcessRunner)(nil)
