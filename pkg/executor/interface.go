package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-running command whose stdout is consumed as a stream.
	// stdin may be nil.
	Start(ctx context.Context, stdin io.Reader, name string, args ...string) (Process, error)
}

// Process is a started command.
type Process interface {
	// Stdout is the command's standard output. Read it to EOF before Wait.
	Stdout() io.Reader
	// Wait blocks until the command exits. The error includes captured stderr.
	Wait() error
}
