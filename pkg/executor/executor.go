package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// maxStderr bounds how much stderr a streaming process keeps for error messages.
const maxStderr = 16 * 1024

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(name, err, stderr.String())
	}

	return stdout.String(), nil
}

// Start launches the command and hands its stdout back as a stream.
func (e *implExecutor) Start(ctx context.Context, stdin io.Reader, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("command '%s' stdout: %w", name, err)
	}
	stderr := &tailBuffer{limit: maxStderr}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command '%s' failed to start: %w", name, err)
	}

	return &process{name: name, cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type process struct {
	name   string
	cmd    *exec.Cmd
	stdout io.Reader
	stderr *tailBuffer
	once   sync.Once
	err    error
}

func (p *process) Stdout() io.Reader {
	return p.stdout
}

func (p *process) Wait() error {
	p.once.Do(func() {
		if err := p.cmd.Wait(); err != nil {
			p.err = commandError(p.name, err, p.stderr.String())
		}
	})
	return p.err
}

func commandError(name string, err error, stderr string) error {
	// Include stderr in error message for debugging
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderr)
	}
	return fmt.Errorf("command '%s' failed: %w", name, err)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
