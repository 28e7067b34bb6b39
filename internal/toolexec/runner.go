// Package toolexec runs external command-line tools with an argument vector
// (never a shell) and a hard timeout per invocation.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Default timeouts per class of external call
const (
	SearchTimeout  = 15 * time.Second
	NetworkTimeout = 30 * time.Second
	CheckTimeout   = 10 * time.Second
)

var (
	// ErrNotFound is returned when the executable is not on PATH
	ErrNotFound = errors.New("executable not found")

	// ErrTimeout is returned when the call outlives its timeout
	ErrTimeout = errors.New("command timed out")
)

// ExitError reports a command that ran but exited non-zero
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Runner executes external tools
type Runner interface {
	// LookPath reports whether name resolves to an executable
	LookPath(name string) bool

	// Run executes name with args in dir and returns trimmed stdout
	Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error)
}

// ExecRunner runs real processes via os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// LookPath reports whether name is on PATH
func (r *ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes the command and maps failures onto ErrNotFound, ErrTimeout or *ExitError
func (r *ExecRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(stdout.String()), &ExitError{
			Name:   name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	return "", fmt.Errorf("failed to run %s: %w", name, err)
}

// ExitCode returns the exit status carried by err, or -1 when err is not an *ExitError
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
