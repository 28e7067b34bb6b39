package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jyang234/autopilot/internal/toolexec"
)

// Call records one invocation of FakeRunner.Run
type Call struct {
	Dir     string
	Timeout time.Duration
	Name    string
	Args    []string
}

// Handler produces the output of a faked command
type Handler func(call Call) (string, error)

// FakeRunner is a toolexec.Runner that serves canned responses
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

var _ toolexec.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a runner where no tool is installed
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]Handler)}
}

// On installs tool name with the given handler
func (f *FakeRunner) On(name string, h Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Returns installs tool name answering every call with stdout
func (f *FakeRunner) Returns(name, stdout string) *FakeRunner {
	return f.On(name, func(Call) (string, error) { return stdout, nil })
}

// Fails installs tool name exiting with the given status on every call
func (f *FakeRunner) Fails(name string, code int) *FakeRunner {
	return f.On(name, func(Call) (string, error) {
		return "", &toolexec.ExitError{Name: name, Code: code}
	})
}

// LookPath reports whether a handler is installed for name
func (f *FakeRunner) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.handlers[name]
	return ok
}

// Run records the call and dispatches it to the handler for name
func (f *FakeRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error) {
	call := Call{Dir: dir, Timeout: timeout, Name: name, Args: append([]string(nil), args...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.handlers[name]
	f.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", toolexec.ErrNotFound, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return h(call)
}

// Calls returns the recorded invocations of name, or all calls when name is empty
func (f *FakeRunner) Calls(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.calls {
		if name == "" || c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
