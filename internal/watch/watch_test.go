package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPlanFor(t *testing.T) {
	t.Parallel()
	p := testutil.SetupProject(t)

	cfg := config.Default()
	cfg.Sources[config.SourceCustom] = config.SourceConfig{Enabled: true, Files: []string{"notes.md", "../escape.md"}}

	plan := PlanFor(p.Root, cfg, "", p.Path("TASKS.md"))

	assert.Equal(t, []string{
		p.Path(".autopilot.yml"),
		p.Path("HANDOFF.md"),
		p.Path("ROADMAP.md"),
		p.Path(".claude/context.md"),
		p.Path("notes.md"),
	}, plan.Files)
	assert.Equal(t, []string{p.Path("src"), p.Path("lib"), p.Path("app")}, plan.Trees)
	assert.Equal(t, []string{"node_modules", "vendor", ".git", "dist", "build"}, plan.Exclude)
	assert.Equal(t, []string{p.Path("TASKS.md")}, plan.Ignore)
}

func TestPlanForSkipsDisabledSources(t *testing.T) {
	t.Parallel()
	p := testutil.SetupProject(t)

	cfg := config.Default()
	for _, name := range []string{config.SourceHandoff, config.SourceRoadmap, config.SourceTodos} {
		sc := cfg.Sources[name]
		sc.Enabled = false
		cfg.Sources[name] = sc
	}

	plan := PlanFor(p.Root, cfg, "", p.Path("TASKS.md"))
	assert.Equal(t, []string{p.Path(".autopilot.yml")}, plan.Files)
	assert.Empty(t, plan.Trees)
}

func TestRelevant(t *testing.T) {
	t.Parallel()
	p := testutil.SetupProject(t)

	w := &Watcher{plan: Plan{
		Root:    p.Root,
		Files:   []string{p.Path("HANDOFF.md")},
		Trees:   []string{p.Path("src")},
		Exclude: []string{"node_modules"},
		Ignore:  []string{p.Path("TASKS.md")},
	}}

	assert.True(t, w.relevant(p.Path("HANDOFF.md")))
	assert.True(t, w.relevant(p.Path("src/pkg/a.go")))
	assert.False(t, w.relevant(p.Path("TASKS.md")))
	assert.False(t, w.relevant(p.Path(".autopilot_123.tmp")))
	assert.False(t, w.relevant(p.Path("README.md")))
	assert.False(t, w.relevant(p.Path("src/node_modules/dep.js")))
	assert.False(t, w.relevant(p.Path("srcfoo/a.go")))
}

func TestHandleEventIgnoresChmod(t *testing.T) {
	t.Parallel()
	p := testutil.SetupProject(t)

	w := &Watcher{logger: zap.NewNop(), plan: Plan{Files: []string{p.Path("HANDOFF.md")}}}
	assert.False(t, w.handleEvent(fsnotify.Event{Name: p.Path("HANDOFF.md"), Op: fsnotify.Chmod}))
	assert.True(t, w.handleEvent(fsnotify.Event{Name: p.Path("HANDOFF.md"), Op: fsnotify.Write}))
}

func startWatcher(t *testing.T, p *testutil.Project) (*int32, context.CancelFunc, *sync.WaitGroup) {
	t.Helper()

	w, err := New(zap.NewNop())
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond

	plan := PlanFor(p.Root, config.Default(), "", p.Path("TASKS.md"))
	var runs int32

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx, func(context.Context) (Plan, error) {
			atomic.AddInt32(&runs, 1)
			return plan, nil
		})
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, 2*time.Second, 10*time.Millisecond)
	return &runs, cancel, &wg
}

func TestRunRerunsOnInputChange(t *testing.T) {
	p := testutil.SetupProject(t)
	p.CreateFile("src/main.go", "package main\n")

	runs, cancel, wg := startWatcher(t, p)
	defer wg.Wait()
	defer cancel()

	// A burst of writes collapses into one run
	for i := 0; i < 5; i++ {
		p.CreateFile("HANDOFF.md", "- [ ] item\n")
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(runs) == 2 }, 3*time.Second, 10*time.Millisecond)

	p.CreateFile("src/main.go", "package main\n// TODO: more\n")
	require.Eventually(t, func() bool { return atomic.LoadInt32(runs) == 3 }, 3*time.Second, 10*time.Millisecond)
}

func TestRunIgnoresOwnOutput(t *testing.T) {
	p := testutil.SetupProject(t)

	runs, cancel, wg := startWatcher(t, p)
	defer wg.Wait()
	defer cancel()

	p.CreateFile("TASKS.md", "# Tasks\n")
	p.CreateFile(".autopilot_999.tmp", "scratch")
	require.NoError(t, os.Rename(p.Path(".autopilot_999.tmp"), filepath.Join(p.Root, "TASKS.md")))
	p.CreateFile("unrelated.txt", "x")

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(runs))
}

func TestRunStopsOnCancel(t *testing.T) {
	p := testutil.SetupProject(t)

	_, cancel, wg := startWatcher(t, p)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
