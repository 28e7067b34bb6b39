package gather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/labels"
	"github.com/jyang234/autopilot/internal/tasks"
	"github.com/jyang234/autopilot/internal/toolexec"
)

const (
	githubLabel = "GitHub Issues"
	bugLabel    = "bug"

	maxContextRunes = 100
)

// ErrNoMatchingIssues is wrapped by the skip returned when a label filter
// matched no open issue.
var ErrNoMatchingIssues = errors.New("no issues matched the label filter")

// NoMatchHint tells the user how to drop the label filter
const NoMatchHint = "set labels: [] in .autopilot.yml to fetch all issues"

type ghLabel struct {
	Name string `json:"name"`
}

type ghIssue struct {
	Number *int      `json:"number"`
	Title  *string   `json:"title"`
	Labels []ghLabel `json:"labels"`
	Body   string    `json:"body"`
}

// GitHubIssues lists open issues through the gh CLI
type GitHubIssues struct {
	runner toolexec.Runner
	logger *zap.Logger
}

// NewGitHubIssues creates the issue tracker gatherer
func NewGitHubIssues(runner toolexec.Runner, logger *zap.Logger) *GitHubIssues {
	return &GitHubIssues{runner: runner, logger: logger}
}

func (g *GitHubIssues) Name() string { return config.SourceGitHubIssues }

func (g *GitHubIssues) Description() string {
	return "Open GitHub issues via the gh CLI"
}

func (g *GitHubIssues) Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error) {
	if !g.runner.LookPath("gh") {
		return nil, skip(g.Name(), "gh CLI not available", nil)
	}

	inside, err := g.runner.Run(ctx, root, toolexec.CheckTimeout, "git", "rev-parse", "--is-inside-work-tree")
	if err != nil || inside != "true" {
		return nil, skip(g.Name(), "not a git repository", err)
	}

	sc := cfg.Source(g.Name())
	wanted := labels.SanitizeAll(sc.Labels)
	excluded := labels.SanitizeAll(sc.ExcludeLabels)

	args := []string{
		"issue", "list",
		"--state", "open",
		"--limit", strconv.Itoa(sc.Limit(config.MaxIssuesLimit)),
		"--json", "number,title,labels,body",
	}
	if len(wanted) > 0 {
		args = append(args, "--label", strings.Join(wanted, ","))
	}

	out, err := g.runner.Run(ctx, root, toolexec.NetworkTimeout, "gh", args...)
	if err != nil {
		return nil, skip(g.Name(), "could not fetch issues", err)
	}

	var issues []ghIssue
	if strings.TrimSpace(out) != "" {
		if err := json.Unmarshal([]byte(out), &issues); err != nil {
			return nil, skip(g.Name(), "could not parse issues response", err)
		}
	}

	if len(issues) == 0 && len(wanted) > 0 {
		return nil, &SkipError{
			Source: g.Name(),
			Reason: "no issues found with labels: " + strings.Join(wanted, ", "),
			Hint:   NoMatchHint,
			Err:    ErrNoMatchingIssues,
		}
	}

	var result []tasks.Task
	for _, issue := range issues {
		names := issue.labelNames()
		if containsAny(names, excluded) {
			continue
		}

		priority := tasks.PriorityHigh
		if slices.Contains(names, bugLabel) {
			priority = tasks.PriorityCritical
		}
		result = append(result, tasks.New(issue.text(), githubLabel, priority))
	}

	g.logger.Debug("fetched issues", zap.Int("issues", len(issues)), zap.Int("tasks", len(result)))
	return result, nil
}

func (i ghIssue) labelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// text formats "{title} (#{number})" with the first body line as context
func (i ghIssue) text() string {
	title := "Untitled"
	if i.Title != nil {
		title = *i.Title
	}
	number := "?"
	if i.Number != nil {
		number = strconv.Itoa(*i.Number)
	}

	text := fmt.Sprintf("%s (#%s)", title, number)

	body := strings.TrimSpace(i.Body)
	if body == "" {
		return text
	}
	first := strings.SplitN(body, "\n", 2)[0]
	if r := []rune(first); len(r) > maxContextRunes {
		first = string(r[:maxContextRunes])
	}
	if first != "" && first != title {
		text += " - " + first
	}
	return text
}

func containsAny(list, candidates []string) bool {
	for _, c := range candidates {
		if slices.Contains(list, c) {
			return true
		}
	}
	return false
}
