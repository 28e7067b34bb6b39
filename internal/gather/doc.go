// Package gather extracts tasks from the sources a project keeps its work in.
//
// Every source implements Gatherer. A Registry maps configured source names to
// gatherers and runs them one after another in the configured priority order:
//
//	reg := gather.NewDefaultRegistry(toolexec.NewExecRunner(), logger)
//	results := reg.Run(ctx, projectRoot, cfg, nil)
//	all := gather.Flatten(results)
//
// # Built-in Sources
//
//   - github_issues: open issues via the gh CLI, filtered by label.
//   - handoff: warnings and open checklist items in HANDOFF.md.
//   - roadmap: open checklist items in roadmap files, annotated with section.
//   - todos: TODO/FIXME/HACK/XXX comments found with grep.
//   - custom: open checklist items in arbitrary files.
//
// # Failure Model
//
// A source that cannot be read (missing tool, missing file, not a git
// repository, timeout, unparseable response) returns a *SkipError and no
// tasks. Any other error, including a panic, is logged by the registry and
// counted as zero tasks. No source can stop the others from running.
package gather
