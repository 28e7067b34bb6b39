// Package tasks defines the unit of work the gatherer produces and the atomic
// commit used to publish the generated task list.
//
// # Task Model
//
// A Task is an immutable value with three fields:
//
//   - Text: the rendered line content, e.g. "Fix login redirect (#42)".
//   - Source: the label of the source that produced it, e.g. "HANDOFF.md".
//   - Priority: one of critical, high, normal, low.
//
// Two tasks are duplicates when their trimmed, lower-cased Text matches.
// Source and Priority never take part in that comparison.
//
// # Persistence
//
// Commit writes content to a temporary file in the target's directory and
// renames it over the target, so readers see either the old document or the
// new one and never a partial write:
//
//	if err := tasks.Commit("/path/to/project/TASKS.md", content); err != nil {
//	    // previous TASKS.md is untouched
//	}
package tasks
