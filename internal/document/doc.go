// Package document builds the TASKS.md task list.
//
// A run reads the checked items of the previous document, drops newly
// gathered tasks that match one of them, groups the rest by priority and
// renders the result:
//
//	# Tasks
//	# Auto-generated by Autopilot on 2025-01-24 09:30
//	# Sources: GitHub Issues, HANDOFF.md
//
//	## Completed
//	- [x] Ship v1
//
//	## Critical (from GitHub Issues)
//	- [ ] Crash on empty config (#12)
//
//	## High Priority
//	- [ ] Add dark mode (#15) [GitHub Issues]
//	- [ ] [HANDOFF WARNING] Don't touch legacy API [HANDOFF.md]
//
//	---
//	*Format: `- [ ]` = pending, `- [x]` = done, `- [?]` = blocked*
//
// A bucket fed by a single source names it in the heading; a mixed bucket
// tags each line instead. Completed lines are carried over unchanged, so
// regenerating a document never loses finished work.
package document
