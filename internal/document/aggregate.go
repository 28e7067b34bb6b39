package document

import (
	"github.com/jyang234/autopilot/internal/tasks"
)

// Buckets holds the pending tasks of one document grouped by priority
type Buckets struct {
	Completed  []string
	Pending    map[tasks.Priority][]tasks.Task
	AllSources []string // Sorted distinct sources of every gathered task
}

// Aggregate drops tasks matching a completed item and groups the rest by
// priority, preserving discovery order within each group. Tasks with an
// unknown priority are treated as normal.
func Aggregate(all []tasks.Task, completed []string) Buckets {
	done := completedKeys(completed)

	b := Buckets{
		Completed:  append([]string(nil), completed...),
		Pending:    make(map[tasks.Priority][]tasks.Task),
		AllSources: tasks.Sources(all),
	}

	for _, t := range all {
		if done[t.Key()] {
			continue
		}
		p := t.Priority
		if !p.Valid() {
			p = tasks.PriorityNormal
		}
		b.Pending[p] = append(b.Pending[p], t)
	}

	return b
}

// PendingCount returns the number of tasks across all priorities
func (b Buckets) PendingCount() int {
	n := 0
	for _, ts := range b.Pending {
		n += len(ts)
	}
	return n
}
