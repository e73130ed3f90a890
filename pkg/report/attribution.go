package report

import "sort"

// Credit is one completion event attributed to a trainer. Counter 1 is the
// task's first-ever completion (a new task); anything above is rework.
type Credit struct {
	TaskID  string
	Trainer string
	Counter int
	At      int64 // unix millis of the completion event
}

// IsNew reports whether the credit is the task's first completion.
func (c Credit) IsNew() bool {
	return c.Counter == 1
}

// Attribution holds, per task, the ordered list of completion credits and
// the single owning trainer used for delivery attribution.
type Attribution struct {
	credits []Credit
	perTask map[string][]Credit
	owners  map[string]string
	taskIDs []string
}

// ResolveAttribution orders the filtered completion events and determines
// per-task credits and ownership. Events of one task are ordered by
// timestamp, then completion counter, then trainer email, which makes
// ownership deterministic even for exact-timestamp ties; the task view
// itself is ordered by task id.
func ResolveAttribution(completions []CompletionRow) *Attribution {
	a := &Attribution{
		perTask: make(map[string][]Credit),
		owners:  make(map[string]string),
	}

	for i := range completions {
		c := &completions[i]
		credit := Credit{
			TaskID:  c.TaskID,
			Trainer: c.TrainerEmail,
			Counter: c.Counter,
			At:      c.CompletedAt.UnixMilli(),
		}
		a.perTask[c.TaskID] = append(a.perTask[c.TaskID], credit)
	}

	a.taskIDs = make([]string, 0, len(a.perTask))
	for taskID := range a.perTask {
		a.taskIDs = append(a.taskIDs, taskID)
	}
	sort.Strings(a.taskIDs)

	for _, taskID := range a.taskIDs {
		credits := a.perTask[taskID]
		sort.Slice(credits, func(i, j int) bool {
			if credits[i].At != credits[j].At {
				return credits[i].At < credits[j].At
			}
			if credits[i].Counter != credits[j].Counter {
				return credits[i].Counter < credits[j].Counter
			}
			return credits[i].Trainer < credits[j].Trainer
		})
		a.perTask[taskID] = credits
		a.owners[taskID] = credits[len(credits)-1].Trainer
		a.credits = append(a.credits, credits...)
	}

	return a
}

// Credits returns every credit, ordered by task id then event order.
func (a *Attribution) Credits() []Credit {
	return a.credits
}

// TaskCredits returns the ordered credits for one task.
func (a *Attribution) TaskCredits(taskID string) []Credit {
	return a.perTask[taskID]
}

// Owner returns the trainer credited with delivery ownership of a task:
// the author of its last completion event.
func (a *Attribution) Owner(taskID string) string {
	return a.owners[taskID]
}

// TaskIDs returns the sorted ids of every task with at least one credit.
func (a *Attribution) TaskIDs() []string {
	return a.taskIDs
}
