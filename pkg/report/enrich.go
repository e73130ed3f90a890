package report

import (
	"sort"
	"strings"
	"time"

	"podreport/pkg/constants"
)

// TaskSummary is one enriched (trainer, task) attribution joined to the
// canonical task record. NewSubmissions is 0 or 1 (a task has a single
// first completion); ReworkSubmissions counts every later resubmission
// this trainer authored.
type TaskSummary struct {
	TaskID            string
	Trainer           string
	NewSubmissions    int
	ReworkSubmissions int
	LastCompletedAt   time.Time
	IsDelivered       bool
	IsInQueue         bool
	Task              *TaskRow
}

// IsNewTask reports whether this trainer authored the task's first completion.
func (s *TaskSummary) IsNewTask() bool {
	return s.NewSubmissions > 0
}

// IsRework reports whether this trainer authored any resubmission.
func (s *TaskSummary) IsRework() bool {
	return s.ReworkSubmissions > 0
}

// Submissions is the trainer's total completion count on this task.
func (s *TaskSummary) Submissions() int {
	return s.NewSubmissions + s.ReworkSubmissions
}

// EnrichResult carries the enriched summaries plus the task ids dropped
// because no canonical record existed for them.
type EnrichResult struct {
	Summaries      []TaskSummary
	DroppedTaskIDs []string
}

// Enrich joins attribution credits to canonical task records by task id,
// producing one summary per (trainer, task) pair. Credits whose task has
// no canonical record yet (race with ingestion) are dropped and reported,
// never fatal.
func Enrich(attr *Attribution, tasks map[string]*TaskRow) EnrichResult {
	type key struct {
		taskID  string
		trainer string
	}

	summaries := make(map[key]*TaskSummary)
	droppedSet := make(map[string]struct{})

	for _, credit := range attr.Credits() {
		task, ok := tasks[credit.TaskID]
		if !ok {
			droppedSet[credit.TaskID] = struct{}{}
			continue
		}

		k := key{taskID: credit.TaskID, trainer: credit.Trainer}
		sum, ok := summaries[k]
		if !ok {
			sum = &TaskSummary{
				TaskID:      credit.TaskID,
				Trainer:     credit.Trainer,
				IsDelivered: IsDelivered(task),
				IsInQueue:   IsInQueue(task),
				Task:        task,
			}
			summaries[k] = sum
		}

		if credit.IsNew() {
			sum.NewSubmissions = 1
		} else {
			sum.ReworkSubmissions++
		}
		at := time.UnixMilli(credit.At).UTC()
		if at.After(sum.LastCompletedAt) {
			sum.LastCompletedAt = at
		}
	}

	result := EnrichResult{
		Summaries: make([]TaskSummary, 0, len(summaries)),
	}
	for _, sum := range summaries {
		result.Summaries = append(result.Summaries, *sum)
	}
	sort.Slice(result.Summaries, func(i, j int) bool {
		if result.Summaries[i].TaskID != result.Summaries[j].TaskID {
			return result.Summaries[i].TaskID < result.Summaries[j].TaskID
		}
		return result.Summaries[i].Trainer < result.Summaries[j].Trainer
	})

	for id := range droppedSet {
		result.DroppedTaskIDs = append(result.DroppedTaskIDs, id)
	}
	sort.Strings(result.DroppedTaskIDs)

	return result
}

// IsDelivered reports whether the task's delivery status equals the
// delivered sentinel, case-insensitively.
func IsDelivered(t *TaskRow) bool {
	return strings.EqualFold(t.DeliveryStatus, constants.DeliveredStatus)
}

// IsInQueue reports whether the task sits in a delivery batch that has not
// shipped yet.
func IsInQueue(t *TaskRow) bool {
	return t.DeliveryBatch != "" && !IsDelivered(t)
}
