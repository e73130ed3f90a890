package report

import "podreport/pkg/constants"

// Metrics is the derived metric set shared by every level of the tree.
// Every ratio uses nil as the explicit "undefined" sentinel when its
// denominator is zero; callers branch on nil, never divide defensively.
type Metrics struct {
	UniqueTasks      int `json:"unique_tasks"`
	NewTasks         int `json:"new_tasks"`
	Rework           int `json:"rework"`
	TotalSubmissions int `json:"total_submissions"`
	Delivered        int `json:"delivered"`
	InQueue          int `json:"in_queue"`
	TotalReviews     int `json:"total_reviews"`

	AvgReworkPercent *float64 `json:"avg_rework_percent"`
	ReworkPercent    *float64 `json:"rework_percent"`
	MergedExpAHT     *float64 `json:"merged_exp_aht"`
	AvgRating        *float64 `json:"avg_rating"`

	LoggedHours      float64  `json:"logged_hours"`
	AHTPerSubmission *float64 `json:"aht_per_submission"`
	Efficiency       *float64 `json:"efficiency"`
}

// tally is the additive accumulator behind Metrics. Levels sum tallies and
// recompute ratios from the sums; averaging percentages directly would be
// wrong when entities have unequal volumes.
type tally struct {
	uniqueTasks  int
	newTasks     int
	rework       int
	delivered    int
	inQueue      int
	totalReviews int

	// Rating pool: tasks with at least one review and no pending
	// follow-up. Summing score and count across trainers gives the
	// review-count-weighted average at every rollup level.
	ratingScoreSum    float64
	ratingReviewCount int

	loggedHours float64
}

// tallyFromSummaries reduces the summaries of one entity (trainer, POD
// lead, or project) into a tally. Task-derived facts (unique count,
// delivery state, review pool) are deduplicated by task id within the
// entity; submission counts are summed over every credit.
func tallyFromSummaries(summaries []TaskSummary) tally {
	var t tally
	seen := make(map[string]struct{}, len(summaries))

	for i := range summaries {
		s := &summaries[i]
		t.newTasks += s.NewSubmissions
		t.rework += s.ReworkSubmissions

		if _, ok := seen[s.TaskID]; ok {
			continue
		}
		seen[s.TaskID] = struct{}{}

		t.uniqueTasks++
		if s.IsDelivered {
			t.delivered++
		}
		if s.IsInQueue {
			t.inQueue++
		}
		if s.Task.ReviewCount > 0 && s.Task.FollowupSum == 0 {
			t.totalReviews += s.Task.ReviewCount
			t.ratingScoreSum += s.Task.ScoreSum
			t.ratingReviewCount += s.Task.ReviewCount
		}
	}

	return t
}

// add sums two tallies. Unique counts are summed, not deduplicated; the
// project level overrides uniqueTasks with its true distinct count.
func (t tally) add(o tally) tally {
	t.uniqueTasks += o.uniqueTasks
	t.newTasks += o.newTasks
	t.rework += o.rework
	t.delivered += o.delivered
	t.inQueue += o.inQueue
	t.totalReviews += o.totalReviews
	t.ratingScoreSum += o.ratingScoreSum
	t.ratingReviewCount += o.ratingReviewCount
	t.loggedHours += o.loggedHours
	return t
}

// metrics derives the full metric set from the accumulated counts.
func (t tally) metrics() Metrics {
	m := Metrics{
		UniqueTasks:      t.uniqueTasks,
		NewTasks:         t.newTasks,
		Rework:           t.rework,
		TotalSubmissions: t.newTasks + t.rework,
		Delivered:        t.delivered,
		InQueue:          t.inQueue,
		TotalReviews:     t.totalReviews,
		LoggedHours:      t.loggedHours,
	}

	subs := float64(m.TotalSubmissions)
	if m.UniqueTasks > 0 {
		m.AvgReworkPercent = ptr((subs/float64(m.UniqueTasks) - 1) * 100)
	}
	if m.TotalSubmissions > 0 {
		m.ReworkPercent = ptr(float64(m.Rework) / subs * 100)
		m.MergedExpAHT = ptr(expectedMinutes(t.newTasks, t.rework) / subs)
		m.AHTPerSubmission = ptr(t.loggedHours / subs)
	}
	if t.ratingReviewCount > 0 {
		m.AvgRating = ptr(t.ratingScoreSum / float64(t.ratingReviewCount))
	}
	if t.loggedHours > 0 {
		accountedHours := expectedMinutes(t.newTasks, t.rework) / 60
		m.Efficiency = ptr(accountedHours / t.loggedHours * 100)
	}

	return m
}

// ComputeMetrics reduces a collection of enriched summaries scoped to one
// entity into its derived metric set.
func ComputeMetrics(summaries []TaskSummary) Metrics {
	return tallyFromSummaries(summaries).metrics()
}

// expectedMinutes is the fixed-policy handling-time estimate for a
// submission mix.
func expectedMinutes(newTasks, rework int) float64 {
	return float64(newTasks)*constants.ExpectedMinutesNewTask +
		float64(rework)*constants.ExpectedMinutesRework
}

func ptr(v float64) *float64 {
	return &v
}
