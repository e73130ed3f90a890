package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summariesWithCounts fabricates enriched summaries carrying the given
// unique-task, new, and rework totals.
func summariesWithCounts(unique, newTasks, rework int) []TaskSummary {
	summaries := make([]TaskSummary, 0, unique)
	for i := 0; i < unique; i++ {
		s := TaskSummary{
			TaskID:  taskID(i),
			Trainer: "a@x.com",
			Task:    &TaskRow{TaskID: taskID(i), ProjectID: "p1"},
		}
		if newTasks > 0 {
			s.NewSubmissions = 1
			newTasks--
		}
		summaries = append(summaries, s)
	}
	// Spread rework across the unique tasks round-robin.
	for i := 0; rework > 0; i = (i + 1) % len(summaries) {
		summaries[i].ReworkSubmissions++
		rework--
	}
	return summaries
}

func taskID(i int) string {
	return string(rune('a'+i/26)) + string(rune('a'+i%26))
}

func TestComputeMetricsReworkRatios(t *testing.T) {
	// 100 unique tasks, 100 new, 160 rework.
	m := ComputeMetrics(summariesWithCounts(100, 100, 160))

	assert.Equal(t, 100, m.UniqueTasks)
	assert.Equal(t, 100, m.NewTasks)
	assert.Equal(t, 160, m.Rework)
	assert.Equal(t, 260, m.TotalSubmissions)
	assert.Equal(t, m.NewTasks+m.Rework, m.TotalSubmissions)

	require.NotNil(t, m.AvgReworkPercent)
	assert.InDelta(t, 160.0, *m.AvgReworkPercent, 1e-9)

	require.NotNil(t, m.ReworkPercent)
	assert.InDelta(t, 61.5384615, *m.ReworkPercent, 1e-6)
}

func TestComputeMetricsMergedExpAHT(t *testing.T) {
	m := ComputeMetrics(summariesWithCounts(100, 100, 160))

	// (100*10 + 160*4) / 260 minutes.
	require.NotNil(t, m.MergedExpAHT)
	assert.InDelta(t, 6.3076923, *m.MergedExpAHT, 1e-6)
}

func TestComputeMetricsNullSentinels(t *testing.T) {
	m := ComputeMetrics(nil)

	assert.Equal(t, 0, m.UniqueTasks)
	assert.Equal(t, 0, m.TotalSubmissions)
	assert.Nil(t, m.AvgReworkPercent)
	assert.Nil(t, m.ReworkPercent)
	assert.Nil(t, m.MergedExpAHT)
	assert.Nil(t, m.AvgRating)
	assert.Nil(t, m.AHTPerSubmission)
	assert.Nil(t, m.Efficiency)
}

func TestComputeMetricsRatingExcludesPendingFollowups(t *testing.T) {
	summaries := []TaskSummary{
		{
			TaskID: "t1", Trainer: "a@x.com", NewSubmissions: 1,
			Task: &TaskRow{TaskID: "t1", ReviewCount: 2, ScoreSum: 9, FollowupSum: 0},
		},
		{
			TaskID: "t2", Trainer: "a@x.com", NewSubmissions: 1,
			// Pending follow-up: excluded from the rating pool entirely.
			Task: &TaskRow{TaskID: "t2", ReviewCount: 3, ScoreSum: 6, FollowupSum: 1},
		},
		{
			TaskID: "t3", Trainer: "a@x.com", NewSubmissions: 1,
			Task: &TaskRow{TaskID: "t3", ReviewCount: 1, ScoreSum: 5, FollowupSum: 0},
		},
	}

	m := ComputeMetrics(summaries)
	require.NotNil(t, m.AvgRating)
	assert.InDelta(t, (9.0+5.0)/3.0, *m.AvgRating, 1e-9)
	assert.Equal(t, 3, m.TotalReviews)
}

func TestComputeMetricsRatingNullWhenEveryReviewHasFollowup(t *testing.T) {
	summaries := []TaskSummary{
		{
			TaskID: "t1", Trainer: "a@x.com", NewSubmissions: 1,
			Task: &TaskRow{TaskID: "t1", ReviewCount: 4, ScoreSum: 12, FollowupSum: 2},
		},
	}

	m := ComputeMetrics(summaries)
	assert.Nil(t, m.AvgRating)
	assert.Equal(t, 0, m.TotalReviews)
}

func TestComputeMetricsSharedTaskCountedOncePerEntity(t *testing.T) {
	task := &TaskRow{TaskID: "t1", ReviewCount: 2, ScoreSum: 8, FollowupSum: 0}
	summaries := []TaskSummary{
		{TaskID: "t1", Trainer: "a@x.com", NewSubmissions: 1, Task: task},
		{TaskID: "t1", Trainer: "b@x.com", ReworkSubmissions: 1, Task: task},
	}

	m := ComputeMetrics(summaries)
	assert.Equal(t, 1, m.UniqueTasks)
	assert.Equal(t, 2, m.TotalSubmissions)
	// Review pool deduplicated by task within one entity.
	assert.Equal(t, 2, m.TotalReviews)
	require.NotNil(t, m.AvgRating)
	assert.InDelta(t, 4.0, *m.AvgRating, 1e-9)
}

func TestTallyHoursMetrics(t *testing.T) {
	ta := tallyFromSummaries(summariesWithCounts(10, 10, 5))
	ta.loggedHours = 4

	m := ta.metrics()
	require.NotNil(t, m.AHTPerSubmission)
	assert.InDelta(t, 4.0/15.0, *m.AHTPerSubmission, 1e-9)

	// accounted = (10*10 + 5*4)/60 = 2h, efficiency = 2/4*100.
	require.NotNil(t, m.Efficiency)
	assert.InDelta(t, 50.0, *m.Efficiency, 1e-9)
}

func TestTallyAddRecomputesRatiosFromSums(t *testing.T) {
	// Two trainers with very different volumes: the combined percentage
	// must come from summed counts, not from averaging percentages.
	a := tallyFromSummaries(summariesWithCounts(90, 90, 90)) // 50% rework share
	b := tallyFromSummaries(summariesWithCounts(10, 10, 0))  // 0% rework share

	m := a.add(b).metrics()
	require.NotNil(t, m.ReworkPercent)
	assert.InDelta(t, 90.0/190.0*100, *m.ReworkPercent, 1e-9)

	require.NotNil(t, m.AvgReworkPercent)
	assert.InDelta(t, (190.0/100.0-1)*100, *m.AvgReworkPercent, 1e-9)
}
