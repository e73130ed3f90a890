package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichProducesOneSummaryPerTrainerTaskPair(t *testing.T) {
	attr := ResolveAttribution([]CompletionRow{
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 1, CompletedAt: date("2026-01-01")},
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 2, CompletedAt: date("2026-01-02")},
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 3, CompletedAt: date("2026-01-03")},
		{TaskID: "t1", TrainerEmail: "b@x.com", Counter: 4, CompletedAt: date("2026-01-04")},
	})
	tasks := map[string]*TaskRow{
		"t1": {TaskID: "t1", ProjectID: "p1"},
	}

	res := Enrich(attr, tasks)
	require.Len(t, res.Summaries, 2)

	a := res.Summaries[0]
	assert.Equal(t, "a@x.com", a.Trainer)
	assert.Equal(t, 1, a.NewSubmissions)
	assert.Equal(t, 2, a.ReworkSubmissions)
	assert.Equal(t, 3, a.Submissions())
	assert.True(t, a.IsNewTask())
	assert.True(t, a.IsRework())

	b := res.Summaries[1]
	assert.Equal(t, "b@x.com", b.Trainer)
	assert.Equal(t, 0, b.NewSubmissions)
	assert.Equal(t, 1, b.ReworkSubmissions)
	assert.False(t, b.IsNewTask())
}

func TestEnrichDropsTasksWithoutCanonicalRecord(t *testing.T) {
	attr := ResolveAttribution([]CompletionRow{
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 1, CompletedAt: date("2026-01-01")},
		{TaskID: "ghost", TrainerEmail: "a@x.com", Counter: 1, CompletedAt: date("2026-01-01")},
	})
	tasks := map[string]*TaskRow{
		"t1": {TaskID: "t1", ProjectID: "p1"},
	}

	res := Enrich(attr, tasks)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, "t1", res.Summaries[0].TaskID)
	assert.Equal(t, []string{"ghost"}, res.DroppedTaskIDs)
}

func TestEnrichDeliveryFlags(t *testing.T) {
	tests := []struct {
		name        string
		task        TaskRow
		isDelivered bool
		isInQueue   bool
	}{
		{
			name:        "delivered, sentinel case-insensitive",
			task:        TaskRow{TaskID: "t1", DeliveryStatus: "DELIVERED", DeliveryBatch: "b1"},
			isDelivered: true,
			isInQueue:   false,
		},
		{
			name:        "batched but not delivered",
			task:        TaskRow{TaskID: "t1", DeliveryStatus: "staged", DeliveryBatch: "b1"},
			isDelivered: false,
			isInQueue:   true,
		},
		{
			name:        "no batch",
			task:        TaskRow{TaskID: "t1"},
			isDelivered: false,
			isInQueue:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isDelivered, IsDelivered(&tt.task))
			assert.Equal(t, tt.isInQueue, IsInQueue(&tt.task))

			attr := ResolveAttribution([]CompletionRow{
				{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 1, CompletedAt: date("2026-01-01")},
			})
			task := tt.task
			res := Enrich(attr, map[string]*TaskRow{"t1": &task})
			require.Len(t, res.Summaries, 1)
			assert.Equal(t, tt.isDelivered, res.Summaries[0].IsDelivered)
			assert.Equal(t, tt.isInQueue, res.Summaries[0].IsInQueue)
		})
	}
}

func TestEnrichTracksLastCompletion(t *testing.T) {
	attr := ResolveAttribution([]CompletionRow{
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 1, CompletedAt: date("2026-01-01")},
		{TaskID: "t1", TrainerEmail: "a@x.com", Counter: 2, CompletedAt: date("2026-01-09")},
	})
	res := Enrich(attr, map[string]*TaskRow{"t1": {TaskID: "t1"}})
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, date("2026-01-09"), res.Summaries[0].LastCompletedAt)
}
