package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestNewScopeRejectsInvertedDateRange(t *testing.T) {
	_, err := NewScope(Params{
		From: datePtr("2026-02-01"),
		To:   datePtr("2026-01-01"),
	}, Exclusions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestNewScopeRejectsEmptyProjectID(t *testing.T) {
	_, err := NewScope(Params{ProjectIDs: []string{"p1", "  "}}, Exclusions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestNewScopeNormalizesProjectIDs(t *testing.T) {
	scope, err := NewScope(Params{ProjectIDs: []string{"p2", "p1", "p2"}}, Exclusions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, scope.ProjectIDs())
	assert.True(t, scope.MatchesProject("p1"))
	assert.False(t, scope.MatchesProject("p3"))
}

func TestScopeDateBoundsAreInclusive(t *testing.T) {
	scope, err := NewScope(Params{
		From: datePtr("2026-01-10"),
		To:   datePtr("2026-01-20"),
	}, Exclusions{})
	require.NoError(t, err)

	assert.True(t, scope.InRange(date("2026-01-10")))
	assert.True(t, scope.InRange(date("2026-01-20")))
	// Events later on the upper-bound day still count.
	assert.True(t, scope.InRange(date("2026-01-20").Add(23*time.Hour)))
	assert.False(t, scope.InRange(date("2026-01-09").Add(23*time.Hour)))
	assert.False(t, scope.InRange(date("2026-01-21")))
}

func TestScopeUnboundedSidesMatchEverything(t *testing.T) {
	scope, err := NewScope(Params{}, Exclusions{})
	require.NoError(t, err)
	assert.True(t, scope.InRange(date("1999-01-01")))
	assert.True(t, scope.InRange(date("2999-01-01")))
}

func TestScopeAllowsTaskAppliesExclusions(t *testing.T) {
	scope, err := NewScope(Params{ProjectIDs: []string{"p1"}}, Exclusions{
		Batches:      []string{"Calibration-Batch"},
		DraftBatches: true,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		task    TaskRow
		allowed bool
	}{
		{
			name:    "plain task in project",
			task:    TaskRow{TaskID: "t1", ProjectID: "p1"},
			allowed: true,
		},
		{
			name:    "other project",
			task:    TaskRow{TaskID: "t2", ProjectID: "p2"},
			allowed: false,
		},
		{
			name:    "excluded batch name, case-insensitive",
			task:    TaskRow{TaskID: "t3", ProjectID: "p1", DeliveryBatch: "calibration-batch"},
			allowed: false,
		},
		{
			name:    "draft batch",
			task:    TaskRow{TaskID: "t4", ProjectID: "p1", DeliveryBatch: "b7", DraftBatch: true},
			allowed: false,
		},
		{
			name:    "non-draft batch",
			task:    TaskRow{TaskID: "t5", ProjectID: "p1", DeliveryBatch: "b7"},
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, scope.AllowsTask(&tt.task))
		})
	}
}

func TestScopeReviewerAndScoreFilters(t *testing.T) {
	min := 4.0
	scope, err := NewScope(Params{Reviewer: "Rev@Example.com", MinScore: &min}, Exclusions{})
	require.NoError(t, err)

	score := 4.5
	low := 3.0
	assert.True(t, scope.AllowsTask(&TaskRow{TaskID: "t1", LatestReviewer: "rev@example.com", LatestScore: &score}))
	assert.False(t, scope.AllowsTask(&TaskRow{TaskID: "t2", LatestReviewer: "other@example.com", LatestScore: &score}))
	assert.False(t, scope.AllowsTask(&TaskRow{TaskID: "t3", LatestReviewer: "rev@example.com", LatestScore: &low}))
	assert.False(t, scope.AllowsTask(&TaskRow{TaskID: "t4", LatestReviewer: "rev@example.com"}))
}

func TestScopeAllowsCompletionTrainerFilter(t *testing.T) {
	scope, err := NewScope(Params{Trainer: "A@x.com"}, Exclusions{})
	require.NoError(t, err)

	assert.True(t, scope.AllowsCompletion(&CompletionRow{TaskID: "t1", TrainerEmail: "a@x.com", CompletedAt: date("2026-01-01")}))
	assert.False(t, scope.AllowsCompletion(&CompletionRow{TaskID: "t1", TrainerEmail: "b@x.com", CompletedAt: date("2026-01-01")}))
}

func TestScopeKeyIsCanonical(t *testing.T) {
	min := 4.0
	a, err := NewScope(Params{ProjectIDs: []string{"p2", "p1"}, From: datePtr("2026-01-01"), MinScore: &min}, Exclusions{})
	require.NoError(t, err)
	b, err := NewScope(Params{ProjectIDs: []string{"p1", "p2", "p1"}, From: datePtr("2026-01-01"), MinScore: &min}, Exclusions{})
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "projects=p1,p2|from=2026-01-01|to=|trainer=|reviewer=|min_score=4.00", a.Key())
}
