package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podreport/pkg/report"
	"podreport/pkg/store/mysql"
)

type fakeStores struct {
	tasks       []*mysql.Task
	completions []*mysql.CompletionEvent
	mappings    []*mysql.TrainerMapping
	timeLogs    []*mysql.TimeLog

	taskCalls int
	failTasks error
}

func (f *fakeStores) ListByProjects(ctx context.Context, projectIDs []string) ([]*mysql.Task, error) {
	f.taskCalls++
	if f.failTasks != nil {
		return nil, f.failTasks
	}
	return f.tasks, nil
}

func (f *fakeStores) ListByScope(ctx context.Context, projectIDs []string, from, to *time.Time) ([]*mysql.CompletionEvent, error) {
	return f.completions, nil
}

type fakeMappings struct {
	stores *fakeStores
}

func (f *fakeMappings) ListByProjects(ctx context.Context, projectIDs []string) ([]*mysql.TrainerMapping, error) {
	return f.stores.mappings, nil
}

func (f *fakeMappings) ListProjectIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range f.stores.mappings {
		if _, ok := seen[m.ProjectID]; ok {
			continue
		}
		seen[m.ProjectID] = struct{}{}
		ids = append(ids, m.ProjectID)
	}
	return ids, nil
}

type fakeTimeLogs struct {
	stores *fakeStores
}

func (f *fakeTimeLogs) ListByTrackers(ctx context.Context, trackerIDs []string, from, to *time.Time) ([]*mysql.TimeLog, error) {
	return f.stores.timeLogs, nil
}

type fakeCache struct {
	entries map[string][]byte
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, view, scopeKey string) ([]byte, bool) {
	payload, ok := c.entries[view+"|"+scopeKey]
	if ok {
		c.hits++
	}
	return payload, ok
}

func (c *fakeCache) Set(ctx context.Context, view, scopeKey string, payload []byte) error {
	c.entries[view+"|"+scopeKey] = payload
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.entries = make(map[string][]byte)
	return nil
}

func newTestService(stores *fakeStores, cache ReportCache) *ReportService {
	return NewReportService(
		stores,
		stores,
		&fakeMappings{stores: stores},
		&fakeTimeLogs{stores: stores},
		cache,
		Options{QueryTimeout: 5 * time.Second},
	)
}

func seededStores() *fakeStores {
	completed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &fakeStores{
		tasks: []*mysql.Task{
			{TaskID: "t1", ProjectID: "p1", Status: "completed", ReviewCount: 1, ScoreSum: 4, LastCompletedAt: &completed},
			{TaskID: "t2", ProjectID: "p1", Status: "completed", DeliveryStatus: "delivered"},
		},
		completions: []*mysql.CompletionEvent{
			{TaskID: "t1", ProjectID: "p1", TrainerEmail: "a@x.com", CompletedAt: completed, CompletionCounter: 1},
			{TaskID: "t2", ProjectID: "p1", TrainerEmail: "a@x.com", CompletedAt: completed.Add(time.Hour), CompletionCounter: 2},
		},
		mappings: []*mysql.TrainerMapping{
			{TrainerEmail: "a@x.com", PodLeadEmail: "lead@x.com", ProjectID: "p1", Active: true, TrackerID: "trk-a"},
		},
		timeLogs: []*mysql.TimeLog{
			{TrackerID: "trk-a", LogDate: completed, Hours: 2},
		},
	}
}

func TestBuildReport(t *testing.T) {
	svc := newTestService(seededStores(), nil)

	res, err := svc.BuildReport(context.Background(), report.Params{ProjectIDs: []string{"p1"}})
	require.NoError(t, err)
	require.Len(t, res.Projects, 1)

	proj := res.Projects[0]
	assert.Equal(t, "p1", proj.ProjectID)
	require.Len(t, proj.PodLeads, 1)
	assert.Equal(t, "lead@x.com", proj.PodLeads[0].Email)
	assert.Equal(t, 2, proj.Metrics.UniqueTasks)
	assert.Equal(t, 2.0, proj.Metrics.LoggedHours)
}

func TestBuildReportUnknownProject(t *testing.T) {
	svc := newTestService(seededStores(), nil)

	_, err := svc.BuildReport(context.Background(), report.Params{ProjectIDs: []string{"nope"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrUnknownProject)
}

func TestBuildReportInvalidScope(t *testing.T) {
	svc := newTestService(seededStores(), nil)
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.BuildReport(context.Background(), report.Params{From: &from, To: &to})
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidScope)
}

func TestBuildReportUpstreamFailure(t *testing.T) {
	stores := seededStores()
	stores.failTasks = errors.New("connection refused")
	svc := newTestService(stores, nil)

	_, err := svc.BuildReport(context.Background(), report.Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRenderViewCaches(t *testing.T) {
	stores := seededStores()
	cache := newFakeCache()
	svc := newTestService(stores, cache)
	params := report.Params{ProjectIDs: []string{"p1"}}

	first, err := svc.RenderView(context.Background(), ViewTree, params)
	require.NoError(t, err)
	callsAfterFirst := stores.taskCalls

	second, err := svc.RenderView(context.Background(), ViewTree, params)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, callsAfterFirst, stores.taskCalls, "second render must come from cache")
	assert.Equal(t, 1, cache.hits)
}

func TestRenderViewUnknownView(t *testing.T) {
	svc := newTestService(seededStores(), nil)

	_, err := svc.RenderView(context.Background(), "pivot", report.Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidScope)
}

func TestRenderTrainerRows(t *testing.T) {
	svc := newTestService(seededStores(), nil)

	payload, err := svc.RenderView(context.Background(), ViewTrainers, report.Params{ProjectIDs: []string{"p1"}})
	require.NoError(t, err)

	var rows []TrainerRow
	require.NoError(t, json.Unmarshal(payload, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "a@x.com", rows[0].Trainer)
	assert.Equal(t, "lead@x.com", rows[0].PodLead)
	assert.Equal(t, "active", rows[0].Status)
	assert.Equal(t, 2, rows[0].Metrics.TotalSubmissions)
}

func TestRenderTasksViewIncludesDropped(t *testing.T) {
	stores := seededStores()
	stores.completions = append(stores.completions, &mysql.CompletionEvent{
		TaskID: "ghost", ProjectID: "p1", TrainerEmail: "a@x.com",
		CompletedAt: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), CompletionCounter: 1,
	})
	svc := newTestService(stores, nil)

	payload, err := svc.RenderView(context.Background(), ViewTasks, report.Params{ProjectIDs: []string{"p1"}})
	require.NoError(t, err)

	var view TasksView
	require.NoError(t, json.Unmarshal(payload, &view))
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "t1", view.Tasks[0].TaskID)
	assert.Equal(t, "a@x.com", view.Tasks[0].Owner)
	assert.True(t, view.Tasks[0].OwnerMapped)
	assert.Equal(t, []string{"ghost"}, view.DroppedTaskIDs)
}

func TestInvalidateCache(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(seededStores(), cache)
	params := report.Params{ProjectIDs: []string{"p1"}}

	_, err := svc.RenderView(context.Background(), ViewTree, params)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	require.NoError(t, svc.InvalidateCache(context.Background()))
	assert.Empty(t, cache.entries)
}
