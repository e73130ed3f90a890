package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"podreport/pkg/logger"
	"podreport/pkg/report"
	"podreport/pkg/store/mysql"
)

const timeLayout = time.RFC3339

// ErrUpstream marks datastore failures so the transport layer can map them
// to a gateway error instead of a generic internal one.
var ErrUpstream = errors.New("upstream data source unavailable")

// Options carries process-wide reporting policy from configuration.
type Options struct {
	Exclusions   report.Exclusions
	QueryTimeout time.Duration
}

// ReportService materializes aggregation reports from a consistent
// snapshot of the upstream stores, with a read-through response cache.
type ReportService struct {
	tasks       TaskStore
	completions CompletionStore
	mappings    MappingStore
	timeLogs    TimeLogStore
	cache       ReportCache
	opts        Options
}

func NewReportService(tasks TaskStore, completions CompletionStore, mappings MappingStore, timeLogs TimeLogStore, cache ReportCache, opts Options) *ReportService {
	return &ReportService{
		tasks:       tasks,
		completions: completions,
		mappings:    mappings,
		timeLogs:    timeLogs,
		cache:       cache,
		opts:        opts,
	}
}

// BuildReport validates the scope, loads one snapshot and runs the
// aggregation. It never consults the cache.
func (s *ReportService) BuildReport(ctx context.Context, params report.Params) (*report.Result, error) {
	scope, err := report.NewScope(params, s.opts.Exclusions)
	if err != nil {
		return nil, err
	}
	return s.buildScoped(ctx, scope)
}

// RenderView returns the JSON payload for one view of the report,
// serving from the response cache when a fresh entry exists.
func (s *ReportService) RenderView(ctx context.Context, view string, params report.Params) ([]byte, error) {
	switch view {
	case ViewTree, ViewProjects, ViewTrainers, ViewPodLeads, ViewTasks:
	default:
		return nil, fmt.Errorf("%w: unknown view %q", report.ErrInvalidScope, view)
	}

	scope, err := report.NewScope(params, s.opts.Exclusions)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, view, scope.Key()); ok {
			logger.DebugCtx(ctx, "report cache hit, view=%s scope=%s", view, scope.Key())
			return payload, nil
		}
	}

	res, err := s.buildScoped(ctx, scope)
	if err != nil {
		return nil, err
	}

	payload, err := marshalView(view, res)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, view, scope.Key(), payload); err != nil {
			logger.WarnCtx(ctx, "report cache store failed: %v", err)
		}
	}
	return payload, nil
}

// InvalidateCache drops all cached report payloads at once.
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *ReportService) buildScoped(ctx context.Context, scope *report.Scope) (*report.Result, error) {
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	if err := s.validateProjects(ctx, scope); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, scope)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	res := report.Build(scope, snap)
	if len(res.DroppedTaskIDs) > 0 {
		logger.WarnCtx(ctx, "report dropped %d completion task ids with no canonical task, scope=%s",
			len(res.DroppedTaskIDs), scope.Key())
	}
	logger.InfoCtx(ctx, "report built, scope=%s projects=%d tasks=%d elapsed=%s",
		scope.Key(), len(res.Projects), len(res.Tasks), time.Since(started))
	return res, nil
}

// validateProjects rejects explicitly requested project ids that no
// trainer mapping has ever referenced.
func (s *ReportService) validateProjects(ctx context.Context, scope *report.Scope) error {
	requested := scope.ProjectIDs()
	if len(requested) == 0 {
		return nil
	}
	known, err := s.mappings.ListProjectIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: list project ids: %v", ErrUpstream, err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := knownSet[id]; !ok {
			return fmt.Errorf("%w: %s", report.ErrUnknownProject, id)
		}
	}
	return nil
}

// loadSnapshot reads all four stores for the scope. Tasks are loaded
// without date filtering: the engine needs the full canonical record to
// classify delivery state, only completions are range-bounded.
func (s *ReportService) loadSnapshot(ctx context.Context, scope *report.Scope) (*report.Snapshot, error) {
	projectIDs := scope.ProjectIDs()

	tasks, err := s.tasks.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: list tasks: %v", ErrUpstream, err)
	}

	completions, err := s.completions.ListByScope(ctx, projectIDs, scope.From(), scope.To())
	if err != nil {
		return nil, fmt.Errorf("%w: list completions: %v", ErrUpstream, err)
	}

	mappings, err := s.mappings.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: list trainer mappings: %v", ErrUpstream, err)
	}

	trackerIDs := make([]string, 0, len(mappings))
	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if m.TrackerID == "" {
			continue
		}
		if _, ok := seen[m.TrackerID]; ok {
			continue
		}
		seen[m.TrackerID] = struct{}{}
		trackerIDs = append(trackerIDs, m.TrackerID)
	}

	var timeLogs []*mysql.TimeLog
	if len(trackerIDs) > 0 {
		timeLogs, err = s.timeLogs.ListByTrackers(ctx, trackerIDs, scope.From(), scope.To())
		if err != nil {
			return nil, fmt.Errorf("%w: list time logs: %v", ErrUpstream, err)
		}
	}

	return &report.Snapshot{
		Tasks:       mysql.TaskRows(tasks),
		Completions: mysql.CompletionRows(completions),
		Mappings:    mysql.MappingRows(mappings),
		TimeLogs:    mysql.TimeLogRows(timeLogs),
	}, nil
}

func marshalView(view string, res *report.Result) ([]byte, error) {
	var payload interface{}
	switch view {
	case ViewTree, ViewProjects:
		payload = buildTreeView(res)
	case ViewTrainers:
		payload = buildTrainerRows(res)
	case ViewPodLeads:
		payload = buildPodLeadRows(res)
	case ViewTasks:
		payload = buildTasksView(res)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s view: %w", view, err)
	}
	return data, nil
}
