package service

import (
	"context"
	"time"

	"podreport/pkg/store/mysql"
)

// TaskStore reads canonical task records
type TaskStore interface {
	ListByProjects(ctx context.Context, projectIDs []string) ([]*mysql.Task, error)
}

// CompletionStore reads completion events
type CompletionStore interface {
	ListByScope(ctx context.Context, projectIDs []string, from, to *time.Time) ([]*mysql.CompletionEvent, error)
}

// MappingStore reads the trainer org mapping
type MappingStore interface {
	ListByProjects(ctx context.Context, projectIDs []string) ([]*mysql.TrainerMapping, error)
	ListProjectIDs(ctx context.Context) ([]string, error)
}

// TimeLogStore reads time-tracking logs
type TimeLogStore interface {
	ListByTrackers(ctx context.Context, trackerIDs []string, from, to *time.Time) ([]*mysql.TimeLog, error)
}

// ReportCache short-circuits repeated identical requests within a
// freshness window. The service stays correct with a nil cache.
type ReportCache interface {
	Get(ctx context.Context, view, scopeKey string) ([]byte, bool)
	Set(ctx context.Context, view, scopeKey string, payload []byte) error
	Invalidate(ctx context.Context) error
}
