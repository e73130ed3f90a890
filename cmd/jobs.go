package main

import (
	"context"
	"time"

	"podreport/internal/service"
	"podreport/pkg/config"
	"podreport/pkg/logger"
	"podreport/pkg/report"
	redisstore "podreport/pkg/store/redis"
)

const warmLockKey = "jobs:report-cache-warm:lock"

// warmViews are pre-materialized for each configured scope so the first
// dashboard request after a sync never pays the full aggregation cost.
var warmViews = []string{service.ViewTree, service.ViewTrainers, service.ViewPodLeads}

// cacheWarmJob periodically renders the configured report scopes into
// the response cache. A redis lock keeps concurrent replicas from
// warming the same scopes at the same time.
type cacheWarmJob struct {
	svc      *service.ReportService
	lock     *redisstore.JobLock
	scopes   []config.WarmScope
	interval time.Duration
}

func newCacheWarmJob(svc *service.ReportService, lock *redisstore.JobLock, scopes []config.WarmScope, interval time.Duration) *cacheWarmJob {
	return &cacheWarmJob{
		svc:      svc,
		lock:     lock,
		scopes:   scopes,
		interval: interval,
	}
}

func (j *cacheWarmJob) Name() string {
	return "report-cache-warm"
}

func (j *cacheWarmJob) Interval() time.Duration {
	return j.interval
}

func (j *cacheWarmJob) Run(ctx context.Context) error {
	acquired, err := j.lock.TryLock(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		logger.DebugCtx(ctx, "cache warm skipped, another replica holds the lock")
		return nil
	}
	defer func() {
		if err := j.lock.Unlock(ctx); err != nil {
			logger.WarnCtx(ctx, "cache warm lock release failed: %v", err)
		}
	}()

	for _, scope := range j.scopes {
		params := warmParams(scope)
		for _, view := range warmViews {
			if _, err := j.svc.RenderView(ctx, view, params); err != nil {
				logger.WarnCtx(ctx, "cache warm failed, project=%s view=%s: %v", scope.ProjectID, view, err)
				continue
			}
		}
	}
	return nil
}

// warmParams builds the scope for one warm entry. A window of N days
// means the trailing N days up to today, both bounds inclusive.
func warmParams(scope config.WarmScope) report.Params {
	var params report.Params
	if scope.ProjectID != "" {
		params.ProjectIDs = []string{scope.ProjectID}
	}
	if scope.WindowDays > 0 {
		now := time.Now().UTC()
		to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		from := to.AddDate(0, 0, -(scope.WindowDays - 1))
		params.From = &from
		params.To = &to
	}
	return params
}
