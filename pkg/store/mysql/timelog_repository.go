package mysql

import (
	"context"
	"fmt"
	"time"
)

// TimeLogRepository reads time-tracking logs from MySQL
type TimeLogRepository struct {
	ds *Datastore
}

// NewTimeLogRepository creates a new time log repository
func NewTimeLogRepository(ds *Datastore) *TimeLogRepository {
	return &TimeLogRepository{ds: ds}
}

// ListByTrackers retrieves time logs for the given tracker ids within the
// inclusive date range. Nil bounds mean unbounded on that side.
func (r *TimeLogRepository) ListByTrackers(ctx context.Context, trackerIDs []string, from, to *time.Time) ([]*TimeLog, error) {
	if len(trackerIDs) == 0 {
		return []*TimeLog{}, nil
	}

	query := r.ds.DB(ctx).Model(&TimeLog{}).
		Where("tracker_id IN ?", trackerIDs)
	if from != nil {
		query = query.Where("log_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("log_date < ?", to.AddDate(0, 0, 1))
	}

	var logs []*TimeLog
	err := query.
		Order("tracker_id ASC, log_date ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	return logs, nil
}
