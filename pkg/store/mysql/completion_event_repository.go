package mysql

import (
	"context"
	"fmt"
	"time"
)

// CompletionEventRepository reads completion events from MySQL
type CompletionEventRepository struct {
	ds *Datastore
}

// NewCompletionEventRepository creates a new completion event repository
func NewCompletionEventRepository(ds *Datastore) *CompletionEventRepository {
	return &CompletionEventRepository{ds: ds}
}

// ListByScope retrieves completion events for the given projects and
// inclusive date range. The upper bound covers the whole of its calendar
// day. Nil bounds mean unbounded on that side; an empty project list
// means all projects.
func (r *CompletionEventRepository) ListByScope(ctx context.Context, projectIDs []string, from, to *time.Time) ([]*CompletionEvent, error) {
	query := r.ds.DB(ctx).Model(&CompletionEvent{})
	if len(projectIDs) > 0 {
		query = query.Where("project_id IN ?", projectIDs)
	}
	if from != nil {
		query = query.Where("completed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("completed_at < ?", to.AddDate(0, 0, 1))
	}

	var events []*CompletionEvent
	err := query.
		Order("completed_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completion events: %w", err)
	}
	return events, nil
}
