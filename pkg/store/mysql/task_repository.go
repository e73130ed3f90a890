package mysql

import (
	"context"
	"fmt"
)

// TaskRepository reads canonical task records from MySQL
type TaskRepository struct {
	ds *Datastore
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(ds *Datastore) *TaskRepository {
	return &TaskRepository{ds: ds}
}

// ListByProjects retrieves every task belonging to the given projects.
// An empty project list means all projects.
func (r *TaskRepository) ListByProjects(ctx context.Context, projectIDs []string) ([]*Task, error) {
	query := r.ds.DB(ctx).Model(&Task{})
	if len(projectIDs) > 0 {
		query = query.Where("project_id IN ?", projectIDs)
	}

	var tasks []*Task
	if err := query.Order("task_id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
