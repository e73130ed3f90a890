package mysql

import (
	"context"
	"fmt"
)

// TrainerMappingRepository reads the org mapping from MySQL
type TrainerMappingRepository struct {
	ds *Datastore
}

// NewTrainerMappingRepository creates a new trainer mapping repository
func NewTrainerMappingRepository(ds *Datastore) *TrainerMappingRepository {
	return &TrainerMappingRepository{ds: ds}
}

// ListByProjects retrieves mapping rows for the given projects.
// An empty project list means all projects.
func (r *TrainerMappingRepository) ListByProjects(ctx context.Context, projectIDs []string) ([]*TrainerMapping, error) {
	query := r.ds.DB(ctx).Model(&TrainerMapping{})
	if len(projectIDs) > 0 {
		query = query.Where("project_id IN ?", projectIDs)
	}

	var mappings []*TrainerMapping
	err := query.
		Order("project_id ASC, pod_lead_email ASC, trainer_email ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trainer mappings: %w", err)
	}
	return mappings, nil
}

// ListProjectIDs retrieves the distinct project ids known to the mapping.
// Used to reject scopes referencing unknown projects before any heavier
// query executes.
func (r *TrainerMappingRepository) ListProjectIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.ds.DB(ctx).Model(&TrainerMapping{}).
		Distinct("project_id").
		Order("project_id ASC").
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	return ids, nil
}
