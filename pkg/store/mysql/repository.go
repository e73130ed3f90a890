package mysql

// Repository aggregates all MySQL repositories
type Repository struct {
	ds *Datastore

	Task            *TaskRepository
	CompletionEvent *CompletionEventRepository
	TrainerMapping  *TrainerMappingRepository
	TimeLog         *TimeLogRepository
}

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ds:              ds,
		Task:            NewTaskRepository(ds),
		CompletionEvent: NewCompletionEventRepository(ds),
		TrainerMapping:  NewTrainerMappingRepository(ds),
		TimeLog:         NewTimeLogRepository(ds),
	}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}
