package model

import "time"

// CompletionEvent MySQL model for the completion_events table. One row per
// status transition into "completed" from a status other than
// post-review-approved, extracted from the status history by the sync
// process. CompletionCounter is the per-task monotonic counter: 1 is the
// first-ever completion, anything above is a rework resubmission.
type CompletionEvent struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID            string    `gorm:"column:task_id;type:varchar(255);not null;index:idx_task_completed,priority:1" json:"task_id"`
	ProjectID         string    `gorm:"column:project_id;type:varchar(255);not null;index:idx_project_completed,priority:1" json:"project_id"`
	TrainerEmail      string    `gorm:"column:trainer_email;type:varchar(255);not null;index:idx_trainer_email" json:"trainer_email"`
	CompletedAt       time.Time `gorm:"column:completed_at;type:datetime(3);not null;index:idx_task_completed,priority:2;index:idx_project_completed,priority:2" json:"completed_at"`
	CompletionCounter int       `gorm:"column:completion_counter;not null" json:"completion_counter"`
}

// TableName specifies the table name for CompletionEvent
func (CompletionEvent) TableName() string {
	return "completion_events"
}
