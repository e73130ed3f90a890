package model

import "time"

// Task MySQL model for the tasks table. One row per labeled task, kept
// current by the external sync process; review aggregates are maintained
// upstream so the reporting service never touches raw review rows.
type Task struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID          string     `gorm:"column:task_id;type:varchar(255);not null;uniqueIndex:idx_task_id_unique" json:"task_id"`
	ProjectID       string     `gorm:"column:project_id;type:varchar(255);not null;index:idx_project_created,priority:1" json:"project_id"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:datetime(3);not null;index:idx_project_created,priority:2" json:"created_at"`
	LastCompletedAt *time.Time `gorm:"column:last_completed_at;type:datetime(3)" json:"last_completed_at"`
	Status          string     `gorm:"column:status;type:varchar(50);not null;index:idx_status" json:"status"`
	DeliveryStatus  string     `gorm:"column:delivery_status;type:varchar(50)" json:"delivery_status"`
	DeliveryBatch   string     `gorm:"column:delivery_batch;type:varchar(255);index:idx_delivery_batch" json:"delivery_batch"`
	BatchDraft      bool       `gorm:"column:batch_draft;not null;default:false" json:"batch_draft"`
	ReviewCount     int        `gorm:"column:review_count;not null;default:0" json:"review_count"`
	ScoreSum        float64    `gorm:"column:score_sum;type:decimal(10,2);not null;default:0" json:"score_sum"`
	FollowupSum     int        `gorm:"column:followup_sum;not null;default:0" json:"followup_sum"`
	LatestReviewer  string     `gorm:"column:latest_reviewer;type:varchar(255)" json:"latest_reviewer"`
	LatestScore     *float64   `gorm:"column:latest_score;type:decimal(5,2)" json:"latest_score"`
	LatestAction    string     `gorm:"column:latest_action;type:varchar(100)" json:"latest_action"`
	LatestReviewAt  *time.Time `gorm:"column:latest_review_at;type:datetime(3)" json:"latest_review_at"`
	DurationMinutes float64    `gorm:"column:duration_minutes;type:decimal(10,2);not null;default:0" json:"duration_minutes"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
