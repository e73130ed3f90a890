package model

import "time"

// TrainerMapping MySQL model for the trainer_mappings table, synced from
// the org-chart spreadsheet. One row per (trainer, POD lead) pair; a
// trainer absent from this table is out of scope for hierarchy rollups.
type TrainerMapping struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TrainerEmail string    `gorm:"column:trainer_email;type:varchar(255);not null;index:idx_mapping_trainer" json:"trainer_email"`
	PodLeadEmail string    `gorm:"column:pod_lead_email;type:varchar(255);not null;index:idx_mapping_pod_lead" json:"pod_lead_email"`
	ProjectID    string    `gorm:"column:project_id;type:varchar(255);not null;index:idx_mapping_project" json:"project_id"`
	Active       bool      `gorm:"column:active;not null;default:true" json:"active"`
	TrackerID    string    `gorm:"column:tracker_id;type:varchar(255)" json:"tracker_id"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for TrainerMapping
func (TrainerMapping) TableName() string {
	return "trainer_mappings"
}
