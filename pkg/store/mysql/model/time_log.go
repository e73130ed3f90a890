package model

import "time"

// TimeLog MySQL model for the time_logs table. One row per (tracker, day)
// of logged hours; relates to trainers only through TrainerMapping.
type TimeLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackerID string    `gorm:"column:tracker_id;type:varchar(255);not null;index:idx_tracker_date,priority:1" json:"tracker_id"`
	LogDate   time.Time `gorm:"column:log_date;type:date;not null;index:idx_tracker_date,priority:2" json:"log_date"`
	Hours     float64   `gorm:"column:hours;type:decimal(6,2);not null;default:0" json:"hours"`
}

// TableName specifies the table name for TimeLog
func (TimeLog) TableName() string {
	return "time_logs"
}
