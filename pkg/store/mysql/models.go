package mysql

import "podreport/pkg/store/mysql/model"

// Re-export types from model package so callers only import the store
type (
	Task            = model.Task
	CompletionEvent = model.CompletionEvent
	TrainerMapping  = model.TrainerMapping
	TimeLog         = model.TimeLog
)
