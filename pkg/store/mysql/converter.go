package mysql

import "podreport/pkg/report"

// TaskRows converts task models to engine snapshot rows
func TaskRows(tasks []*Task) []report.TaskRow {
	rows := make([]report.TaskRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, report.TaskRow{
			TaskID:          t.TaskID,
			ProjectID:       t.ProjectID,
			CreatedAt:       t.CreatedAt,
			LastCompletedAt: t.LastCompletedAt,
			Status:          t.Status,
			DeliveryStatus:  t.DeliveryStatus,
			DeliveryBatch:   t.DeliveryBatch,
			DraftBatch:      t.BatchDraft,
			ReviewCount:     t.ReviewCount,
			ScoreSum:        t.ScoreSum,
			FollowupSum:     t.FollowupSum,
			LatestReviewer:  t.LatestReviewer,
			LatestScore:     t.LatestScore,
			LatestAction:    t.LatestAction,
			LatestReviewAt:  t.LatestReviewAt,
			DurationMinutes: t.DurationMinutes,
		})
	}
	return rows
}

// CompletionRows converts completion event models to engine snapshot rows
func CompletionRows(events []*CompletionEvent) []report.CompletionRow {
	rows := make([]report.CompletionRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, report.CompletionRow{
			TaskID:       e.TaskID,
			ProjectID:    e.ProjectID,
			TrainerEmail: e.TrainerEmail,
			CompletedAt:  e.CompletedAt,
			Counter:      e.CompletionCounter,
		})
	}
	return rows
}

// MappingRows converts trainer mapping models to engine snapshot rows
func MappingRows(mappings []*TrainerMapping) []report.MappingRow {
	rows := make([]report.MappingRow, 0, len(mappings))
	for _, m := range mappings {
		rows = append(rows, report.MappingRow{
			TrainerEmail: m.TrainerEmail,
			PodLeadEmail: m.PodLeadEmail,
			ProjectID:    m.ProjectID,
			Active:       m.Active,
			TrackerID:    m.TrackerID,
		})
	}
	return rows
}

// TimeLogRows converts time log models to engine snapshot rows
func TimeLogRows(logs []*TimeLog) []report.TimeLogRow {
	rows := make([]report.TimeLogRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, report.TimeLogRow{
			TrackerID: l.TrackerID,
			LogDate:   l.LogDate,
			Hours:     l.Hours,
		})
	}
	return rows
}
