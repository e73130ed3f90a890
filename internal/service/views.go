package service

import (
	"sort"

	"podreport/pkg/report"
)

const (
	ViewTree     = "tree"
	ViewProjects = "projects"
	ViewTrainers = "trainers"
	ViewPodLeads = "podleads"
	ViewTasks    = "tasks"
)

// TreeView is the fully nested project report.
type TreeView struct {
	GeneratedAt string                `json:"generated_at"`
	Projects    []*report.ProjectNode `json:"projects"`
}

// TrainerRow flattens one trainer for the tabular trainer view.
type TrainerRow struct {
	ProjectID string         `json:"project_id"`
	PodLead   string         `json:"pod_lead"`
	Trainer   string         `json:"trainer"`
	Status    string         `json:"status"`
	Metrics   report.Metrics `json:"metrics"`
}

// PodLeadRow flattens one POD lead rollup.
type PodLeadRow struct {
	ProjectID string         `json:"project_id"`
	PodLead   string         `json:"pod_lead"`
	Trainers  int            `json:"trainers"`
	Metrics   report.Metrics `json:"metrics"`
}

// TasksView lists per-task details plus completion ids that matched no
// known task.
type TasksView struct {
	GeneratedAt    string              `json:"generated_at"`
	Tasks          []report.TaskDetail `json:"tasks"`
	DroppedTaskIDs []string            `json:"dropped_task_ids"`
}

func buildTreeView(res *report.Result) *TreeView {
	return &TreeView{
		GeneratedAt: res.GeneratedAt.Format(timeLayout),
		Projects:    res.Projects,
	}
}

func buildTrainerRows(res *report.Result) []TrainerRow {
	rows := make([]TrainerRow, 0)
	for _, proj := range res.Projects {
		for _, pod := range proj.PodLeads {
			for _, tr := range pod.Trainers {
				rows = append(rows, TrainerRow{
					ProjectID: proj.ProjectID,
					PodLead:   pod.Email,
					Trainer:   tr.Email,
					Status:    string(tr.Status),
					Metrics:   tr.Metrics,
				})
			}
		}
		for _, tr := range proj.UnmappedTrainers {
			rows = append(rows, TrainerRow{
				ProjectID: proj.ProjectID,
				Trainer:   tr.Email,
				Status:    string(tr.Status),
				Metrics:   tr.Metrics,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProjectID != rows[j].ProjectID {
			return rows[i].ProjectID < rows[j].ProjectID
		}
		return rows[i].Trainer < rows[j].Trainer
	})
	return rows
}

func buildPodLeadRows(res *report.Result) []PodLeadRow {
	rows := make([]PodLeadRow, 0)
	for _, proj := range res.Projects {
		for _, pod := range proj.PodLeads {
			rows = append(rows, PodLeadRow{
				ProjectID: proj.ProjectID,
				PodLead:   pod.Email,
				Trainers:  len(pod.Trainers),
				Metrics:   pod.Metrics,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProjectID != rows[j].ProjectID {
			return rows[i].ProjectID < rows[j].ProjectID
		}
		return rows[i].PodLead < rows[j].PodLead
	})
	return rows
}

func buildTasksView(res *report.Result) *TasksView {
	dropped := res.DroppedTaskIDs
	if dropped == nil {
		dropped = []string{}
	}
	return &TasksView{
		GeneratedAt:    res.GeneratedAt.Format(timeLayout),
		Tasks:          res.Tasks,
		DroppedTaskIDs: dropped,
	}
}
