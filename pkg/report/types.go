package report

import (
	"time"

	"podreport/pkg/constants"
)

// Snapshot is a point-in-time, read-only view of the backing tables.
// The engine never mutates it; identical snapshots yield identical results.
type Snapshot struct {
	Tasks       []TaskRow
	Completions []CompletionRow
	Mappings    []MappingRow
	TimeLogs    []TimeLogRow
}

// TaskRow is the canonical per-task record, including review aggregates
// maintained by the external ingestion process.
type TaskRow struct {
	TaskID          string
	ProjectID       string
	CreatedAt       time.Time
	LastCompletedAt *time.Time
	Status          string
	DeliveryStatus  string
	DeliveryBatch   string
	DraftBatch      bool
	ReviewCount     int
	ScoreSum        float64
	FollowupSum     int
	LatestReviewer  string
	LatestScore     *float64
	LatestAction    string
	LatestReviewAt  *time.Time
	DurationMinutes float64
}

// CompletionRow is one status transition into "completed". Counter is the
// monotonically increasing per-task completion counter: 1 marks the first
// completion, anything above is a rework resubmission.
type CompletionRow struct {
	TaskID       string
	ProjectID    string
	TrainerEmail string
	CompletedAt  time.Time
	Counter      int
}

// MappingRow ties a trainer to a POD lead within a project and carries the
// external time-tracking identifier. Trainers absent from the mapping are
// out of scope for hierarchy rollups.
type MappingRow struct {
	TrainerEmail string
	PodLeadEmail string
	ProjectID    string
	Active       bool
	TrackerID    string
}

// TimeLogRow is one (tracker, day) entry of logged hours.
type TimeLogRow struct {
	TrackerID string
	LogDate   time.Time
	Hours     float64
}

// TrainerNode is one trainer's slice of the result tree.
type TrainerNode struct {
	Email   string                  `json:"email"`
	PodLead string                  `json:"pod_lead,omitempty"`
	Status  constants.TrainerStatus `json:"status"`
	Metrics Metrics                 `json:"metrics"`
	TaskIDs []string                `json:"task_ids,omitempty"`

	tally tally
}

// PodLeadNode owns one or more trainers. Its counts are sums over the
// trainers, never deduplicated.
type PodLeadNode struct {
	Email    string         `json:"email"`
	Metrics  Metrics        `json:"metrics"`
	Trainers []*TrainerNode `json:"trainers"`

	tally tally
}

// ProjectNode is the root of one project's rollup. UniqueTasks on its
// metrics is the true distinct count across the project, unlike the
// summed POD-lead counts.
type ProjectNode struct {
	ProjectID        string         `json:"project_id"`
	Metrics          Metrics        `json:"metrics"`
	PodLeads         []*PodLeadNode `json:"pod_leads"`
	UnmappedTrainers []*TrainerNode `json:"unmapped_trainers,omitempty"`
}

// TaskDetail is one row of the flat task view, attributed to its owning
// trainer (last completion author).
type TaskDetail struct {
	TaskID          string     `json:"task_id"`
	ProjectID       string     `json:"project_id"`
	Owner           string     `json:"owner"`
	OwnerMapped     bool       `json:"owner_mapped"`
	Status          string     `json:"status"`
	DeliveryStatus  string     `json:"delivery_status,omitempty"`
	DeliveryBatch   string     `json:"delivery_batch,omitempty"`
	IsDelivered     bool       `json:"is_delivered"`
	IsInQueue       bool       `json:"is_in_queue"`
	Submissions     int        `json:"submissions"`
	LatestReviewer  string     `json:"latest_reviewer,omitempty"`
	LatestScore     *float64   `json:"latest_score,omitempty"`
	LatestAction    string     `json:"latest_action,omitempty"`
	DurationMinutes float64    `json:"duration_minutes"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// Result is the full aggregate tree for one scope. Constructed fresh per
// request, never persisted, immutable after Build returns.
type Result struct {
	ScopeKey    string         `json:"scope_key"`
	GeneratedAt time.Time      `json:"generated_at"`
	Projects    []*ProjectNode `json:"projects"`
	Tasks       []TaskDetail   `json:"tasks"`

	// DroppedTaskIDs lists completion task ids with no canonical task
	// record (race with ingestion). Reported, never fatal.
	DroppedTaskIDs []string `json:"-"`
}
