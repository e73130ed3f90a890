package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"podreport/pkg/constants"
)

// Params is the raw query scope as received from the transport layer.
type Params struct {
	ProjectIDs []string // empty means all projects
	From       *time.Time
	To         *time.Time
	Trainer    string
	Reviewer   string
	MinScore   *float64
}

// Exclusions is process-wide filtering policy from configuration.
type Exclusions struct {
	Batches      []string // delivery batch names removed before any counting
	DraftBatches bool     // drop tasks whose batch is still flagged draft
}

// Scope is the canonical, validated predicate applied identically at every
// aggregation layer. Exclusions are applied once, upstream of all counting.
type Scope struct {
	projectIDs      []string
	projectSet      map[string]struct{}
	from            *time.Time
	to              *time.Time
	trainer         string
	reviewer        string
	minScore        *float64
	excludedBatches map[string]struct{}
	excludeDraft    bool
}

// NewScope validates and normalizes a query scope. Date bounds are
// inclusive; an absent bound means unbounded on that side.
func NewScope(p Params, ex Exclusions) (*Scope, error) {
	if p.From != nil && p.To != nil && p.From.After(*p.To) {
		return nil, fmt.Errorf("%w: date_from %s is after date_to %s",
			ErrInvalidScope, p.From.Format(constants.DateLayout), p.To.Format(constants.DateLayout))
	}

	s := &Scope{
		from:            p.From,
		to:              p.To,
		trainer:         strings.ToLower(strings.TrimSpace(p.Trainer)),
		reviewer:        strings.ToLower(strings.TrimSpace(p.Reviewer)),
		minScore:        p.MinScore,
		excludeDraft:    ex.DraftBatches,
		excludedBatches: make(map[string]struct{}, len(ex.Batches)),
	}

	seen := make(map[string]struct{}, len(p.ProjectIDs))
	for _, id := range p.ProjectIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: empty project id", ErrInvalidScope)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.projectIDs = append(s.projectIDs, id)
	}
	sort.Strings(s.projectIDs)
	s.projectSet = seen

	for _, b := range ex.Batches {
		s.excludedBatches[strings.ToLower(strings.TrimSpace(b))] = struct{}{}
	}

	return s, nil
}

// ProjectIDs returns the normalized project filter, empty for all projects.
func (s *Scope) ProjectIDs() []string {
	return s.projectIDs
}

// From returns the inclusive lower date bound, nil when unbounded.
func (s *Scope) From() *time.Time {
	return s.from
}

// To returns the inclusive upper date bound, nil when unbounded.
func (s *Scope) To() *time.Time {
	return s.to
}

// MatchesProject reports whether a project id is inside the scope.
func (s *Scope) MatchesProject(id string) bool {
	if len(s.projectSet) == 0 {
		return true
	}
	_, ok := s.projectSet[id]
	return ok
}

// InRange reports whether a timestamp falls inside the inclusive date
// bounds. The upper bound covers the whole of its calendar day.
func (s *Scope) InRange(t time.Time) bool {
	if s.from != nil && t.Before(*s.from) {
		return false
	}
	if s.to != nil && !t.Before(s.to.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// AllowsTask applies project, batch-exclusion, draft and review filters to
// a canonical task record.
func (s *Scope) AllowsTask(t *TaskRow) bool {
	if !s.MatchesProject(t.ProjectID) {
		return false
	}
	if t.DeliveryBatch != "" {
		if _, excluded := s.excludedBatches[strings.ToLower(t.DeliveryBatch)]; excluded {
			return false
		}
		if s.excludeDraft && t.DraftBatch {
			return false
		}
	}
	if s.reviewer != "" && strings.ToLower(t.LatestReviewer) != s.reviewer {
		return false
	}
	if s.minScore != nil {
		if t.LatestScore == nil || *t.LatestScore < *s.minScore {
			return false
		}
	}
	return true
}

// AllowsCompletion applies project, date-range and trainer filters to a
// completion event.
func (s *Scope) AllowsCompletion(c *CompletionRow) bool {
	if !s.MatchesProject(c.ProjectID) {
		return false
	}
	if !s.InRange(c.CompletedAt) {
		return false
	}
	if s.trainer != "" && strings.ToLower(c.TrainerEmail) != s.trainer {
		return false
	}
	return true
}

// Key returns a canonical, stable string identifying the scope. Used as
// the response-cache key fragment; identical scopes yield identical keys.
func (s *Scope) Key() string {
	var b strings.Builder
	b.WriteString("projects=")
	b.WriteString(strings.Join(s.projectIDs, ","))
	b.WriteString("|from=")
	if s.from != nil {
		b.WriteString(s.from.Format(constants.DateLayout))
	}
	b.WriteString("|to=")
	if s.to != nil {
		b.WriteString(s.to.Format(constants.DateLayout))
	}
	b.WriteString("|trainer=")
	b.WriteString(s.trainer)
	b.WriteString("|reviewer=")
	b.WriteString(s.reviewer)
	b.WriteString("|min_score=")
	if s.minScore != nil {
		b.WriteString(fmt.Sprintf("%.2f", *s.minScore))
	}
	return b.String()
}
