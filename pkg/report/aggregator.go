package report

import (
	"sort"
	"strings"
	"time"

	"podreport/pkg/constants"
)

// Build folds a filtered snapshot into the Project → POD Lead → Trainer
// result tree. The computation is pure: no shared state, no mutation of
// the snapshot, identical input yields an identical tree.
//
// Unique-task counting is level-dependent and intentionally asymmetric:
// trainer level counts the trainer's distinct tasks, POD-lead level sums
// its trainers' counts (a task worked by two trainers counts twice), and
// project level recomputes the true distinct count across the project.
func Build(scope *Scope, snap *Snapshot) *Result {
	// Exclusions and filters are applied once, before any counting.
	allowedTasks := make(map[string]*TaskRow)
	knownTasks := make(map[string]struct{}, len(snap.Tasks))
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		knownTasks[t.TaskID] = struct{}{}
		if scope.AllowsTask(t) {
			allowedTasks[t.TaskID] = t
		}
	}

	completions := make([]CompletionRow, 0, len(snap.Completions))
	for i := range snap.Completions {
		c := &snap.Completions[i]
		if !scope.AllowsCompletion(c) {
			continue
		}
		if _, ok := allowedTasks[c.TaskID]; !ok {
			if _, known := knownTasks[c.TaskID]; known {
				// The canonical record exists but is excluded by
				// scope; its completions are excluded with it.
				continue
			}
			// No canonical record at all: keep the event so the
			// enricher records the drop.
		}
		completions = append(completions, *c)
	}

	attr := ResolveAttribution(completions)
	enriched := Enrich(attr, allowedTasks)
	hours := ReconcileHours(snap.TimeLogs, scope)

	org := buildOrg(scope, snap.Mappings)
	byProject := groupByProject(enriched.Summaries)

	projectIDs := collectProjectIDs(scope, org, byProject)

	result := &Result{
		ScopeKey:       scope.Key(),
		GeneratedAt:    time.Now().UTC(),
		Projects:       make([]*ProjectNode, 0, len(projectIDs)),
		DroppedTaskIDs: enriched.DroppedTaskIDs,
	}

	for _, projectID := range projectIDs {
		result.Projects = append(result.Projects,
			buildProject(projectID, org[projectID], byProject[projectID], allowedTasks, hours))
	}

	result.Tasks = buildTaskView(attr, allowedTasks, org)

	return result
}

// orgProject is the mapping-derived org chart of one project.
type orgProject struct {
	podLeads map[string][]MappingRow // pod lead email -> trainer rows
	trainers map[string]MappingRow   // trainer email -> its mapping row
}

func buildOrg(scope *Scope, mappings []MappingRow) map[string]*orgProject {
	org := make(map[string]*orgProject)
	for i := range mappings {
		m := mappings[i]
		if !scope.MatchesProject(m.ProjectID) {
			continue
		}
		m.TrainerEmail = strings.ToLower(m.TrainerEmail)
		m.PodLeadEmail = strings.ToLower(m.PodLeadEmail)

		p, ok := org[m.ProjectID]
		if !ok {
			p = &orgProject{
				podLeads: make(map[string][]MappingRow),
				trainers: make(map[string]MappingRow),
			}
			org[m.ProjectID] = p
		}

		// A trainer maps to exactly one POD lead per project; duplicate
		// rows resolve to the lexicographically smallest lead.
		if prev, dup := p.trainers[m.TrainerEmail]; dup {
			if prev.PodLeadEmail <= m.PodLeadEmail {
				continue
			}
			p.podLeads[prev.PodLeadEmail] = removeTrainer(p.podLeads[prev.PodLeadEmail], m.TrainerEmail)
		}
		p.trainers[m.TrainerEmail] = m
		p.podLeads[m.PodLeadEmail] = append(p.podLeads[m.PodLeadEmail], m)
	}
	return org
}

func removeTrainer(rows []MappingRow, trainer string) []MappingRow {
	out := rows[:0]
	for _, r := range rows {
		if r.TrainerEmail != trainer {
			out = append(out, r)
		}
	}
	return out
}

func groupByProject(summaries []TaskSummary) map[string][]TaskSummary {
	byProject := make(map[string][]TaskSummary)
	for _, s := range summaries {
		byProject[s.Task.ProjectID] = append(byProject[s.Task.ProjectID], s)
	}
	return byProject
}

func collectProjectIDs(scope *Scope, org map[string]*orgProject, byProject map[string][]TaskSummary) []string {
	set := make(map[string]struct{})
	for _, id := range scope.ProjectIDs() {
		set[id] = struct{}{}
	}
	for id := range org {
		set[id] = struct{}{}
	}
	for id := range byProject {
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func buildProject(projectID string, org *orgProject, summaries []TaskSummary, tasks map[string]*TaskRow, hours *HoursIndex) *ProjectNode {
	node := &ProjectNode{ProjectID: projectID}

	byTrainer := make(map[string][]TaskSummary)
	for _, s := range summaries {
		byTrainer[strings.ToLower(s.Trainer)] = append(byTrainer[strings.ToLower(s.Trainer)], s)
	}

	reviewers := projectReviewers(projectID, tasks)

	var projectTally tally
	mappedTaskIDs := make(map[string]struct{})

	if org != nil {
		podEmails := make([]string, 0, len(org.podLeads))
		for email := range org.podLeads {
			podEmails = append(podEmails, email)
		}
		sort.Strings(podEmails)

		for _, podEmail := range podEmails {
			pod := &PodLeadNode{Email: podEmail}

			rows := append([]MappingRow(nil), org.podLeads[podEmail]...)
			sort.Slice(rows, func(i, j int) bool { return rows[i].TrainerEmail < rows[j].TrainerEmail })

			for _, m := range rows {
				trainer := buildTrainer(m, byTrainer[m.TrainerEmail], reviewers, hours)
				pod.tally = pod.tally.add(trainer.tally)
				pod.Trainers = append(pod.Trainers, trainer)
				for _, taskID := range trainer.TaskIDs {
					mappedTaskIDs[taskID] = struct{}{}
				}
			}

			pod.Metrics = pod.tally.metrics()
			projectTally = projectTally.add(pod.tally)
			node.PodLeads = append(node.PodLeads, pod)
		}
	}

	// Completers with no mapping row stay visible for task-level
	// traceability but contribute to no POD-lead or project rollup.
	node.UnmappedTrainers = buildUnmapped(org, byTrainer)

	// Project-level unique_tasks is the true distinct count; all other
	// counts stay summed from the POD-lead tallies.
	projectTally.uniqueTasks = len(mappedTaskIDs)
	node.Metrics = projectTally.metrics()

	return node
}

func buildTrainer(m MappingRow, summaries []TaskSummary, reviewers map[string]struct{}, hours *HoursIndex) *TrainerNode {
	node := &TrainerNode{
		Email:   m.TrainerEmail,
		PodLead: m.PodLeadEmail,
		Status:  constants.TrainerStatusActive,
	}
	if !m.Active {
		node.Status = constants.TrainerStatusInactive
	}
	if len(summaries) == 0 {
		if _, reviewed := reviewers[m.TrainerEmail]; reviewed {
			node.Status = constants.TrainerStatusDeliveryOnly
		}
	}

	node.tally = tallyFromSummaries(summaries)
	node.tally.loggedHours = hours.Hours(m.TrackerID)
	node.Metrics = node.tally.metrics()
	node.TaskIDs = distinctTaskIDs(summaries)

	return node
}

func buildUnmapped(org *orgProject, byTrainer map[string][]TaskSummary) []*TrainerNode {
	var unmapped []*TrainerNode
	for email, summaries := range byTrainer {
		if org != nil {
			if _, ok := org.trainers[email]; ok {
				continue
			}
		}
		node := &TrainerNode{
			Email:   email,
			Status:  constants.TrainerStatusUnmapped,
			TaskIDs: distinctTaskIDs(summaries),
			tally:   tallyFromSummaries(summaries),
		}
		node.Metrics = node.tally.metrics()
		unmapped = append(unmapped, node)
	}
	sort.Slice(unmapped, func(i, j int) bool { return unmapped[i].Email < unmapped[j].Email })
	return unmapped
}

func projectReviewers(projectID string, tasks map[string]*TaskRow) map[string]struct{} {
	reviewers := make(map[string]struct{})
	for _, t := range tasks {
		if t.ProjectID == projectID && t.LatestReviewer != "" {
			reviewers[strings.ToLower(t.LatestReviewer)] = struct{}{}
		}
	}
	return reviewers
}

func distinctTaskIDs(summaries []TaskSummary) []string {
	if len(summaries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(summaries))
	ids := make([]string, 0, len(summaries))
	for i := range summaries {
		if _, ok := seen[summaries[i].TaskID]; ok {
			continue
		}
		seen[summaries[i].TaskID] = struct{}{}
		ids = append(ids, summaries[i].TaskID)
	}
	sort.Strings(ids)
	return ids
}

func buildTaskView(attr *Attribution, tasks map[string]*TaskRow, org map[string]*orgProject) []TaskDetail {
	details := make([]TaskDetail, 0, len(attr.TaskIDs()))
	for _, taskID := range attr.TaskIDs() {
		t, ok := tasks[taskID]
		if !ok {
			continue
		}
		owner := strings.ToLower(attr.Owner(taskID))
		ownerMapped := false
		if p := org[t.ProjectID]; p != nil {
			_, ownerMapped = p.trainers[owner]
		}
		details = append(details, TaskDetail{
			TaskID:          t.TaskID,
			ProjectID:       t.ProjectID,
			Owner:           owner,
			OwnerMapped:     ownerMapped,
			Status:          t.Status,
			DeliveryStatus:  t.DeliveryStatus,
			DeliveryBatch:   t.DeliveryBatch,
			IsDelivered:     IsDelivered(t),
			IsInQueue:       IsInQueue(t),
			Submissions:     len(attr.TaskCredits(taskID)),
			LatestReviewer:  strings.ToLower(t.LatestReviewer),
			LatestScore:     t.LatestScore,
			LatestAction:    t.LatestAction,
			DurationMinutes: t.DurationMinutes,
			LastCompletedAt: t.LastCompletedAt,
		})
	}
	return details
}
