package report

// HoursIndex maps time-tracking identifiers to logged hours summed over
// the scope's date range. Time logs only relate to trainers and POD leads
// through the org mapping's tracker id.
type HoursIndex struct {
	byTracker map[string]float64
}

// ReconcileHours sums logged hours per tracker id, restricted to the
// scope's inclusive date bounds.
func ReconcileHours(logs []TimeLogRow, scope *Scope) *HoursIndex {
	idx := &HoursIndex{byTracker: make(map[string]float64)}
	for i := range logs {
		l := &logs[i]
		if l.TrackerID == "" {
			continue
		}
		if !scope.InRange(l.LogDate) {
			continue
		}
		idx.byTracker[l.TrackerID] += l.Hours
	}
	return idx
}

// Hours returns the summed logged hours for one tracker id, zero when the
// tracker logged nothing in range.
func (h *HoursIndex) Hours(trackerID string) float64 {
	if trackerID == "" {
		return 0
	}
	return h.byTracker[trackerID]
}
