package gardentypes

import "time"

// MaxHistoryEntries caps the number of saved schedules.
const MaxHistoryEntries = 10

// HistoricalScheduleEntry is a saved snapshot of a generated schedule.
type HistoricalScheduleEntry struct {
	ID       string            `json:"id"`
	SavedAt  time.Time         `json:"savedAt"`
	Location string            `json:"location"`
	Schedule GeneratedSchedule `json:"schedule"`
	Name     string            `json:"name,omitempty"`
}

// DisplayName returns the user-defined name when set, otherwise the derived location label.
func (e HistoricalScheduleEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Location
}
