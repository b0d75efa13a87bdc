package shell

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"greenthumb/pkg/gardentypes"
)

// historyLabelWidth bounds the label column of history listings.
const historyLabelWidth = 48

// historyTimeLayout is the timestamp format used in history listings.
const historyTimeLayout = "2006-01-02 15:04"

// FormatHistoryLine renders one history entry as "3. Austin, TX  2025-04-01 09:30  01J..".
// index is 1-based.
func FormatHistoryLine(index int, entry gardentypes.HistoricalScheduleEntry) string {
	label := ansi.Truncate(entry.DisplayName(), historyLabelWidth, "…")
	return fmt.Sprintf("%2d. %-*s  %s  %s", index, historyLabelWidth, label, entry.SavedAt.Local().Format(historyTimeLayout), entry.ID)
}
