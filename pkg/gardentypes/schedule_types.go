package gardentypes

import "strings"

// Months lists the canonical month keys of MonthlyTasks in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// CanonicalMonth returns the canonical month name for name, matched case-insensitively.
func CanonicalMonth(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, month := range Months {
		if strings.EqualFold(month, trimmed) {
			return month, true
		}
	}
	return "", false
}

// LocationAnalysis holds the provider's climate reasoning. All values are free text.
type LocationAnalysis struct {
	AssumedClimateZone string `json:"assumedClimateZone,omitempty"`
	FirstFrostDate     string `json:"firstFrostDate,omitempty"`
	LastFrostDate      string `json:"lastFrostDate,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// IsEmpty reports whether no field of the analysis is set.
func (l LocationAnalysis) IsEmpty() bool {
	return l == LocationAnalysis{}
}

// PlantRecommendation describes one recommended (or explicitly discouraged) plant.
type PlantRecommendation struct {
	PlantName             string   `json:"plantName"`
	Variety               string   `json:"variety,omitempty"`
	Suitability           string   `json:"suitability"`
	PlantingMethod        string   `json:"plantingMethod"`
	IndoorStartWindow     string   `json:"indoorStartWindow,omitempty"`
	OutdoorPlantingWindow string   `json:"outdoorPlantingWindow,omitempty"`
	DaysToMaturity        string   `json:"daysToMaturity,omitempty"`
	CareInstructions      []string `json:"careInstructions,omitempty"`
	CompanionPlants       []string `json:"companionPlants,omitempty"`
	HarvestTime           string   `json:"harvestTime,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}

// MonthlyTaskItem is one task scheduled for a month.
type MonthlyTaskItem struct {
	Task     string `json:"task"`
	Details  string `json:"details,omitempty"`
	Category string `json:"category,omitempty"`
}

// SuccessionPlantingTip pairs a crop with the crop that should follow it.
type SuccessionPlantingTip struct {
	InitialCrop  string `json:"initialCrop"`
	FollowUpCrop string `json:"followUpCrop"`
	Timing       string `json:"timing,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// GeneratedSchedule is the gardening plan produced by the text-completion provider.
// Everything but the month keys of MonthlyTasks comes from an untrusted source and may be empty.
type GeneratedSchedule struct {
	GreetingMessage        string                       `json:"greetingMessage,omitempty"`
	LocationAnalysis       LocationAnalysis             `json:"locationAnalysis"`
	PlantRecommendations   []PlantRecommendation        `json:"plantRecommendations"`
	MonthlyTasks           map[string][]MonthlyTaskItem `json:"monthlyTasks"`
	SuccessionPlantingTips []SuccessionPlantingTip      `json:"successionPlantingTips,omitempty"`
	GeneralGardeningAdvice []string                     `json:"generalGardeningAdvice,omitempty"`
	SeasonalOverview       string                       `json:"seasonalOverview,omitempty"`
}

// TasksFor returns the tasks scheduled for month, or nil.
func (s *GeneratedSchedule) TasksFor(month string) []MonthlyTaskItem {
	if s == nil || s.MonthlyTasks == nil {
		return nil
	}
	return s.MonthlyTasks[month]
}
