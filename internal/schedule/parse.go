package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"greenthumb/pkg/gardentypes"
)

// MalformedResponseError reports a completion that could not be parsed as a schedule.
// Normalized and Raw are kept for operator logs; they are never shown to end users.
type MalformedResponseError struct {
	Cause      error
	Normalized string
	Raw        string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("received an invalid schedule format from the AI: %v (the AI's response might be malformed or not valid JSON)", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Parse validates normalized as a JSON object and maps it onto a GeneratedSchedule.
// Syntax errors fail the whole call; once the document is valid every field is read
// defensively and wrong types are treated as absent.
func Parse(normalized, raw string) (*gardentypes.GeneratedSchedule, error) {
	var probe interface{}
	if err := json.Unmarshal([]byte(normalized), &probe); err != nil {
		return nil, &MalformedResponseError{Cause: err, Normalized: normalized, Raw: raw}
	}
	if _, ok := probe.(map[string]interface{}); !ok {
		return nil, &MalformedResponseError{
			Cause:      fmt.Errorf("expected a JSON object, got %s", describeJSON(probe)),
			Normalized: normalized,
			Raw:        raw,
		}
	}

	return mapSchedule(gjson.Parse(normalized)), nil
}

// ParseRaw runs Normalize and Parse on a raw completion.
func ParseRaw(raw string) (*gardentypes.GeneratedSchedule, error) {
	return Parse(Normalize(raw), raw)
}

func describeJSON(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func mapSchedule(doc gjson.Result) *gardentypes.GeneratedSchedule {
	s := &gardentypes.GeneratedSchedule{
		GreetingMessage:        looseString(doc.Get("greetingMessage")),
		LocationAnalysis:       mapLocationAnalysis(doc.Get("locationAnalysis")),
		PlantRecommendations:   mapPlants(doc.Get("plantRecommendations")),
		MonthlyTasks:           mapMonthlyTasks(doc.Get("monthlyTasks")),
		SuccessionPlantingTips: mapSuccessionTips(doc.Get("successionPlantingTips")),
		GeneralGardeningAdvice: looseStrings(doc.Get("generalGardeningAdvice")),
		SeasonalOverview:       looseString(doc.Get("seasonalOverview")),
	}
	return s
}

func mapLocationAnalysis(r gjson.Result) gardentypes.LocationAnalysis {
	if !r.IsObject() {
		return gardentypes.LocationAnalysis{}
	}
	return gardentypes.LocationAnalysis{
		AssumedClimateZone: looseString(r.Get("assumedClimateZone")),
		FirstFrostDate:     looseString(r.Get("firstFrostDate")),
		LastFrostDate:      looseString(r.Get("lastFrostDate")),
		Notes:              looseString(r.Get("notes")),
	}
}

func mapPlants(r gjson.Result) []gardentypes.PlantRecommendation {
	if !r.IsArray() {
		return nil
	}
	var plants []gardentypes.PlantRecommendation
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		plants = append(plants, gardentypes.PlantRecommendation{
			PlantName:             looseString(item.Get("plantName")),
			Variety:               looseString(item.Get("variety")),
			Suitability:           looseString(item.Get("suitability")),
			PlantingMethod:        looseString(item.Get("plantingMethod")),
			IndoorStartWindow:     looseString(item.Get("indoorStartWindow")),
			OutdoorPlantingWindow: looseString(item.Get("outdoorPlantingWindow")),
			DaysToMaturity:        looseString(item.Get("daysToMaturity")),
			CareInstructions:      looseStrings(item.Get("careInstructions")),
			CompanionPlants:       looseStrings(item.Get("companionPlants")),
			HarvestTime:           looseString(item.Get("harvestTime")),
			Notes:                 looseString(item.Get("notes")),
		})
	}
	return plants
}

// mapMonthlyTasks keeps only the twelve calendar months, canonicalizing their names.
func mapMonthlyTasks(r gjson.Result) map[string][]gardentypes.MonthlyTaskItem {
	tasks := make(map[string][]gardentypes.MonthlyTaskItem)
	if !r.IsObject() {
		return tasks
	}
	r.ForEach(func(key, value gjson.Result) bool {
		month, ok := gardentypes.CanonicalMonth(key.String())
		if !ok {
			return true
		}
		items := mapTaskItems(value)
		if len(items) > 0 {
			tasks[month] = append(tasks[month], items...)
		}
		return true
	})
	return tasks
}

func mapTaskItems(r gjson.Result) []gardentypes.MonthlyTaskItem {
	var entries []gjson.Result
	switch {
	case r.IsArray():
		entries = r.Array()
	case r.IsObject(), r.Type == gjson.String:
		entries = []gjson.Result{r}
	default:
		return nil
	}

	var items []gardentypes.MonthlyTaskItem
	for _, entry := range entries {
		var item gardentypes.MonthlyTaskItem
		switch {
		case entry.IsObject():
			item = gardentypes.MonthlyTaskItem{
				Task:     looseString(entry.Get("task")),
				Details:  looseString(entry.Get("details")),
				Category: looseString(entry.Get("category")),
			}
		case entry.Type == gjson.String:
			item = gardentypes.MonthlyTaskItem{Task: entry.Str}
		default:
			continue
		}
		if strings.TrimSpace(item.Task) == "" && strings.TrimSpace(item.Details) == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func mapSuccessionTips(r gjson.Result) []gardentypes.SuccessionPlantingTip {
	if !r.IsArray() {
		return nil
	}
	var tips []gardentypes.SuccessionPlantingTip
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		tips = append(tips, gardentypes.SuccessionPlantingTip{
			InitialCrop:  looseString(item.Get("initialCrop")),
			FollowUpCrop: looseString(item.Get("followUpCrop")),
			Timing:       looseString(item.Get("timing")),
			Notes:        looseString(item.Get("notes")),
		})
	}
	return tips
}

// looseString reads scalars as text; objects, arrays and null read as absent.
func looseString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return ""
	}
}

// looseStrings accepts an array of scalars or a single string.
func looseStrings(r gjson.Result) []string {
	if r.Type == gjson.String {
		if strings.TrimSpace(r.Str) == "" {
			return nil
		}
		return []string{r.Str}
	}
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, item := range r.Array() {
		if s := looseString(item); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
