package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchedule = `{
  "greetingMessage": "Hello! Here is your schedule for Austin, TX.",
  "locationAnalysis": {
    "assumedClimateZone": "USDA Zone 8b",
    "firstFrostDate": "Nov 15 - Nov 30",
    "lastFrostDate": "Feb 20 - Mar 5",
    "notes": "Hot summers."
  },
  "plantRecommendations": [
    {
      "plantName": "Basil",
      "variety": "Genovese",
      "suitability": "Thrives in heat.",
      "plantingMethod": "Purchase seedlings",
      "careInstructions": ["Water daily in summer.", "Pinch flowers."],
      "companionPlants": ["Tomato"],
      "daysToMaturity": 60
    }
  ],
  "monthlyTasks": {
    "march": [{"task": "Plant basil", "details": "After last frost", "category": "Sowing"}],
    "April": [{"task": "Mulch"}],
    "Spring": [{"task": "ignored"}]
  },
  "successionPlantingTips": [
    {"initialCrop": "Radish", "followUpCrop": "Bush beans", "timing": "Late spring"}
  ],
  "generalGardeningAdvice": ["Start small.", "Use good potting mix."],
  "seasonalOverview": "Long growing season."
}`

func TestParse_FullSchedule(t *testing.T) {
	s, err := Parse(sampleSchedule, sampleSchedule)
	require.NoError(t, err)

	assert.Equal(t, "Hello! Here is your schedule for Austin, TX.", s.GreetingMessage)
	assert.Equal(t, "USDA Zone 8b", s.LocationAnalysis.AssumedClimateZone)
	assert.Equal(t, "Feb 20 - Mar 5", s.LocationAnalysis.LastFrostDate)

	require.Len(t, s.PlantRecommendations, 1)
	basil := s.PlantRecommendations[0]
	assert.Equal(t, "Basil", basil.PlantName)
	assert.Equal(t, "60", basil.DaysToMaturity)
	assert.Equal(t, []string{"Water daily in summer.", "Pinch flowers."}, basil.CareInstructions)

	require.Len(t, s.MonthlyTasks, 2)
	assert.Equal(t, "Plant basil", s.MonthlyTasks["March"][0].Task)
	assert.Equal(t, "Sowing", s.MonthlyTasks["March"][0].Category)
	assert.NotContains(t, s.MonthlyTasks, "Spring")

	require.Len(t, s.SuccessionPlantingTips, 1)
	assert.Equal(t, "Bush beans", s.SuccessionPlantingTips[0].FollowUpCrop)
	assert.Len(t, s.GeneralGardeningAdvice, 2)
	assert.Equal(t, "Long growing season.", s.SeasonalOverview)
}

func TestParse_ToleratesMissingAndMistypedFields(t *testing.T) {
	doc := `{
  "greetingMessage": {"text": "nested"},
  "locationAnalysis": "unknown",
  "plantRecommendations": [
    "Tomato",
    {"plantName": "Mint", "careInstructions": "Keep moist.", "companionPlants": [1, null, "Cabbage"]}
  ],
  "monthlyTasks": {"June": "Harvest herbs", "July": 7},
  "generalGardeningAdvice": 42
}`
	s, err := Parse(doc, doc)
	require.NoError(t, err)

	assert.Empty(t, s.GreetingMessage)
	assert.True(t, s.LocationAnalysis.IsEmpty())
	require.Len(t, s.PlantRecommendations, 1)
	assert.Equal(t, []string{"Keep moist."}, s.PlantRecommendations[0].CareInstructions)
	assert.Equal(t, []string{"1", "Cabbage"}, s.PlantRecommendations[0].CompanionPlants)
	assert.Equal(t, "Harvest herbs", s.MonthlyTasks["June"][0].Task)
	assert.NotContains(t, s.MonthlyTasks, "July")
	assert.Nil(t, s.GeneralGardeningAdvice)
	assert.Nil(t, s.SuccessionPlantingTips)
}

func TestParse_EmptyObject(t *testing.T) {
	s, err := Parse("{}", "{}")
	require.NoError(t, err)
	assert.NotNil(t, s.MonthlyTasks)
	assert.Empty(t, s.PlantRecommendations)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		contains   string
	}{
		{name: "prose", normalized: "Here is your plan: {\"a\": 1}", contains: "invalid character"},
		{name: "truncated", normalized: `{"greetingMessage": "hi"`, contains: "unexpected end of JSON input"},
		{name: "array", normalized: `[{"task": "x"}]`, contains: "expected a JSON object, got an array"},
		{name: "null", normalized: `null`, contains: "got null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "RAW:" + tt.normalized
			s, err := Parse(tt.normalized, raw)
			assert.Nil(t, s)
			require.Error(t, err)

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.normalized, malformed.Normalized)
			assert.Equal(t, raw, malformed.Raw)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "might be malformed or not valid JSON")
		})
	}
}

func TestParseRaw_UnwrappedProseFailsDescriptively(t *testing.T) {
	raw := "Sure! Here it is:\n{\"greetingMessage\": \"hi\"}\nLet me know."
	assert.Equal(t, "Sure! Here it is:\n{\"greetingMessage\": \"hi\"}\nLet me know.", Normalize(raw))

	_, err := ParseRaw(raw)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Raw)
}

func TestParseRaw_Fenced(t *testing.T) {
	s, err := ParseRaw("```json\n" + sampleSchedule + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "USDA Zone 8b", s.LocationAnalysis.AssumedClimateZone)
}
