package gardentypes

import (
	"fmt"
	"strings"
)

// SpaceType identifies where the user gardens.
type SpaceType string

// Supported gardening spaces.
const (
	SpaceIndoor        SpaceType = "indoor"
	SpaceOutdoorGround SpaceType = "outdoor-ground"
	SpaceContainer     SpaceType = "container"
	SpaceRaisedBed     SpaceType = "raised-bed"
	SpaceBalcony       SpaceType = "balcony"
	SpaceGreenhouse    SpaceType = "greenhouse"
)

var spaceTypeLabels = map[SpaceType]string{
	SpaceIndoor:        "Indoor (windowsill, grow lights)",
	SpaceOutdoorGround: "Outdoor (in-ground garden beds)",
	SpaceContainer:     "Outdoor (containers/pots)",
	SpaceRaisedBed:     "Outdoor (raised beds)",
	SpaceBalcony:       "Balcony Garden",
	SpaceGreenhouse:    "Greenhouse",
}

// SpaceTypes returns every supported space type in display order.
func SpaceTypes() []SpaceType {
	return []SpaceType{SpaceIndoor, SpaceOutdoorGround, SpaceContainer, SpaceRaisedBed, SpaceBalcony, SpaceGreenhouse}
}

// Label returns the descriptive text used in prompts.
func (s SpaceType) Label() string {
	if label, ok := spaceTypeLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the supported space types.
func (s SpaceType) Valid() bool {
	_, ok := spaceTypeLabels[s]
	return ok
}

// ParseSpaceType converts user input such as "Raised-Bed" into a SpaceType.
func ParseSpaceType(value string) (SpaceType, error) {
	s := SpaceType(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown space type %q (expected one of %s)", value, joinSpaceTypes())
	}
	return s, nil
}

func joinSpaceTypes() string {
	names := make([]string, 0, len(spaceTypeLabels))
	for _, s := range SpaceTypes() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// ExperienceLevel describes how experienced the gardener is.
type ExperienceLevel string

// Supported experience levels.
const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

var experienceLabels = map[ExperienceLevel]string{
	ExperienceBeginner:     "Beginner (just starting out)",
	ExperienceIntermediate: "Intermediate (some experience)",
	ExperienceAdvanced:     "Advanced (very experienced)",
}

// Label returns the descriptive text used in prompts.
func (e ExperienceLevel) Label() string {
	if label, ok := experienceLabels[e]; ok {
		return label
	}
	return string(e)
}

// Valid reports whether e is one of the supported experience levels.
func (e ExperienceLevel) Valid() bool {
	_, ok := experienceLabels[e]
	return ok
}

// ParseExperienceLevel converts user input into an ExperienceLevel.
func ParseExperienceLevel(value string) (ExperienceLevel, error) {
	e := ExperienceLevel(strings.ToLower(strings.TrimSpace(value)))
	if !e.Valid() {
		return "", fmt.Errorf("unknown experience level %q (expected beginner, intermediate or advanced)", value)
	}
	return e, nil
}

// UserInput is the gardening context submitted for one schedule request.
type UserInput struct {
	Location        string          `json:"location"`
	SpaceType       SpaceType       `json:"spaceType"`
	Goals           string          `json:"goals"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	SpecificPlants  string          `json:"specificPlants,omitempty"`
}

// Validate checks that the required fields are present and enums are known.
func (u UserInput) Validate() error {
	if strings.TrimSpace(u.Location) == "" {
		return fmt.Errorf("location is required")
	}
	if strings.TrimSpace(u.Goals) == "" {
		return fmt.Errorf("gardening goals are required")
	}
	if !u.SpaceType.Valid() {
		return fmt.Errorf("unknown space type %q", u.SpaceType)
	}
	if !u.ExperienceLevel.Valid() {
		return fmt.Errorf("unknown experience level %q", u.ExperienceLevel)
	}
	return nil
}
