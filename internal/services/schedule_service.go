package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"greenthumb/internal/data/embedded"
	"greenthumb/internal/logger"
	"greenthumb/internal/schedule"
	"greenthumb/pkg/gardentypes"
)

// ScheduleService turns a UserInput into a GeneratedSchedule and tracks the active schedule.
type ScheduleService struct {
	config  *ConfigurationService
	clients *ClientFactoryService
	storage *StorageService
}

// NewScheduleService creates a schedule service.
func NewScheduleService(config *ConfigurationService, clients *ClientFactoryService, storage *StorageService) *ScheduleService {
	return &ScheduleService{config: config, clients: clients, storage: storage}
}

// Name returns the service name "schedule" for registration.
func (s *ScheduleService) Name() string {
	return "schedule"
}

// Initialize performs no work; collaborators are initialized by the registry.
func (s *ScheduleService) Initialize() error {
	return nil
}

// BuildPrompt renders the user input as the planning prompt.
func BuildPrompt(input gardentypes.UserInput) string {
	var b strings.Builder
	b.WriteString("User Input:\n")
	fmt.Fprintf(&b, "- Location: %s\n", strings.TrimSpace(input.Location))
	fmt.Fprintf(&b, "- Gardening Space Type: %s\n", input.SpaceType.Label())
	fmt.Fprintf(&b, "- Gardening Goals: %s\n", strings.TrimSpace(input.Goals))
	fmt.Fprintf(&b, "- Experience Level: %s\n", input.ExperienceLevel.Label())
	if plants := strings.TrimSpace(input.SpecificPlants); plants != "" {
		fmt.Fprintf(&b, "- Specific Plants of Interest: %s\n", plants)
	}
	b.WriteString("\nPlease generate the personalized planting schedule based on this information and the system instructions.")
	return b.String()
}

// Generate asks the configured provider for a schedule, parses it and records it as
// the active schedule. No schedule is returned or recorded on failure.
func (s *ScheduleService) Generate(ctx context.Context, input gardentypes.UserInput) (*gardentypes.GeneratedSchedule, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gardening input: %w", err)
	}

	client, err := s.clients.GetClient()
	if err != nil {
		return nil, err
	}
	provider := client.GetProviderName()

	raw, err := client.GenerateStructured(ctx, gardentypes.CompletionRequest{
		Model:             s.config.GetModel(provider),
		Prompt:            BuildPrompt(input),
		SystemInstruction: embedded.ScheduleSystemInstruction,
		JSONOutput:        true,
	})
	if err != nil {
		return nil, wrapProviderError(OpGenerateSchedule, provider, err)
	}

	generated, err := schedule.ParseRaw(raw)
	if err != nil {
		var malformed *schedule.MalformedResponseError
		if errors.As(err, &malformed) {
			logger.Error("Failed to parse schedule response", "provider", provider, "error", malformed.Cause,
				"normalized", malformed.Normalized, "raw", malformed.Raw)
		}
		return nil, err
	}

	if err := s.SetActive(ctx, generated); err != nil {
		logger.Warn("Failed to persist active schedule", "error", err)
	}
	return generated, nil
}

// Active returns the active schedule, or ErrNoActiveSchedule when none is stored.
// A corrupt stored value is cleared.
func (s *ScheduleService) Active(ctx context.Context) (*gardentypes.GeneratedSchedule, error) {
	store, err := s.storage.Store()
	if err != nil {
		return nil, err
	}

	value, ok, err := store.Get(ctx, KeyActiveSchedule)
	if err != nil {
		return nil, fmt.Errorf("failed to read active schedule: %w", err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		return nil, ErrNoActiveSchedule
	}

	var active gardentypes.GeneratedSchedule
	if err := json.Unmarshal([]byte(value), &active); err != nil {
		logger.Warn("Clearing corrupt active schedule", "error", err)
		if delErr := store.Delete(ctx, KeyActiveSchedule); delErr != nil {
			logger.Debug("Failed to clear active schedule", "error", delErr)
		}
		return nil, ErrNoActiveSchedule
	}
	return &active, nil
}

// SetActive stores generated as the active schedule.
func (s *ScheduleService) SetActive(ctx context.Context, generated *gardentypes.GeneratedSchedule) error {
	if generated == nil {
		return ErrNoActiveSchedule
	}
	store, err := s.storage.Store()
	if err != nil {
		return err
	}

	data, err := json.Marshal(generated)
	if err != nil {
		return fmt.Errorf("failed to encode active schedule: %w", err)
	}
	if err := store.Set(ctx, KeyActiveSchedule, string(data)); err != nil {
		return fmt.Errorf("failed to save active schedule: %w", err)
	}
	return nil
}

// ClearActive forgets the active schedule.
func (s *ScheduleService) ClearActive(ctx context.Context) error {
	store, err := s.storage.Store()
	if err != nil {
		return err
	}
	return store.Delete(ctx, KeyActiveSchedule)
}

// GetGlobalScheduleService returns the registered schedule service.
func GetGlobalScheduleService() (*ScheduleService, error) {
	return getGlobalService[*ScheduleService]("schedule")
}
