package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenthumb/internal/data/embedded"
	"greenthumb/internal/schedule"
	"greenthumb/pkg/gardentypes"
)

const fencedScheduleResponse = "```json\n" + `{
  "greetingMessage": "Hello! Here is your schedule for Austin, TX.",
  "locationAnalysis": {"assumedClimateZone": "USDA Zone 8b"},
  "plantRecommendations": [{"plantName": "Basil", "suitability": "Excellent", "plantingMethod": "Transplant"}],
  "monthlyTasks": {"april": [{"task": "Plant basil"}]}
}` + "\n```"

func testUserInput() gardentypes.UserInput {
	return gardentypes.UserInput{
		Location:        "Austin, TX",
		SpaceType:       gardentypes.SpaceContainer,
		Goals:           "Grow herbs for cooking",
		ExperienceLevel: gardentypes.ExperienceBeginner,
		SpecificPlants:  "basil, mint",
	}
}

func newTestScheduleService(t *testing.T, client *fakeCompletionClient) (*ScheduleService, *StorageService) {
	t.Helper()
	config, factory := newTestClientFactory(t, client)
	storage, _ := newTestStorage(t)
	service := NewScheduleService(config, factory, storage)
	require.NoError(t, service.Initialize())
	return service, storage
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testUserInput())

	expected := "User Input:\n" +
		"- Location: Austin, TX\n" +
		"- Gardening Space Type: Outdoor (containers/pots)\n" +
		"- Gardening Goals: Grow herbs for cooking\n" +
		"- Experience Level: Beginner (just starting out)\n" +
		"- Specific Plants of Interest: basil, mint\n" +
		"\nPlease generate the personalized planting schedule based on this information and the system instructions."
	assert.Equal(t, expected, prompt)
}

func TestBuildPrompt_OmitsEmptyPlants(t *testing.T) {
	input := testUserInput()
	input.SpecificPlants = "   "

	assert.NotContains(t, BuildPrompt(input), "Specific Plants of Interest")
}

func TestScheduleService_Generate(t *testing.T) {
	client := newFakeCompletionClient(fencedScheduleResponse)
	service, _ := newTestScheduleService(t, client)
	ctx := context.Background()

	generated, err := service.Generate(ctx, testUserInput())
	require.NoError(t, err)

	assert.Equal(t, "Hello! Here is your schedule for Austin, TX.", generated.GreetingMessage)
	assert.Equal(t, "USDA Zone 8b", generated.LocationAnalysis.AssumedClimateZone)
	require.Len(t, generated.PlantRecommendations, 1)
	assert.Equal(t, "Basil", generated.PlantRecommendations[0].PlantName)
	assert.Len(t, generated.TasksFor("April"), 1)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, BuildPrompt(testUserInput()), req.Prompt)
	assert.Equal(t, embedded.ScheduleSystemInstruction, req.SystemInstruction)
	assert.True(t, req.JSONOutput)
	assert.Equal(t, "gemini-2.5-flash", req.Model)

	active, err := service.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, generated.GreetingMessage, active.GreetingMessage)
	assert.Equal(t, generated.LocationAnalysis, active.LocationAnalysis)
	assert.Equal(t, generated.TasksFor("April"), active.TasksFor("April"))
}

func TestScheduleService_Generate_InvalidInput(t *testing.T) {
	client := newFakeCompletionClient(fencedScheduleResponse)
	service, _ := newTestScheduleService(t, client)

	input := testUserInput()
	input.Location = ""

	generated, err := service.Generate(context.Background(), input)
	assert.Error(t, err)
	assert.Nil(t, generated)
	assert.Empty(t, client.requests)
}

func TestScheduleService_Generate_MalformedResponse(t *testing.T) {
	client := newFakeCompletionClient("Here is your plan: {not json at all}. Enjoy!")
	service, _ := newTestScheduleService(t, client)
	ctx := context.Background()

	generated, err := service.Generate(ctx, testUserInput())
	assert.Nil(t, generated)

	var malformed *schedule.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, UserMessage(err), "invalid schedule format")

	_, err = service.Active(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSchedule)
}

func TestScheduleService_Generate_ProviderFailure(t *testing.T) {
	tests := []struct {
		name        string
		providerErr error
		wantInvalid bool
		wantMessage string
	}{
		{
			name:        "network failure",
			providerErr: errors.New("connection reset by peer"),
			wantMessage: "Failed to generate schedule: connection reset by peer",
		},
		{
			name:        "rejected key",
			providerErr: errors.New("Error 400: API key not valid. Please pass a valid API key."),
			wantInvalid: true,
			wantMessage: "The provided API key for schedule generation is not valid. Please check your API key configuration.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeCompletionClient("")
			client.err = tt.providerErr
			service, _ := newTestScheduleService(t, client)

			generated, err := service.Generate(context.Background(), testUserInput())
			assert.Nil(t, generated)

			var providerErr *ProviderError
			require.True(t, errors.As(err, &providerErr))
			assert.Equal(t, OpGenerateSchedule, providerErr.Op)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidAPIKey))
			assert.Equal(t, tt.wantMessage, UserMessage(err))

			_, err = service.Active(context.Background())
			assert.ErrorIs(t, err, ErrNoActiveSchedule)
		})
	}
}

func TestScheduleService_ActiveLifecycle(t *testing.T) {
	service, _ := newTestScheduleService(t, newFakeCompletionClient(""))
	ctx := context.Background()

	_, err := service.Active(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSchedule)

	assert.ErrorIs(t, service.SetActive(ctx, nil), ErrNoActiveSchedule)

	s := &gardentypes.GeneratedSchedule{GreetingMessage: "Hi", SeasonalOverview: "Warm"}
	require.NoError(t, service.SetActive(ctx, s))

	active, err := service.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hi", active.GreetingMessage)

	require.NoError(t, service.ClearActive(ctx))
	_, err = service.Active(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSchedule)
}

func TestScheduleService_Active_CorruptValueCleared(t *testing.T) {
	service, storage := newTestScheduleService(t, newFakeCompletionClient(""))
	ctx := context.Background()

	store, err := storage.Store()
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyActiveSchedule, "{broken"))

	_, err = service.Active(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSchedule)

	_, ok, err := store.Get(ctx, KeyActiveSchedule)
	require.NoError(t, err)
	assert.False(t, ok)
}
