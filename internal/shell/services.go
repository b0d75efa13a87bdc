// Package shell wires the GreenThumb services together and runs the interactive
// assistant REPL on top of ishell.
package shell

import (
	"greenthumb/internal/context"
	"greenthumb/internal/logger"
	"greenthumb/internal/services"
	"greenthumb/pkg/gardentypes"
)

// InitializeServices registers every GreenThumb service in dependency order on the
// global registry and initializes them. Configuration values already placed in the
// global context (CLI flags) take precedence over files and environment.
func InitializeServices(testMode bool) error {
	context.GetGlobalContext().SetTestMode(testMode)
	registry := services.GetGlobalRegistry()

	config := services.NewConfigurationService()
	storage := services.NewStorageService(config)
	clients := services.NewClientFactoryService(config)

	all := []gardentypes.Service{
		config,
		storage,
		clients,
		services.NewScheduleService(config, clients, storage),
		services.NewHistoryService(storage),
		services.NewAssistantService(config, clients),
		services.NewSpeechService(config),
		services.NewPreferenceService(storage),
		services.NewThemeService(),
		services.NewMarkdownService(),
	}

	for _, service := range all {
		if err := registry.RegisterService(service); err != nil {
			return err
		}
	}

	if err := registry.InitializeAll(); err != nil {
		return err
	}

	logger.Debug("Services initialized", "count", len(all))
	return nil
}

// ShutdownServices releases resources held by the global services.
func ShutdownServices() {
	if speech, err := services.GetGlobalSpeechService(); err == nil {
		speech.StopListening()
	}
	if storage, err := services.GetGlobalStorageService(); err == nil {
		if err := storage.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}
}
