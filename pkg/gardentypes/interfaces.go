// Package gardentypes defines the core interfaces and data structures used throughout GreenThumb.
//
// GreenThumb follows a three-layer architecture:
//
//   - Context Layer: holds configuration and test-mode state
//   - Service Layer: business logic (schedule generation, history, assistant, speech)
//   - Command Layer: cobra commands and the assistant REPL that orchestrate services
//
// # Package Organization
//
//   - core_interfaces.go: Context, Service and ServiceRegistry
//   - input_types.go: the user's gardening context submitted for a plan
//   - schedule_types.go: the generated gardening plan
//   - chat_types.go: assistant conversation messages
//   - history_types.go: saved schedule snapshots
//   - llm_types.go: the text-completion provider contract
//   - speech_types.go: the streaming transcription provider contract
//   - theme_types.go: YAML theme configuration
//
// Services implement the Service interface and receive their collaborators through
// constructors, so tests can swap providers and stores for fakes:
//
//	storageService := services.NewStorageServiceWithStore(storage.NewMemoryStore())
//	history := services.NewHistoryService(storageService)
//	label, err := history.Save(ctx, schedule)
package gardentypes
