package embedded

import _ "embed"

// ScheduleSystemInstruction instructs the model to answer planning requests with a
// single JSON schedule document.
//
//go:embed prompts/schedule_system.md
var ScheduleSystemInstruction string

// AssistantSystemInstruction scopes the assistant chat to explaining GreenThumb itself.
//
//go:embed prompts/assistant_system.md
var AssistantSystemInstruction string
