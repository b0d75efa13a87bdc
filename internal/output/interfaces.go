// Package output provides the console output system for GreenThumb.
// Styling is injected through StyleProvider so the package has no service dependencies.
package output

// StyleProvider is implemented by styling services (the theme service) to render
// semantic text.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the style provider is ready to provide styles.
	IsAvailable() bool
}

// TextStyle renders text with styling. lipgloss.Style satisfies it.
type TextStyle interface {
	Render(text ...string) string
}

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	SemanticPlain     SemanticType = "plain"
	SemanticInfo      SemanticType = "info"
	SemanticSuccess   SemanticType = "success"
	SemanticWarning   SemanticType = "warning"
	SemanticError     SemanticType = "error"
	SemanticHighlight SemanticType = "highlight"
	SemanticBold      SemanticType = "bold"
	SemanticMuted     SemanticType = "muted"

	// SemanticUser and SemanticAssistant mark the two sides of an assistant chat.
	SemanticUser      SemanticType = "user"
	SemanticAssistant SemanticType = "assistant"
)
