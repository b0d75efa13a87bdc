package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"greenthumb/internal/logger"
	"greenthumb/internal/schedule"
	"greenthumb/pkg/gardentypes"
)

// DefaultWordWrap is the column width schedules are wrapped at.
const DefaultWordWrap = 80

// MarkdownService renders Markdown, including schedules, for the terminal using Glamour.
type MarkdownService struct {
	mu        sync.Mutex
	wordWrap  int
	renderers map[string]*glamour.TermRenderer
}

// NewMarkdownService creates a new MarkdownService instance.
func NewMarkdownService() *MarkdownService {
	return &MarkdownService{
		wordWrap:  DefaultWordWrap,
		renderers: make(map[string]*glamour.TermRenderer),
	}
}

// Name returns the service name "markdown" for registration.
func (m *MarkdownService) Name() string {
	return "markdown"
}

// Initialize performs no work; renderers are built per style on first use.
func (m *MarkdownService) Initialize() error {
	return nil
}

// RenderWithStyle renders markdown with a glamour standard style ("dark", "light", "notty", ...).
// An unknown style falls back to "notty".
func (m *MarkdownService) RenderWithStyle(markdown, style string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("markdown content cannot be empty")
	}

	renderer, err := m.renderer(style)
	if err != nil {
		logger.Debug("Failed to create renderer with style, falling back to notty", "style", style, "error", err)
		renderer, err = m.renderer("notty")
		if err != nil {
			return "", err
		}
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown with style '%s': %w", style, err)
	}
	return rendered, nil
}

// RenderSchedule renders s as a Markdown document in style.
func (m *MarkdownService) RenderSchedule(s *gardentypes.GeneratedSchedule, style string) (string, error) {
	if s == nil {
		return "", ErrNoActiveSchedule
	}
	return m.RenderWithStyle(schedule.ToMarkdown(s), style)
}

// SetWordWrap sets the word wrap width and drops cached renderers.
func (m *MarkdownService) SetWordWrap(width int) error {
	if width <= 0 {
		return fmt.Errorf("word wrap width must be positive, got %d", width)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.wordWrap = width
	m.renderers = make(map[string]*glamour.TermRenderer)
	return nil
}

func (m *MarkdownService) renderer(style string) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if style == "" {
		style = "notty"
	}
	if renderer, ok := m.renderers[style]; ok {
		return renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(m.wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	m.renderers[style] = renderer
	return renderer, nil
}

// GetGlobalMarkdownService returns the registered markdown service.
func GetGlobalMarkdownService() (*MarkdownService, error) {
	return getGlobalService[*MarkdownService]("markdown")
}
