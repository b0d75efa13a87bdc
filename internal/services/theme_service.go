package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"gopkg.in/yaml.v3"

	"greenthumb/internal/data/embedded"
	"greenthumb/internal/logger"
	"greenthumb/internal/output"
	"greenthumb/pkg/gardentypes"
)

// ThemePlain is the unstyled theme used when output is not a terminal.
const ThemePlain = "plain"

// ThemeService provides the embedded light, dark and plain themes.
type ThemeService struct {
	initialized bool
	themes      map[string]*Theme
}

// Theme defines the lipgloss styles and glamour style of one theme.
type Theme struct {
	Name         string
	GlamourStyle string
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Info         lipgloss.Style
	Highlight    lipgloss.Style
	Bold         lipgloss.Style
	Muted        lipgloss.Style
	User         lipgloss.Style
	Assistant    lipgloss.Style
}

// NewThemeService creates a new ThemeService instance with themes loaded from YAML.
func NewThemeService() *ThemeService {
	service := &ThemeService{
		themes: make(map[string]*Theme),
	}
	service.loadThemesFromYAML()
	return service
}

// Name returns the service name "theme" for registration.
func (t *ThemeService) Name() string {
	return "theme"
}

// Initialize sets up the ThemeService for operation.
func (t *ThemeService) Initialize() error {
	t.initialized = true
	return nil
}

func (t *ThemeService) loadThemesFromYAML() {
	themeFiles := map[string][]byte{
		ThemeLight: embedded.LightThemeData,
		ThemeDark:  embedded.DarkThemeData,
		ThemePlain: embedded.PlainThemeData,
	}

	for themeName, themeData := range themeFiles {
		theme, err := t.loadThemeFile(themeData)
		if err != nil {
			logger.Error("Failed to load theme", "theme", themeName, "error", err)
			t.themes[themeName] = newFallbackTheme(themeName)
			continue
		}
		t.themes[themeName] = theme
	}
}

func (t *ThemeService) loadThemeFile(data []byte) (*Theme, error) {
	var themeFile gardentypes.ThemeFile
	if err := yaml.Unmarshal(data, &themeFile); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	return convertThemeConfig(&themeFile.ThemeConfig), nil
}

func convertThemeConfig(config *gardentypes.ThemeConfig) *Theme {
	glamourStyle := config.GlamourStyle
	if glamourStyle == "" {
		glamourStyle = "notty"
	}
	return &Theme{
		Name:         config.Name,
		GlamourStyle: glamourStyle,
		Success:      createStyle(config.Styles.Success),
		Error:        createStyle(config.Styles.Error),
		Warning:      createStyle(config.Styles.Warning),
		Info:         createStyle(config.Styles.Info),
		Highlight:    createStyle(config.Styles.Highlight),
		Bold:         createStyle(config.Styles.Bold),
		Muted:        createStyle(config.Styles.Muted),
		User:         createStyle(config.Styles.User),
		Assistant:    createStyle(config.Styles.Assistant),
	}
}

// createStyle converts a StyleConfig to a lipgloss.Style.
func createStyle(config gardentypes.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()

	if config.Foreground != nil {
		if color := parseColor(config.Foreground); color != nil {
			style = style.Foreground(color)
		}
	}
	if config.Background != nil {
		if color := parseColor(config.Background); color != nil {
			style = style.Background(color)
		}
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}
	return style
}

// parseColor parses a color value that can be a string or a {light, dark} map.
func parseColor(colorValue interface{}) lipgloss.TerminalColor {
	switch v := colorValue.(type) {
	case string:
		return lipgloss.Color(v)
	case int:
		return lipgloss.Color(fmt.Sprintf("%d", v))
	case map[string]interface{}:
		light, hasLight := v["light"].(string)
		dark, hasDark := v["dark"].(string)
		if hasLight && hasDark {
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}
		}
		return nil
	default:
		return nil
	}
}

func newFallbackTheme(name string) *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Name:         name,
		GlamourStyle: "notty",
		Success:      plain,
		Error:        plain,
		Warning:      plain,
		Info:         plain,
		Highlight:    plain,
		Bold:         plain,
		Muted:        plain,
		User:         plain,
		Assistant:    plain,
	}
}

// GetAvailableThemes returns the theme names in sorted order.
func (t *ThemeService) GetAvailableThemes() []string {
	themes := make([]string, 0, len(t.themes))
	for name := range t.themes {
		themes = append(themes, name)
	}
	sort.Strings(themes)
	return themes
}

// GetThemeByName returns the named theme, or the plain theme for unknown names.
func (t *ThemeService) GetThemeByName(name string) *Theme {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if theme, ok := t.themes[normalized]; ok {
		return theme
	}
	if normalized != "" {
		logger.Debug("Unknown theme requested, using plain theme", "theme", name, "available", t.GetAvailableThemes())
	}
	if theme, ok := t.themes[ThemePlain]; ok {
		return theme
	}
	return newFallbackTheme(ThemePlain)
}

// StyleProvider returns an output.StyleProvider backed by the named theme.
func (t *ThemeService) StyleProvider(name string) output.StyleProvider {
	return &themeStyleProvider{theme: t.GetThemeByName(name)}
}

// CreateSimpleList creates a list from items with the theme's muted enumerator.
func (t *Theme) CreateSimpleList(items []string) *list.List {
	l := list.New().EnumeratorStyle(t.Muted)
	for _, item := range items {
		l.Item(item)
	}
	return l
}

// themeStyleProvider adapts a Theme to output.StyleProvider.
type themeStyleProvider struct {
	theme *Theme
}

func (p *themeStyleProvider) GetStyle(semantic string) output.TextStyle {
	switch output.SemanticType(semantic) {
	case output.SemanticSuccess:
		return p.theme.Success
	case output.SemanticError:
		return p.theme.Error
	case output.SemanticWarning:
		return p.theme.Warning
	case output.SemanticInfo:
		return p.theme.Info
	case output.SemanticHighlight:
		return p.theme.Highlight
	case output.SemanticBold:
		return p.theme.Bold
	case output.SemanticMuted:
		return p.theme.Muted
	case output.SemanticUser:
		return labeledStyle{label: "You: ", style: p.theme.User}
	case output.SemanticAssistant:
		return labeledStyle{label: "GreenThumb: ", style: p.theme.Assistant}
	default:
		return lipgloss.NewStyle()
	}
}

func (p *themeStyleProvider) IsAvailable() bool {
	return p.theme != nil
}

// labeledStyle renders a styled speaker label in front of unstyled text.
type labeledStyle struct {
	label string
	style lipgloss.Style
}

func (l labeledStyle) Render(text ...string) string {
	return l.style.Render(l.label) + strings.Join(text, " ")
}

// GetGlobalThemeService returns the registered theme service.
func GetGlobalThemeService() (*ThemeService, error) {
	return getGlobalService[*ThemeService]("theme")
}
