package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/logger"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Language is a supported display language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages lists the display languages in menu order. The first is the default.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Español"},
	{Code: "fr", Name: "Français"},
	{Code: "de", Name: "Deutsch"},
	{Code: "ta", Name: "தமிழ்"},
	{Code: "te", Name: "తెలుగు"},
	{Code: "ar", Name: "العربية"},
}

// IsSupportedLanguage reports whether code is a supported display language.
func IsSupportedLanguage(code string) bool {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return true
		}
	}
	return false
}

// PreferenceService stores the theme and display-language preferences.
type PreferenceService struct {
	storage *StorageService

	// detectDark reports whether the terminal background is dark; used when no theme is stored.
	detectDark func() bool
}

// NewPreferenceService creates a preference service persisting through storage.
func NewPreferenceService(storage *StorageService) *PreferenceService {
	return &PreferenceService{storage: storage, detectDark: termenv.HasDarkBackground}
}

// Name returns the service name "preferences" for registration.
func (p *PreferenceService) Name() string {
	return "preferences"
}

// Initialize performs no work; preferences are read on demand.
func (p *PreferenceService) Initialize() error {
	return nil
}

// Theme returns the stored theme, or the terminal's light/dark default when unset.
func (p *PreferenceService) Theme(ctx context.Context) (string, error) {
	stored, err := p.read(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if stored == ThemeLight || stored == ThemeDark {
		return stored, nil
	}
	if stored != "" {
		p.clear(ctx, KeyTheme, stored)
	}
	return p.defaultTheme(), nil
}

// SetTheme stores theme, which must be light or dark.
func (p *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q (expected light or dark)", theme)
	}
	return p.write(ctx, KeyTheme, theme)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (p *PreferenceService) ToggleTheme(ctx context.Context) (string, error) {
	current, err := p.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err := p.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Language returns the stored display-language code. Unsupported stored values are
// ignored and the first supported language is returned.
func (p *PreferenceService) Language(ctx context.Context) (string, error) {
	stored, err := p.read(ctx, KeyLanguage)
	if err != nil {
		return "", err
	}
	if IsSupportedLanguage(stored) {
		return stored, nil
	}
	if stored != "" {
		p.clear(ctx, KeyLanguage, stored)
	}
	return SupportedLanguages[0].Code, nil
}

// SetLanguage stores a supported display-language code.
func (p *PreferenceService) SetLanguage(ctx context.Context, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !IsSupportedLanguage(code) {
		codes := make([]string, 0, len(SupportedLanguages))
		for _, lang := range SupportedLanguages {
			codes = append(codes, lang.Code)
		}
		return fmt.Errorf("unsupported language %q (expected one of %s)", code, strings.Join(codes, ", "))
	}
	return p.write(ctx, KeyLanguage, code)
}

func (p *PreferenceService) defaultTheme() string {
	if greenthumbcontext.GetGlobalContext().IsTestMode() || p.detectDark == nil {
		return ThemeLight
	}
	if p.detectDark() {
		return ThemeDark
	}
	return ThemeLight
}

func (p *PreferenceService) read(ctx context.Context, key string) (string, error) {
	store, err := p.storage.Store()
	if err != nil {
		return "", err
	}
	value, _, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return strings.TrimSpace(value), nil
}

func (p *PreferenceService) write(ctx context.Context, key, value string) error {
	store, err := p.storage.Store()
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

func (p *PreferenceService) clear(ctx context.Context, key, value string) {
	logger.Debug("Ignoring invalid stored preference", "key", key, "value", value)
	store, err := p.storage.Store()
	if err != nil {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		logger.Debug("Failed to clear preference", "key", key, "error", err)
	}
}

// GetGlobalPreferenceService returns the registered preference service.
func GetGlobalPreferenceService() (*PreferenceService, error) {
	return getGlobalService[*PreferenceService]("preferences")
}
