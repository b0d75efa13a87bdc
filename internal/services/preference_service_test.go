package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenthumb/internal/storage"
	"greenthumb/internal/testutils"
)

func newTestPreferences(t *testing.T) (*PreferenceService, *storage.MemoryStore) {
	t.Helper()
	testutils.SetupTestContext(t)
	storageService, store := newTestStorage(t)
	prefs := NewPreferenceService(storageService)
	require.NoError(t, prefs.Initialize())
	return prefs, store
}

func TestPreferenceService_ThemeDefaultsToLightInTestMode(t *testing.T) {
	prefs, _ := newTestPreferences(t)
	prefs.detectDark = func() bool { return true }

	theme, err := prefs.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestPreferenceService_SetAndToggleTheme(t *testing.T) {
	prefs, store := newTestPreferences(t)
	ctx := context.Background()

	require.NoError(t, prefs.SetTheme(ctx, " Dark "))
	theme, err := prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	toggled, err := prefs.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, toggled)

	stored, ok, err := store.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ThemeLight, stored)

	toggled, err = prefs.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, toggled)

	assert.Error(t, prefs.SetTheme(ctx, "solarized"))
}

func TestPreferenceService_InvalidStoredThemeCleared(t *testing.T) {
	prefs, store := newTestPreferences(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyTheme, "neon"))

	theme, err := prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, ok, err := store.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferenceService_Language(t *testing.T) {
	prefs, store := newTestPreferences(t)
	ctx := context.Background()

	lang, err := prefs.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	require.NoError(t, prefs.SetLanguage(ctx, "TE"))
	lang, err = prefs.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "te", lang)

	err = prefs.SetLanguage(ctx, "jp")
	assert.ErrorContains(t, err, "unsupported language")

	require.NoError(t, store.Set(ctx, KeyLanguage, "klingon"))
	lang, err = prefs.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	_, ok, err := store.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSupportedLanguage(t *testing.T) {
	for _, code := range []string{"en", "es", "fr", "de", "ta", "te", "ar"} {
		assert.True(t, IsSupportedLanguage(code), code)
	}
	assert.False(t, IsSupportedLanguage("EN"))
	assert.False(t, IsSupportedLanguage("pt"))
}
