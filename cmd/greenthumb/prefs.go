package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenthumb/internal/services"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(newPrefsThemeCmd(), newPrefsLangCmd())
	return cmd
}

func newPrefsThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{services.ThemeLight, services.ThemeDark, "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := services.GetGlobalPreferenceService()
			if err != nil {
				return err
			}
			printer := newPrinter(cmd)

			if len(args) == 0 {
				theme, err := prefs.Theme(cmd.Context())
				if err != nil {
					return err
				}
				printer.Println(theme)
				return nil
			}

			value := strings.ToLower(strings.TrimSpace(args[0]))
			if value == "toggle" {
				if value, err = prefs.ToggleTheme(cmd.Context()); err != nil {
					return err
				}
			} else if err := prefs.SetTheme(cmd.Context(), value); err != nil {
				return err
			}
			printer.Success(fmt.Sprintf("Theme set to %s.", value))
			return nil
		},
	}
}

func newPrefsLangCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or set the display language",
		Long:  `Show or set the display language. The language selects the speech recognition locale.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := services.GetGlobalPreferenceService()
			if err != nil {
				return err
			}
			printer := newPrinter(cmd)

			if len(args) == 1 {
				code := strings.ToLower(strings.TrimSpace(args[0]))
				if err := prefs.SetLanguage(cmd.Context(), code); err != nil {
					return err
				}
				printer.Success(fmt.Sprintf("Language set to %s (speech locale %s).", code, services.SpeechLocaleFor(code)))
				return nil
			}

			current, err := prefs.Language(cmd.Context())
			if err != nil {
				return err
			}
			items := make([]string, 0, len(services.SupportedLanguages))
			for _, language := range services.SupportedLanguages {
				marker := " "
				if language.Code == current {
					marker = "*"
				}
				items = append(items, fmt.Sprintf("%s %s  %s", marker, language.Code, language.Name))
			}

			themes, err := services.GetGlobalThemeService()
			if err != nil {
				return err
			}
			printer.Println(themes.GetThemeByName(themeName(cmd.Context())).CreateSimpleList(items).String())
			return nil
		},
	}
}
