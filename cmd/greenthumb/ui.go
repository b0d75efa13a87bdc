package main

import (
	"context"

	"github.com/spf13/cobra"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/logger"
	"greenthumb/internal/output"
	"greenthumb/internal/services"
	"greenthumb/pkg/gardentypes"
)

// newPrinter returns a printer on the command's stdout, styled with the preferred
// theme when writing to a terminal.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(output.WithWriter(cmd.OutOrStdout()), printerStyle(cmd.Context()))
}

// newStatusPrinter is like newPrinter but writes to stderr, for progress lines that
// must not mix with --json output.
func newStatusPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(output.WithWriter(cmd.ErrOrStderr()), printerStyle(cmd.Context()))
}

func printerStyle(ctx context.Context) output.Option {
	if greenthumbcontext.GetGlobalContext().IsTestMode() || !output.IsTerminal() {
		return output.PlainText()
	}
	themes, err := services.GetGlobalThemeService()
	if err != nil {
		return output.PlainText()
	}
	return output.WithStyles(themes.StyleProvider(themeName(ctx)))
}

// themeName returns the stored theme preference, or plain when unavailable.
func themeName(ctx context.Context) string {
	if greenthumbcontext.GetGlobalContext().IsTestMode() || !output.IsTerminal() {
		return services.ThemePlain
	}
	prefs, err := services.GetGlobalPreferenceService()
	if err != nil {
		return services.ThemePlain
	}
	theme, err := prefs.Theme(contextOrBackground(ctx))
	if err != nil {
		logger.Debug("Theme preference unavailable", "error", err)
		return services.ThemePlain
	}
	return theme
}

// renderSchedule prints s as Markdown through glamour, or as JSON when asJSON is set.
func renderSchedule(cmd *cobra.Command, printer *output.Printer, s *gardentypes.GeneratedSchedule, asJSON bool) error {
	if asJSON {
		return printer.Value(s)
	}

	markdown, err := services.GetGlobalMarkdownService()
	if err != nil {
		return err
	}
	themes, err := services.GetGlobalThemeService()
	if err != nil {
		return err
	}

	style := themes.GetThemeByName(themeName(cmd.Context())).GlamourStyle
	rendered, err := markdown.RenderSchedule(s, style)
	if err != nil {
		return err
	}
	printer.Block(rendered)
	return nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
