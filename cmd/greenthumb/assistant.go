package main

import (
	"github.com/spf13/cobra"

	"greenthumb/internal/logger"
	"greenthumb/internal/services"
	"greenthumb/internal/shell"
)

func newAssistantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assistant",
		Short: "Chat with the GreenThumb assistant",
		Long: `Start an interactive chat with the GreenThumb assistant, which explains how to use the planner.
Type /listen to ask by voice when GREENTHUMB_SPEECH_COMMAND is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assistantService, err := services.GetGlobalAssistantService()
			if err != nil {
				return err
			}
			speech, err := services.GetGlobalSpeechService()
			if err != nil {
				return err
			}
			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			config, err := services.GetGlobalConfigurationService()
			if err != nil {
				return err
			}

			lang := "en"
			if prefs, err := services.GetGlobalPreferenceService(); err == nil {
				if lang, err = prefs.Language(cmd.Context()); err != nil {
					logger.Warn("Language preference unavailable", "error", err)
					lang = "en"
				}
			}

			session, err := assistantService.StartSession(cmd.Context())
			if err != nil {
				return err
			}

			assistant := shell.NewAssistant(session, speech, history, shell.AssistantOptions{
				Printer: newPrinter(cmd),
				Lang:    lang,
				Timeout: config.GetTimeout(),
			})
			shell.RunAssistant(cmd.Context(), assistant)
			return nil
		},
	}
}
