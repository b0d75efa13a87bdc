package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenthumb/internal/logger"
	"greenthumb/internal/schedule"
	"greenthumb/internal/services"
)

func newShowCmd() *cobra.Command {
	var (
		asJSON  bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active schedule",
		Long:  `Show the most recently generated or loaded schedule.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduler, err := services.GetGlobalScheduleService()
			if err != nil {
				return err
			}
			active, err := scheduler.Active(cmd.Context())
			if err != nil {
				return err
			}

			if copyOut {
				markdown := schedule.ToMarkdown(active)
				status := newStatusPrinter(cmd)
				if err := copyToClipboard(markdown); err != nil {
					logger.Warn("Clipboard copy failed", "error", err)
					status.Warning(fmt.Sprintf("Failed to copy to clipboard: %v", err))
				} else {
					status.Success(fmt.Sprintf("Copied %d characters to clipboard", len(markdown)))
				}
			}

			return renderSchedule(cmd, newPrinter(cmd), active, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the schedule as JSON")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the schedule as Markdown to the clipboard")
	return cmd
}
