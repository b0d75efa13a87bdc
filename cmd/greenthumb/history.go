package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenthumb/internal/schedule"
	"greenthumb/internal/services"
	"greenthumb/internal/shell"
	"greenthumb/pkg/gardentypes"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved schedules",
		Long: `Manage up to ten saved schedules, newest first.
Entries can be referenced by ID, by ID prefix or by their position in 'history list'.`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistorySaveCmd(),
		newHistoryLoadCmd(),
		newHistoryDeleteCmd(),
		newHistoryRenameCmd(),
		newHistoryClearCmd(),
		newHistoryDiffCmd(),
	)
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved schedules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			entries, err := history.List(cmd.Context())
			if err != nil {
				return err
			}

			printer := newPrinter(cmd)
			if asJSON {
				if entries == nil {
					entries = []gardentypes.HistoricalScheduleEntry{}
				}
				return printer.Value(entries)
			}
			if len(entries) == 0 {
				printer.Info("No saved schedules yet. Generate one with 'greenthumb plan --save'.")
				return nil
			}
			for i, entry := range entries {
				printer.Println(shell.FormatHistoryLine(i+1, entry))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the entries as JSON")
	return cmd
}

func newHistorySaveCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the active schedule to history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduler, err := services.GetGlobalScheduleService()
			if err != nil {
				return err
			}
			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}

			active, err := scheduler.Active(cmd.Context())
			if err != nil {
				return err
			}
			label, err := history.Save(cmd.Context(), active)
			if err != nil {
				return err
			}

			if name = strings.TrimSpace(name); name != "" {
				entries, err := history.List(cmd.Context())
				if err != nil {
					return err
				}
				if _, err := history.Rename(cmd.Context(), entries[0].ID, name); err != nil {
					return err
				}
				label = name
			}

			newPrinter(cmd).Success(fmt.Sprintf("Saved schedule %q to history.", label))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Custom name for the saved schedule")
	return cmd
}

func newHistoryLoadCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "load <ref>",
		Short: "Load a saved schedule and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := resolveEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			entry, found, err := history.Load(cmd.Context(), ref.ID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("saved schedule %q was removed; see 'greenthumb history list'", ref.DisplayName())
			}

			scheduler, err := services.GetGlobalScheduleService()
			if err != nil {
				return err
			}
			if err := scheduler.SetActive(cmd.Context(), &entry.Schedule); err != nil {
				return err
			}

			printer := newPrinter(cmd)
			if !asJSON {
				newStatusPrinter(cmd).Info(fmt.Sprintf("Loaded %q saved %s.", entry.DisplayName(), formatSavedAt(entry.SavedAt)))
			}
			return renderSchedule(cmd, printer, &entry.Schedule, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the schedule as JSON")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <ref>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved schedule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := resolveEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			if _, err := history.Delete(cmd.Context(), entry.ID); err != nil {
				return err
			}
			newPrinter(cmd).Success(fmt.Sprintf("Deleted %q.", entry.DisplayName()))
			return nil
		},
	}
}

func newHistoryRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <ref> <name>",
		Short: "Give a saved schedule a custom name",
		Long:  `Give a saved schedule a custom name. An empty name restores the derived location label.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := resolveEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if _, err := history.Rename(cmd.Context(), entry.ID, name); err != nil {
				return err
			}

			entry.Name = strings.TrimSpace(name)
			newPrinter(cmd).Success(fmt.Sprintf("Renamed to %q.", entry.DisplayName()))
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := services.GetGlobalHistoryService()
			if err != nil {
				return err
			}
			if err := history.Clear(cmd.Context()); err != nil {
				return err
			}
			newPrinter(cmd).Success("History cleared.")
			return nil
		},
	}
}

func newHistoryDiffCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "diff <ref> [other-ref]",
		Short: "Compare a saved schedule with another or with the active schedule",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := resolveEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var to *gardentypes.GeneratedSchedule
			toLabel := "active schedule"
			if len(args) == 2 {
				other, err := resolveEntry(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				to, toLabel = &other.Schedule, other.DisplayName()
			} else {
				scheduler, err := services.GetGlobalScheduleService()
				if err != nil {
					return err
				}
				if to, err = scheduler.Active(cmd.Context()); err != nil {
					return err
				}
			}

			printer := newPrinter(cmd)
			lines := schedule.Diff(&from.Schedule, to)
			if !schedule.HasChanges(lines) {
				printer.Info(fmt.Sprintf("%q and %s are identical.", from.DisplayName(), toLabel))
				return nil
			}

			printer.Highlight(fmt.Sprintf("--- %s", from.DisplayName()))
			printer.Highlight(fmt.Sprintf("+++ %s", toLabel))
			printer.Print(schedule.FormatDiff(lines, !all))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show unchanged lines too")
	return cmd
}

// resolveEntry looks up a history reference; no match is an error at the CLI.
func resolveEntry(ctx context.Context, ref string) (gardentypes.HistoricalScheduleEntry, error) {
	history, err := services.GetGlobalHistoryService()
	if err != nil {
		return gardentypes.HistoricalScheduleEntry{}, err
	}
	entry, ok, err := history.Resolve(ctx, ref)
	if err != nil {
		return entry, err
	}
	if !ok {
		return entry, fmt.Errorf("no saved schedule matches %q; see 'greenthumb history list'", ref)
	}
	return entry, nil
}
