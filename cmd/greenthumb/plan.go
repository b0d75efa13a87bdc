package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenthumb/internal/logger"
	"greenthumb/internal/services"
	"greenthumb/pkg/gardentypes"
)

func newPlanCmd() *cobra.Command {
	var (
		location   string
		space      string
		goals      string
		experience string
		plants     string
		save       bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a gardening schedule",
		Long: `Generate a personalized gardening schedule for your location, space and goals.
The new schedule becomes the active schedule shown by 'greenthumb show'.`,
		Example: `  greenthumb plan --location "Austin, TX" --space raised-bed --goals "salad greens" --experience beginner
  greenthumb plan --location "Lyon, France" --space balcony --goals herbs --experience intermediate --plants "basil, mint" --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spaceType, err := gardentypes.ParseSpaceType(space)
			if err != nil {
				return err
			}
			level, err := gardentypes.ParseExperienceLevel(experience)
			if err != nil {
				return err
			}
			input := gardentypes.UserInput{
				Location:        location,
				SpaceType:       spaceType,
				Goals:           goals,
				ExperienceLevel: level,
				SpecificPlants:  plants,
			}
			if err := input.Validate(); err != nil {
				return err
			}

			scheduler, err := services.GetGlobalScheduleService()
			if err != nil {
				return err
			}

			if !asJSON {
				newStatusPrinter(cmd).Muted("Generating your gardening schedule...")
			}
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()

			generated, err := scheduler.Generate(ctx, input)
			if err != nil {
				return err
			}

			printer := newPrinter(cmd)
			if err := renderSchedule(cmd, printer, generated, asJSON); err != nil {
				return err
			}

			if save {
				history, err := services.GetGlobalHistoryService()
				if err != nil {
					return err
				}
				label, err := history.Save(cmd.Context(), generated)
				if err != nil {
					return err
				}
				logger.Info("Schedule saved", "label", label)
				newStatusPrinter(cmd).Success(fmt.Sprintf("Saved schedule %q to history.", label))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&location, "location", "", "City, region or postal code")
	flags.StringVar(&space, "space", "", "Gardening space: indoor, outdoor-ground, container, raised-bed, balcony, greenhouse")
	flags.StringVar(&goals, "goals", "", "What you want to grow or achieve")
	flags.StringVar(&experience, "experience", string(gardentypes.ExperienceBeginner), "Experience level: beginner, intermediate, advanced")
	flags.StringVar(&plants, "plants", "", "Specific plants you want to grow (optional)")
	flags.BoolVar(&save, "save", false, "Save the schedule to history")
	flags.BoolVar(&asJSON, "json", false, "Print the schedule as JSON")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("space")
	_ = cmd.MarkFlagRequired("goals")

	return cmd
}
