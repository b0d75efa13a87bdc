package schedule

import (
	"fmt"
	"strings"

	"greenthumb/pkg/gardentypes"
)

// ToMarkdown renders a schedule as Markdown. Absent sections are omitted.
func ToMarkdown(s *gardentypes.GeneratedSchedule) string {
	if s == nil {
		return ""
	}

	var b strings.Builder

	if s.GreetingMessage != "" {
		fmt.Fprintf(&b, "# %s\n\n", s.GreetingMessage)
	} else {
		b.WriteString("# Your Planting Schedule\n\n")
	}

	writeLocationAnalysis(&b, s.LocationAnalysis)
	writePlants(&b, s.PlantRecommendations)
	writeMonthlyTasks(&b, s)

	if len(s.SuccessionPlantingTips) > 0 {
		b.WriteString("## Succession Planting\n\n")
		for _, tip := range s.SuccessionPlantingTips {
			fmt.Fprintf(&b, "- **%s** → **%s**", orDash(tip.InitialCrop), orDash(tip.FollowUpCrop))
			if tip.Timing != "" {
				fmt.Fprintf(&b, ": %s", tip.Timing)
			}
			if tip.Notes != "" {
				fmt.Fprintf(&b, " _(%s)_", tip.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(s.GeneralGardeningAdvice) > 0 {
		b.WriteString("## General Advice\n\n")
		for _, advice := range s.GeneralGardeningAdvice {
			fmt.Fprintf(&b, "- %s\n", advice)
		}
		b.WriteString("\n")
	}

	if s.SeasonalOverview != "" {
		fmt.Fprintf(&b, "## Seasonal Overview\n\n%s\n", s.SeasonalOverview)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeLocationAnalysis(b *strings.Builder, la gardentypes.LocationAnalysis) {
	if la.IsEmpty() {
		return
	}
	b.WriteString("## Location Analysis\n\n")
	writeField(b, "Climate zone", la.AssumedClimateZone)
	writeField(b, "Last frost", la.LastFrostDate)
	writeField(b, "First frost", la.FirstFrostDate)
	if la.Notes != "" {
		fmt.Fprintf(b, "\n%s\n", la.Notes)
	}
	b.WriteString("\n")
}

func writePlants(b *strings.Builder, plants []gardentypes.PlantRecommendation) {
	if len(plants) == 0 {
		return
	}
	b.WriteString("## Plant Recommendations\n\n")
	for _, p := range plants {
		title := orDash(p.PlantName)
		if p.Variety != "" {
			title = fmt.Sprintf("%s (%s)", title, p.Variety)
		}
		fmt.Fprintf(b, "### %s\n\n", title)
		if p.Suitability != "" {
			fmt.Fprintf(b, "%s\n\n", p.Suitability)
		}
		writeField(b, "Planting method", p.PlantingMethod)
		writeField(b, "Start indoors", p.IndoorStartWindow)
		writeField(b, "Plant outdoors", p.OutdoorPlantingWindow)
		writeField(b, "Days to maturity", p.DaysToMaturity)
		writeField(b, "Harvest", p.HarvestTime)
		if len(p.CareInstructions) > 0 {
			b.WriteString("\n**Care**\n\n")
			for _, step := range p.CareInstructions {
				fmt.Fprintf(b, "- %s\n", step)
			}
		}
		if len(p.CompanionPlants) > 0 {
			fmt.Fprintf(b, "\n**Companions:** %s\n", strings.Join(p.CompanionPlants, ", "))
		}
		if p.Notes != "" {
			fmt.Fprintf(b, "\n_%s_\n", p.Notes)
		}
		b.WriteString("\n")
	}
}

func writeMonthlyTasks(b *strings.Builder, s *gardentypes.GeneratedSchedule) {
	var written bool
	for _, month := range gardentypes.Months {
		tasks := s.TasksFor(month)
		if len(tasks) == 0 {
			continue
		}
		if !written {
			b.WriteString("## Monthly Tasks\n\n")
			written = true
		}
		fmt.Fprintf(b, "### %s\n\n", month)
		for _, task := range tasks {
			line := task.Task
			if task.Category != "" {
				line = fmt.Sprintf("[%s] %s", task.Category, line)
			}
			if task.Details != "" {
				line = fmt.Sprintf("%s: %s", line, task.Details)
			}
			fmt.Fprintf(b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, value)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
