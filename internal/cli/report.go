package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				MarginTop(1)

	reportDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type ReportCmd struct {
	Days  int    `help:"Length of the report window in days (default: from settings)."`
	Start string `help:"Explicit window start (YYYY-MM-DD). Overrides --days."`
	End   string `help:"Explicit window end (YYYY-MM-DD). Defaults to today."`
	JSON  bool   `help:"Emit the raw report as JSON."`
}

func (c *ReportCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	today := ctx.Today()

	end := today
	if c.End != "" {
		if end, err = dateutil.Parse(c.End); err != nil {
			return err
		}
	}

	days := c.Days
	if days <= 0 {
		days = settings.ReportRangeDays
	}
	start := end.AddDate(0, 0, -(days - 1))
	if c.Start != "" {
		if start, err = dateutil.Parse(c.Start); err != nil {
			return err
		}
	}

	habits, err := ctx.Store.GetActiveHabits()
	if err != nil {
		return err
	}

	// Fetch beyond the window so streaks and the week comparison see
	// history the window excludes.
	logStart := start
	if earliest := today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1)); earliest.Before(logStart) {
		logStart = earliest
	}
	logs, err := ctx.Store.GetHabitLogsForRange(dateutil.Format(logStart), dateutil.Format(today))
	if err != nil {
		return err
	}

	report, err := analytics.FullReport(habits, logs, start, end, today, settings.StreakGraceDays)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderReport(report, start, end)
	return nil
}

func renderReport(report models.ReportsData, start, end time.Time) {
	fmt.Printf("Report %s to %s\n", dateutil.Format(start), dateutil.Format(end))

	if len(report.HabitAnalytics) == 0 {
		fmt.Println("\nNo active habits to report on.")
		return
	}

	fmt.Println(reportTitleStyle.Render("Habits"))
	for _, a := range report.HabitAnalytics {
		fmt.Printf("%s %s\n", a.Icon, a.HabitTitle)
		fmt.Printf("   completion: %d%%  consistency: %d  done: %d\n",
			a.CompletionRate, a.ConsistencyScore, a.TotalCompletions)
		fmt.Println(reportDimStyle.Render(
			fmt.Sprintf("   best day: %s  best time: %s", a.BestDayOfWeek, a.BestTimeOfDay)))
	}

	if wc := report.WeekComparison; wc != nil {
		fmt.Println(reportTitleStyle.Render("Week over week"))
		fmt.Printf("   this week: %d done (%d%%)\n", wc.CurrentWeek.Completions, wc.CurrentWeek.Rate)
		fmt.Printf("   last week: %d done (%d%%)\n", wc.LastWeek.Completions, wc.LastWeek.Rate)
		sign := ""
		if wc.Change > 0 {
			sign = "+"
		}
		fmt.Printf("   change: %s%d%%\n", sign, wc.Change)
	}

	if in := report.DisplayInsights; in != nil {
		fmt.Println(reportTitleStyle.Render("Insights"))
		fmt.Printf("   best day of week: %s\n", in.BestDayOfWeek)
		fmt.Printf("   best time of day: %s\n", in.BestTimeOfDay)
		fmt.Printf("   average consistency: %d\n", in.AverageConsistencyScore)
		fmt.Printf("   active habits: %d\n", in.TotalActiveHabits)
	}

	if len(report.TopStreaks) > 0 {
		fmt.Println(reportTitleStyle.Render("Top streaks"))
		for _, s := range report.TopStreaks {
			fmt.Printf("   %d. %s %s - %d days (best %d)\n",
				s.Rank, s.Icon, s.HabitTitle, s.CurrentStreak, s.LongestStreak)
		}
	}

	if len(report.HeatmapData) > 0 {
		fmt.Println(reportTitleStyle.Render("Heatmap"))
		fmt.Println(renderHeatmapRow(report.HeatmapData))
	}
}

// renderHeatmapRow collapses the heatmap into a single line of shaded
// cells, oldest first.
func renderHeatmapRow(days []models.HeatmapDay) string {
	var row []rune
	for _, d := range days {
		switch {
		case d.CompletionRate == 0:
			row = append(row, '·')
		case d.CompletionRate < 34:
			row = append(row, '░')
		case d.CompletionRate < 67:
			row = append(row, '▒')
		case d.CompletionRate < 100:
			row = append(row, '▓')
		default:
			row = append(row, '█')
		}
	}
	return "   " + string(row)
}
