package cli

import (
	"fmt"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/schedule"
)

type TodayCmd struct {
	Date string `help:"Show a specific day instead of today (YYYY-MM-DD)."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	day := ctx.Today()
	if c.Date != "" {
		parsed, err := dateutil.Parse(c.Date)
		if err != nil {
			return err
		}
		day = parsed
	}
	dayStr := dateutil.Format(day)

	habits, err := ctx.Store.GetActiveHabits()
	if err != nil {
		return err
	}

	scheduled := schedule.HabitsOnDate(habits, day)
	if len(scheduled) == 0 {
		fmt.Printf("No habits scheduled for %s.\n", dayStr)
		return nil
	}

	logs, err := ctx.Store.GetHabitLogsForDay(dayStr)
	if err != nil {
		return err
	}
	idx, err := analytics.NewIndex(logs)
	if err != nil {
		return err
	}

	fmt.Printf("Habits for %s:\n\n", dayStr)
	for _, habit := range scheduled {
		status := "[ ]"
		if idx.IsCompleted(habit.ID, dayStr) {
			status = "[x]"
		}
		fmt.Printf("%s %s\n", status, habit.Title)
	}

	progress := analytics.DailyProgress(habits, idx, day)
	fmt.Printf("\nCompleted: %d/%d (%d%%)\n",
		progress.CompletedHabits, progress.TotalHabits, progress.Percentage)
	return nil
}
