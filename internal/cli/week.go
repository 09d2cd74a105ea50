package cli

import (
	"fmt"
	"strings"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/dateutil"
)

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *Context) error {
	today := ctx.Today()
	start := today.AddDate(0, 0, -6)

	habits, err := ctx.Store.GetActiveHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	logs, err := ctx.Store.GetHabitLogsForRange(dateutil.Format(start), dateutil.Format(today))
	if err != nil {
		return err
	}
	idx, err := analytics.NewIndex(logs)
	if err != nil {
		return err
	}

	progress := analytics.WeeklyProgress(habits, idx, today)

	fmt.Printf("Last 7 days (through %s):\n\n", dateutil.Format(today))
	for _, day := range progress.Days {
		bar := ""
		if day.Total > 0 {
			filled := day.Completed * 10 / day.Total
			bar = strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		} else {
			bar = strings.Repeat("░", 10)
		}
		fmt.Printf("%s %s  %s %d/%d\n", day.DayName, day.Date, bar, day.Completed, day.Total)
	}

	return nil
}
