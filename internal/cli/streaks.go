package cli

import (
	"fmt"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
)

type StreaksCmd struct {
	Limit int `help:"Number of streaks to show." default:"3"`
}

func (c *StreaksCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetActiveHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	start := today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1))
	logs, err := ctx.Store.GetHabitLogsForRange(dateutil.Format(start), dateutil.Format(today))
	if err != nil {
		return err
	}
	idx, err := analytics.NewIndex(logs)
	if err != nil {
		return err
	}

	streaks, err := analytics.TopStreaks(habits, idx, today, settings.StreakGraceDays, c.Limit)
	if err != nil {
		return err
	}
	if len(streaks) == 0 {
		fmt.Println("No streak-enabled habits found.")
		return nil
	}

	fmt.Println("Top streaks:")
	for _, s := range streaks {
		fmt.Printf("  %d. %s %s - %d days (best %d)\n",
			s.Rank, s.Icon, s.HabitTitle, s.CurrentStreak, s.LongestStreak)
	}

	return nil
}
