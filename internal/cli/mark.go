package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
)

type MarkCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string `help:"Optional note for this entry."`
}

// Run toggles completion for a habit on a day. The first toggle creates
// a completed log; later toggles flip the completed flag in place so
// notes and creation time survive an accidental double-toggle.
func (c *MarkCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = dateutil.Format(ctx.Today())
	} else if _, err := dateutil.Parse(day); err != nil {
		return err
	}

	now := time.Now()

	existing, err := ctx.Store.GetHabitLog(habit.ID, day)
	if err == nil {
		existing.Completed = !existing.Completed
		if existing.Completed {
			existing.CompletedAt = &now
		} else {
			existing.CompletedAt = nil
		}
		if c.Note != "" {
			existing.Notes = c.Note
		}
		existing.UpdatedAt = now

		if err := ctx.Store.UpsertHabitLog(existing); err != nil {
			return err
		}

		if existing.Completed {
			fmt.Printf("Marked %q done for %s\n", habit.Title, day)
		} else {
			fmt.Printf("Unmarked %q for %s\n", habit.Title, day)
		}
		return nil
	}

	log := models.HabitLog{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		LogDate:     day,
		Completed:   true,
		Notes:       c.Note,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ctx.Store.UpsertHabitLog(log); err != nil {
		return err
	}

	fmt.Printf("Marked %q done for %s\n", habit.Title, day)
	return nil
}
