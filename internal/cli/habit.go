package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit an existing habit."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Unarchive a habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Permanently delete a habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" optional:"" help:"Habit title."`
	Description string `help:"Habit description."`
	Icon        string `help:"Emoji icon for the habit."`
	Color       string `help:"Display color (hex)."`
	Category    string `help:"Category (health, fitness, mindfulness, productivity, learning, social, finance, other)."`
	Frequency   string `help:"Recurrence: daily, weekly, monthly, or custom (default: from settings)."`
	Days        string `help:"Custom days, comma-separated. Weekday tokens for weekly, day numbers or 'last' for monthly."`
	Start       string `help:"First day the habit is active (YYYY-MM-DD)."`
	End         string `help:"Last day the habit is active (YYYY-MM-DD)."`
	NoStreak    bool   `help:"Disable streak tracking for this habit."`
	Grace       int    `help:"Missed days tolerated before this habit's streak breaks (0: use app setting)."`
	Interactive bool   `short:"i" help:"Fill in habit details interactively."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	if c.Frequency == "" {
		c.Frequency = settings.DefaultFrequency
	}

	if c.Interactive || c.Title == "" {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	if c.Title == "" {
		return fmt.Errorf("habit title cannot be empty")
	}

	// Reject duplicate titles so title-based lookups stay unambiguous
	if _, err := ctx.Store.GetHabitByTitle(c.Title); err == nil {
		return fmt.Errorf("habit with title %q already exists", c.Title)
	}

	frequency, err := ValidateFrequency(c.Frequency)
	if err != nil {
		return err
	}
	category, err := ValidateCategory(c.Category)
	if err != nil {
		return err
	}
	customDays, err := ParseCustomDays(frequency, c.Days)
	if err != nil {
		return err
	}
	if c.Start != "" {
		if _, err := dateutil.Parse(c.Start); err != nil {
			return err
		}
	}
	if c.End != "" {
		if _, err := dateutil.Parse(c.End); err != nil {
			return err
		}
	}
	if c.Grace < 0 {
		return fmt.Errorf("grace days cannot be negative")
	}

	existing, err := ctx.Store.GetActiveHabits()
	if err != nil {
		return err
	}

	now := time.Now()
	habit := models.Habit{
		ID:                          uuid.New().String(),
		Title:                       c.Title,
		Description:                 c.Description,
		Icon:                        c.Icon,
		Color:                       c.Color,
		Category:                    category,
		Frequency:                   frequency,
		CustomDays:                  customDays,
		StartDate:                   c.Start,
		EndDate:                     c.End,
		StreakEnabled:               !c.NoStreak,
		StreakResetAfterMissingDays: c.Grace,
		SortOrder:                   len(existing),
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", habit.Title, FormatFrequency(habit))
	return nil
}

func (c *HabitAddCmd) runForm() error {
	categoryOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, cat := range constants.Categories {
		categoryOptions = append(categoryOptions, huh.NewOption(string(cat), string(cat)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&c.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&c.Description),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("daily", "daily"),
					huh.NewOption("weekly", "weekly"),
					huh.NewOption("monthly", "monthly"),
					huh.NewOption("custom", "custom"),
				).
				Value(&c.Frequency),
			huh.NewInput().
				Title("Days (weekly: mon,wed,fri / monthly: 1,15,last)").
				Value(&c.Days),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&c.Category),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Stats    bool `help:"Show streak and completion stats."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	if !c.Stats {
		for _, habit := range habits {
			status := ""
			if habit.Archived {
				status = " [ARCHIVED]"
			}
			icon := habit.Icon
			if icon == "" {
				icon = constants.DefaultHabitIcon
			}
			fmt.Printf("%s %s (%s)%s\n", icon, habit.Title, FormatFrequency(habit), status)
		}
		return nil
	}

	return c.listWithStats(ctx, habits)
}

func (c *HabitListCmd) listWithStats(ctx *Context, habits []models.Habit) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	today := ctx.Today()
	start := today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1))
	logs, err := ctx.Store.GetHabitLogsForRange(dateutil.Format(start), dateutil.Format(today))
	if err != nil {
		return err
	}

	stats, err := analytics.WithStats(habits, logs, today, settings.StreakGraceDays)
	if err != nil {
		return err
	}

	for _, h := range stats {
		marker := "○"
		if h.CompletedToday {
			marker = "✓"
		}
		status := ""
		if h.Archived {
			status = " [ARCHIVED]"
		}
		fmt.Printf("%s %s%s\n", marker, h.Title, status)
		fmt.Printf("   streak: %d (best %d)  total: %d  last 7d: %d  last 30d: %d\n",
			h.CurrentStreak, h.LongestStreak, h.TotalCompletions,
			h.CompletionsLast7Days, h.CompletionsLast30Days)
	}

	return nil
}

type HabitEditCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`

	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Icon        *string `help:"New icon."`
	Color       *string `help:"New color."`
	Category    *string `help:"New category."`
	Frequency   *string `help:"New frequency."`
	Days        *string `help:"New custom days (empty string clears them)."`
	Start       *string `help:"New start date (empty string clears it)."`
	End         *string `help:"New end date (empty string clears it)."`
	Streak      *bool   `help:"Enable or disable streak tracking."`
	Grace       *int    `help:"New per-habit grace days (0: use app setting)."`
	SortOrder   *int    `help:"New sort position."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Title != nil && *c.Title != habit.Title {
		if *c.Title == "" {
			return fmt.Errorf("habit title cannot be empty")
		}
		if _, err := ctx.Store.GetHabitByTitle(*c.Title); err == nil {
			return fmt.Errorf("habit with title %q already exists", *c.Title)
		}
		habit.Title = *c.Title
		updated = true
	}
	if c.Description != nil {
		habit.Description = *c.Description
		updated = true
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
		updated = true
	}
	if c.Color != nil {
		habit.Color = *c.Color
		updated = true
	}
	if c.Category != nil {
		category, err := ValidateCategory(*c.Category)
		if err != nil {
			return err
		}
		habit.Category = category
		updated = true
	}
	if c.Frequency != nil {
		frequency, err := ValidateFrequency(*c.Frequency)
		if err != nil {
			return err
		}
		habit.Frequency = frequency
		updated = true
	}
	if c.Days != nil {
		customDays, err := ParseCustomDays(habit.Frequency, *c.Days)
		if err != nil {
			return err
		}
		habit.CustomDays = customDays
		updated = true
	}
	if c.Start != nil {
		if *c.Start != "" {
			if _, err := dateutil.Parse(*c.Start); err != nil {
				return err
			}
		}
		habit.StartDate = *c.Start
		updated = true
	}
	if c.End != nil {
		if *c.End != "" {
			if _, err := dateutil.Parse(*c.End); err != nil {
				return err
			}
		}
		habit.EndDate = *c.End
		updated = true
	}
	if c.Streak != nil {
		habit.StreakEnabled = *c.Streak
		updated = true
	}
	if c.Grace != nil {
		if *c.Grace < 0 {
			return fmt.Errorf("grace days cannot be negative")
		}
		habit.StreakResetAfterMissingDays = *c.Grace
		updated = true
	}
	if c.SortOrder != nil {
		habit.SortOrder = *c.SortOrder
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	habit.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.Title)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Archived habit: %s\n", habit.Title)
	fmt.Println("(Archived habits keep their history. Use 'stride habit unarchive' to bring one back)")
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	var habit *models.Habit
	for i := range habits {
		if habits[i].Title == c.Habit || habits[i].ID == c.Habit {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Unarchived habit: %s\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	var habit *models.Habit
	for i := range habits {
		if habits[i].Title == c.Habit || habits[i].ID == c.Habit {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	if !c.Force {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Permanently delete %q?", habit.Title)).
					Description("This cannot be undone. Consider 'stride habit archive' instead.").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}
