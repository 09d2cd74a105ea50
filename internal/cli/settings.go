package cli

import (
	"fmt"

	"github.com/calperry/stride/internal/dateutil"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone         *string `help:"IANA timezone name, or 'Local' for the system timezone."`
	StartOfWeek      *string `help:"First day of the week: monday or sunday."`
	DefaultFrequency *string `help:"Frequency preselected for new habits."`
	StreakGraceDays  *int    `help:"Missed days tolerated before a streak breaks."`
	ReportRangeDays  *int    `help:"Default report window length in days."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:           %s\n", settings.Timezone)
		fmt.Printf("  Start of Week:      %s\n", settings.StartOfWeek)
		fmt.Printf("  Default Frequency:  %s\n", settings.DefaultFrequency)
		fmt.Printf("  Streak Grace Days:  %d\n", settings.StreakGraceDays)
		fmt.Printf("  Report Range Days:  %d\n", settings.ReportRangeDays)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !dateutil.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.StartOfWeek != nil {
		if *c.StartOfWeek != "monday" && *c.StartOfWeek != "sunday" {
			return fmt.Errorf("invalid start of week: %s (expected monday or sunday)", *c.StartOfWeek)
		}
		settings.StartOfWeek = *c.StartOfWeek
		updated = true
	}
	if c.DefaultFrequency != nil {
		if _, err := ValidateFrequency(*c.DefaultFrequency); err != nil {
			return err
		}
		settings.DefaultFrequency = *c.DefaultFrequency
		updated = true
	}
	if c.StreakGraceDays != nil {
		if *c.StreakGraceDays < 0 {
			return fmt.Errorf("streak grace days cannot be negative")
		}
		settings.StreakGraceDays = *c.StreakGraceDays
		updated = true
	}
	if c.ReportRangeDays != nil {
		if *c.ReportRangeDays < 1 {
			return fmt.Errorf("report range days must be positive")
		}
		settings.ReportRangeDays = *c.ReportRangeDays
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
