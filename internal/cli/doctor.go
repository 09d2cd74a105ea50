package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: settings valid (only if storage is reachable)
	if storeReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings valid: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings valid: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings valid: SKIPPED (storage not reachable)\n")
	}

	// Check 3: habit data consistent
	if storeReachable {
		if err := checkHabitData(ctx); err != nil {
			fmt.Printf("❌ Habit data: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit data: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit data: SKIPPED (storage not reachable)\n")
	}

	// Check 4: duplicate logs (warning only, the analytics layer resolves them)
	if storeReachable {
		if n, err := countDuplicateLogs(ctx); err != nil {
			fmt.Printf("⚠ Duplicate logs: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else if n > 0 {
			fmt.Printf("⚠ Duplicate logs: %d conflicting entries found (latest update wins)\n", n)
		} else {
			fmt.Printf("✓ Duplicate logs: OK\n")
		}
	} else {
		fmt.Printf("⊘ Duplicate logs: SKIPPED (storage not reachable)\n")
	}

	// Check 5: no other stride process running
	if err := checkSingleProcess(); err != nil {
		fmt.Printf("⚠ Single process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single process: OK\n")
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	return nil
}

func checkSettings(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !dateutil.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone: %s", settings.Timezone)
	}
	if settings.StartOfWeek != "monday" && settings.StartOfWeek != "sunday" {
		return fmt.Errorf("invalid start_of_week: %s", settings.StartOfWeek)
	}
	if _, err := ValidateFrequency(settings.DefaultFrequency); err != nil {
		return err
	}
	if settings.StreakGraceDays < 0 {
		return fmt.Errorf("streak_grace_days cannot be negative: %d", settings.StreakGraceDays)
	}
	if settings.ReportRangeDays < 1 {
		return fmt.Errorf("report_range_days must be positive: %d", settings.ReportRangeDays)
	}

	return nil
}

func checkHabitData(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	ids := make(map[string]bool)
	for _, habit := range habits {
		if habit.ID == "" {
			return fmt.Errorf("habit %q has an empty ID", habit.Title)
		}
		if ids[habit.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", habit.ID)
		}
		ids[habit.ID] = true

		if habit.StartDate != "" {
			if _, err := dateutil.Parse(habit.StartDate); err != nil {
				return fmt.Errorf("habit %q has an invalid start date: %s", habit.Title, habit.StartDate)
			}
		}
		if habit.EndDate != "" {
			if _, err := dateutil.Parse(habit.EndDate); err != nil {
				return fmt.Errorf("habit %q has an invalid end date: %s", habit.Title, habit.EndDate)
			}
		}
	}

	return nil
}

func countDuplicateLogs(ctx *Context) (int, error) {
	today := ctx.Today()
	start := today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1))

	logs, err := ctx.Store.GetHabitLogsForRange(dateutil.Format(start), dateutil.Format(today))
	if err != nil {
		return 0, fmt.Errorf("failed to get habit logs: %w", err)
	}

	idx, err := analytics.NewIndex(logs)
	if err != nil {
		return 0, fmt.Errorf("failed to index habit logs: %w", err)
	}
	return idx.Duplicates(), nil
}

func checkSingleProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := filepath.Base(os.Args[0])
	count := 0
	for _, p := range procs {
		if strings.TrimSuffix(p.Executable(), ".exe") == strings.TrimSuffix(self, ".exe") {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("%d stride processes running - concurrent access to the same storage is not supported", count)
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}

	return nil
}
