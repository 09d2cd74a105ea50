package schedule

import (
	"testing"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsScheduledDaily(t *testing.T) {
	habit := models.Habit{ID: "h1", Frequency: constants.FrequencyDaily}

	for _, d := range []time.Time{
		day(2024, time.January, 1),
		day(2024, time.February, 29),
		day(2024, time.December, 31),
	} {
		if !IsScheduled(habit, d) {
			t.Errorf("daily habit not scheduled on %s", dateutil.Format(d))
		}
	}
}

func TestIsScheduledWindow(t *testing.T) {
	habit := models.Habit{
		ID:        "h1",
		Frequency: constants.FrequencyDaily,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"before window", day(2024, time.February, 29), false},
		{"window start is inclusive", day(2024, time.March, 1), true},
		{"inside window", day(2024, time.March, 15), true},
		{"window end is inclusive", day(2024, time.March, 31), true},
		{"after window", day(2024, time.April, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScheduled(habit, tt.date); got != tt.want {
				t.Errorf("IsScheduled(%s) = %v, want %v", dateutil.Format(tt.date), got, tt.want)
			}
		})
	}
}

func TestIsScheduledUnparseableWindow(t *testing.T) {
	// A malformed window date is ignored rather than blocking the habit.
	habit := models.Habit{
		ID:        "h1",
		Frequency: constants.FrequencyDaily,
		StartDate: "garbage",
	}
	if !IsScheduled(habit, day(2024, time.June, 1)) {
		t.Error("expected habit with unparseable start date to remain scheduled")
	}
}

func TestIsScheduledWeekly(t *testing.T) {
	habit := models.Habit{
		ID:         "h1",
		Frequency:  constants.FrequencyWeekly,
		CustomDays: []string{"mon", "wed", "fri"},
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"monday", day(2024, time.January, 1), true},
		{"tuesday", day(2024, time.January, 2), false},
		{"wednesday", day(2024, time.January, 3), true},
		{"friday", day(2024, time.January, 5), true},
		{"sunday", day(2024, time.January, 7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScheduled(habit, tt.date); got != tt.want {
				t.Errorf("IsScheduled(%s) = %v, want %v", dateutil.Format(tt.date), got, tt.want)
			}
		})
	}

	t.Run("empty custom days means every day", func(t *testing.T) {
		everyDay := models.Habit{ID: "h2", Frequency: constants.FrequencyWeekly}
		for d := day(2024, time.January, 1); !d.After(day(2024, time.January, 7)); d = d.AddDate(0, 0, 1) {
			if !IsScheduled(everyDay, d) {
				t.Errorf("weekly habit without custom days not scheduled on %s", dateutil.Format(d))
			}
		}
	})
}

func TestIsScheduledMonthly(t *testing.T) {
	tests := []struct {
		name       string
		customDays []string
		date       time.Time
		want       bool
	}{
		{"matching day number", []string{"1", "15"}, day(2024, time.June, 15), true},
		{"non-matching day number", []string{"1", "15"}, day(2024, time.June, 16), false},
		{"last on leap february 29th", []string{"last"}, day(2024, time.February, 29), true},
		{"last not on leap february 28th", []string{"last"}, day(2024, time.February, 28), false},
		{"last on non-leap february 28th", []string{"last"}, day(2023, time.February, 28), true},
		{"last on april 30th", []string{"last"}, day(2024, time.April, 30), true},
		{"31 and last on april 30th", []string{"31", "last"}, day(2024, time.April, 30), true},
		{"31 and last on january 31st", []string{"31", "last"}, day(2024, time.January, 31), true},
		{"31 and last on january 30th", []string{"31", "last"}, day(2024, time.January, 30), false},
		{"empty custom days means every day", nil, day(2024, time.June, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := models.Habit{ID: "h1", Frequency: constants.FrequencyMonthly, CustomDays: tt.customDays}
			if got := IsScheduled(habit, tt.date); got != tt.want {
				t.Errorf("IsScheduled(%s) = %v, want %v", dateutil.Format(tt.date), got, tt.want)
			}
		})
	}
}

func TestIsScheduledCustomAndUnknown(t *testing.T) {
	custom := models.Habit{ID: "h1", Frequency: constants.FrequencyCustom}
	if !IsScheduled(custom, day(2024, time.June, 1)) {
		t.Error("custom frequency should schedule every day")
	}

	unknown := models.Habit{ID: "h2", Frequency: "biweekly"}
	if !IsScheduled(unknown, day(2024, time.June, 1)) {
		t.Error("unrecognized frequency should schedule permissively")
	}
}

func TestHabitsOnDate(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Frequency: constants.FrequencyDaily},
		{ID: "b", Frequency: constants.FrequencyWeekly, CustomDays: []string{"tue"}},
		{ID: "c", Frequency: constants.FrequencyDaily, Archived: true},
		{ID: "d", Frequency: constants.FrequencyDaily},
	}

	// 2024-01-01 is a Monday.
	got := HabitsOnDate(habits, day(2024, time.January, 1))
	if len(got) != 2 {
		t.Fatalf("expected 2 scheduled habits, got %d", len(got))
	}
	// Input ordering is preserved.
	if got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}

	for _, h := range got {
		if !IsScheduled(h, day(2024, time.January, 1)) {
			t.Errorf("HabitsOnDate returned %s which IsScheduled rejects", h.ID)
		}
	}
}

func TestForRange(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Frequency: constants.FrequencyWeekly, CustomDays: []string{"mon"}},
	}

	byDay := ForRange(habits, day(2024, time.January, 1), day(2024, time.January, 3))
	if len(byDay) != 3 {
		t.Fatalf("expected 3 days, got %d", len(byDay))
	}
	if len(byDay["2024-01-01"]) != 1 {
		t.Errorf("expected habit scheduled on monday")
	}
	// Days with nothing scheduled still get an entry.
	if got, ok := byDay["2024-01-02"]; !ok || len(got) != 0 {
		t.Errorf("expected empty entry for tuesday, got %v (present=%v)", got, ok)
	}

	if len(ForRange(habits, day(2024, time.January, 3), day(2024, time.January, 1))) != 0 {
		t.Error("expected empty result for inverted range")
	}
}
