package analytics

import (
	"testing"
	"time"

	"github.com/calperry/stride/internal/models"
)

func logsFor(dates ...string) []models.HabitLog {
	logs := make([]models.HabitLog, len(dates))
	for i, d := range dates {
		logs[i] = completedLog("h1", d)
	}
	return logs
}

func TestComputeStreak(t *testing.T) {
	today := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		dates       []string
		graceDays   int
		wantCurrent int
		wantLongest int
	}{
		{
			name: "no logs",
		},
		{
			name:        "single completion today",
			dates:       []string{"2024-01-10"},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single completion yesterday keeps the streak alive",
			dates:       []string{"2024-01-09"},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "most recent completion two days ago kills the current streak",
			dates:       []string{"2024-01-08"},
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "five consecutive days ending yesterday",
			dates:       []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09"},
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "gap breaks the run without grace",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-05", "2024-01-09", "2024-01-10"},
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "grace forgives short gaps",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-05", "2024-01-09", "2024-01-10"},
			graceDays:   3,
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "grace does not extend the anchor",
			dates:       []string{"2024-01-07", "2024-01-08"},
			graceDays:   5,
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name:        "longest run sits in the past",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-10"},
			wantCurrent: 1,
			wantLongest: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeStreak(logsFor(tt.dates...), today, tt.graceDays)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
		})
	}
}

func TestComputeStreakIgnoresIncompleteAndDuplicates(t *testing.T) {
	today := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	logs := []models.HabitLog{
		completedLog("h1", "2024-01-01"),
		completedLog("h1", "2024-01-02"),
		completedLog("h1", "2024-01-02"), // duplicate date collapses to one day
		completedLog("h1", "2024-01-03"),
		{ID: "x", HabitID: "h1", LogDate: "2023-12-31", Completed: false},
	}

	got, err := ComputeStreak(logs, today, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Current != 3 || got.Longest != 3 {
		t.Errorf("got %+v, want Current=3 Longest=3", got)
	}
}

func TestComputeStreakMalformedDate(t *testing.T) {
	today := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	logs := []models.HabitLog{{ID: "x", HabitID: "h1", LogDate: "bogus", Completed: true}}

	if _, err := ComputeStreak(logs, today, 0); err == nil {
		t.Error("expected error for malformed log date")
	}
}

func TestComputeStreakGraceMonotonic(t *testing.T) {
	// Raising the grace allowance must never shorten a streak.
	today := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	logs := logsFor("2024-01-02", "2024-01-05", "2024-01-09", "2024-01-14", "2024-01-19", "2024-01-20")

	prev := Streak{}
	for grace := 0; grace <= 6; grace++ {
		got, err := ComputeStreak(logs, today, grace)
		if err != nil {
			t.Fatalf("unexpected error at grace %d: %v", grace, err)
		}
		if got.Current < prev.Current || got.Longest < prev.Longest {
			t.Errorf("grace %d shrank streak: %+v -> %+v", grace, prev, got)
		}
		prev = got
	}
}
