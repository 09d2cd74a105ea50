package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/models"
	"github.com/calperry/stride/internal/storage"
)

func newTestStore(t *testing.T) storage.Provider {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "stride.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store
}

func TestParseCustomDays(t *testing.T) {
	tests := []struct {
		name      string
		frequency constants.Frequency
		input     string
		want      []string
		wantErr   bool
	}{
		{"empty input", constants.FrequencyWeekly, "", nil, false},
		{"weekly short tokens", constants.FrequencyWeekly, "mon,wed,fri", []string{"mon", "wed", "fri"}, false},
		{"weekly long names", constants.FrequencyWeekly, "Monday,Friday", []string{"mon", "fri"}, false},
		{"weekly mixed case and spaces", constants.FrequencyWeekly, " TUE , sat ", []string{"tue", "sat"}, false},
		{"weekly invalid token", constants.FrequencyWeekly, "mon,funday", nil, true},
		{"monthly day numbers", constants.FrequencyMonthly, "1,15,31", []string{"1", "15", "31"}, false},
		{"monthly last", constants.FrequencyMonthly, "15,last", []string{"15", "last"}, false},
		{"monthly zero", constants.FrequencyMonthly, "0", nil, true},
		{"monthly out of range", constants.FrequencyMonthly, "32", nil, true},
		{"monthly not a number", constants.FrequencyMonthly, "tuesday", nil, true},
		{"daily rejects custom days", constants.FrequencyDaily, "mon", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCustomDays(tt.frequency, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateFrequency(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly", "custom"} {
		if _, err := ValidateFrequency(s); err != nil {
			t.Errorf("ValidateFrequency(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "Daily", "biweekly", "yearly"} {
		if _, err := ValidateFrequency(s); err == nil {
			t.Errorf("ValidateFrequency(%q) should error", s)
		}
	}
}

func TestValidateCategory(t *testing.T) {
	if got, err := ValidateCategory(""); err != nil || got != "" {
		t.Errorf("empty category should be allowed, got %q, %v", got, err)
	}
	if got, err := ValidateCategory("fitness"); err != nil || got != constants.CategoryFitness {
		t.Errorf("ValidateCategory(fitness) = %q, %v", got, err)
	}
	if _, err := ValidateCategory("gaming"); err == nil {
		t.Error("unknown category should error")
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		want  string
	}{
		{"daily", models.Habit{Frequency: constants.FrequencyDaily}, "daily"},
		{"weekly with days", models.Habit{Frequency: constants.FrequencyWeekly, CustomDays: []string{"mon", "fri"}}, "weekly on mon,fri"},
		{"weekly without days", models.Habit{Frequency: constants.FrequencyWeekly}, "weekly (every day)"},
		{"monthly with days", models.Habit{Frequency: constants.FrequencyMonthly, CustomDays: []string{"1", "last"}}, "monthly on 1,last"},
		{"custom", models.Habit{Frequency: constants.FrequencyCustom}, "custom (every day)"},
		{"unknown passes through", models.Habit{Frequency: "biweekly"}, "biweekly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFrequency(tt.habit); got != tt.want {
				t.Errorf("FormatFrequency = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveHabit(t *testing.T) {
	store := newTestStore(t)
	ctx := &Context{Store: store}

	habit := models.Habit{ID: "abc-123", Title: "Read", Frequency: constants.FrequencyDaily}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	t.Run("by title", func(t *testing.T) {
		got, err := ctx.resolveHabit("Read")
		if err != nil || got.ID != "abc-123" {
			t.Errorf("resolveHabit(title) = %+v, %v", got, err)
		}
	})

	t.Run("by id", func(t *testing.T) {
		got, err := ctx.resolveHabit("abc-123")
		if err != nil || got.Title != "Read" {
			t.Errorf("resolveHabit(id) = %+v, %v", got, err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ctx.resolveHabit("nope")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %v, want not-found", err)
		}
	})
}
