package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/models"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "stride.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store
}

func testHabit(id, title string, sortOrder int) models.Habit {
	// RFC3339 storage drops sub-second precision, so tests stay at
	// whole seconds.
	now := time.Now().UTC().Truncate(time.Second)
	return models.Habit{
		ID:        id,
		Title:     title,
		Frequency: constants.FrequencyDaily,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJSONStoreInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stride.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("seeded timezone = %q, want default", settings.Timezone)
	}
	if settings.ReportRangeDays != constants.DefaultReportRangeDays {
		t.Errorf("seeded report range = %d, want default", settings.ReportRangeDays)
	}

	t.Run("second init is rejected", func(t *testing.T) {
		err := NewJSONStore(path).Init()
		if err == nil || !strings.Contains(err.Error(), "already initialized") {
			t.Errorf("error = %v, want already-initialized", err)
		}
	})
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "stride init") {
		t.Errorf("error = %v, want hint to run stride init", err)
	}
}

func TestJSONStoreLoadPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.json")
	first := NewJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := first.AddHabit(testHabit("h1", "Read", 0)); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	second := NewJSONStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := second.GetHabit("h1"); err != nil {
		t.Errorf("habit did not survive reload: %v", err)
	}
}

func TestJSONStoreHabitCRUD(t *testing.T) {
	store := newTestJSONStore(t)

	habit := testHabit("h1", "Read", 0)
	habit.CustomDays = []string{"mon", "wed"}
	habit.StartDate = "2024-01-01"

	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	got, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Title != "Read" || len(got.CustomDays) != 2 || got.StartDate != "2024-01-01" {
		t.Errorf("round trip lost fields: %+v", got)
	}

	byTitle, err := store.GetHabitByTitle("Read")
	if err != nil || byTitle.ID != "h1" {
		t.Errorf("GetHabitByTitle = %+v, %v", byTitle, err)
	}

	got.Title = "Read more"
	if err := store.UpdateHabit(got); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	updated, _ := store.GetHabit("h1")
	if updated.Title != "Read more" {
		t.Errorf("update not applied: %q", updated.Title)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}
	if _, err := store.GetHabit("h1"); err == nil {
		t.Error("expected habit to be gone after delete")
	}

	t.Run("missing habit errors", func(t *testing.T) {
		if _, err := store.GetHabit("nope"); err == nil {
			t.Error("GetHabit on missing id should error")
		}
		if err := store.UpdateHabit(testHabit("nope", "X", 0)); err == nil {
			t.Error("UpdateHabit on missing id should error")
		}
		if err := store.DeleteHabit("nope"); err == nil {
			t.Error("DeleteHabit on missing id should error")
		}
	})
}

func TestJSONStoreHabitOrdering(t *testing.T) {
	store := newTestJSONStore(t)

	older := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	a := testHabit("a", "A", 1)
	b := testHabit("b", "B", 0)
	b.CreatedAt = older
	c := testHabit("c", "C", 0)
	c.CreatedAt = newer

	for _, h := range []models.Habit{a, b, c} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit(%s): %v", h.ID, err)
		}
	}

	habits, err := store.GetActiveHabits()
	if err != nil {
		t.Fatalf("GetActiveHabits: %v", err)
	}

	// sort_order ascending, then created_at descending.
	want := []string{"c", "b", "a"}
	if len(habits) != len(want) {
		t.Fatalf("got %d habits, want %d", len(habits), len(want))
	}
	for i, id := range want {
		if habits[i].ID != id {
			t.Errorf("habits[%d] = %s, want %s", i, habits[i].ID, id)
		}
	}
}

func TestJSONStoreArchive(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddHabit(testHabit("h1", "Read", 0)); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	if err := store.ArchiveHabit("h1"); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}

	active, _ := store.GetActiveHabits()
	if len(active) != 0 {
		t.Errorf("archived habit still active: %v", active)
	}
	all, _ := store.GetAllHabits(true)
	if len(all) != 1 || !all[0].Archived {
		t.Errorf("GetAllHabits(true) = %v", all)
	}

	if err := store.ArchiveHabit("h1"); err == nil {
		t.Error("double archive should error")
	}

	if err := store.UnarchiveHabit("h1"); err != nil {
		t.Fatalf("UnarchiveHabit: %v", err)
	}
	if err := store.UnarchiveHabit("h1"); err == nil {
		t.Error("unarchiving an active habit should error")
	}
}

func TestJSONStoreUpsertHabitLog(t *testing.T) {
	store := newTestJSONStore(t)

	created := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	first := models.HabitLog{
		ID: "l1", HabitID: "h1", LogDate: "2024-01-01",
		Completed: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := store.UpsertHabitLog(first); err != nil {
		t.Fatalf("UpsertHabitLog: %v", err)
	}

	// A second upsert for the same habit and day replaces the row but
	// keeps the original identity.
	second := models.HabitLog{
		ID: "l2", HabitID: "h1", LogDate: "2024-01-01",
		Completed: false, Notes: "skipped",
		CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour),
	}
	if err := store.UpsertHabitLog(second); err != nil {
		t.Fatalf("UpsertHabitLog: %v", err)
	}

	got, err := store.GetHabitLog("h1", "2024-01-01")
	if err != nil {
		t.Fatalf("GetHabitLog: %v", err)
	}
	if got.ID != "l1" {
		t.Errorf("ID = %s, want original l1", got.ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original", got.CreatedAt)
	}
	if got.Completed || got.Notes != "skipped" {
		t.Errorf("new values not applied: %+v", got)
	}

	logs, err := store.GetHabitLogsForDay("2024-01-01")
	if err != nil {
		t.Fatalf("GetHabitLogsForDay: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("got %d logs for the day, want 1", len(logs))
	}
}

func TestJSONStoreLogQueries(t *testing.T) {
	store := newTestJSONStore(t)

	dates := []string{"2024-01-01", "2024-01-05", "2024-01-10"}
	for i, d := range dates {
		log := models.HabitLog{
			ID: "l" + d, HabitID: "h1", LogDate: d, Completed: true,
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		}
		if i == 1 {
			log.HabitID = "h2"
		}
		if err := store.UpsertHabitLog(log); err != nil {
			t.Fatalf("UpsertHabitLog(%s): %v", d, err)
		}
	}

	t.Run("range is inclusive and sorted newest first", func(t *testing.T) {
		logs, err := store.GetHabitLogsForRange("2024-01-01", "2024-01-10")
		if err != nil {
			t.Fatalf("GetHabitLogsForRange: %v", err)
		}
		if len(logs) != 3 {
			t.Fatalf("got %d logs, want 3", len(logs))
		}
		if logs[0].LogDate != "2024-01-10" || logs[2].LogDate != "2024-01-01" {
			t.Errorf("unexpected order: %s .. %s", logs[0].LogDate, logs[2].LogDate)
		}
	})

	t.Run("per-habit filter", func(t *testing.T) {
		logs, err := store.GetHabitLogsForHabit("h1", "2024-01-01", "2024-01-10")
		if err != nil {
			t.Fatalf("GetHabitLogsForHabit: %v", err)
		}
		if len(logs) != 2 {
			t.Errorf("got %d logs for h1, want 2", len(logs))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeleteHabitLog("l2024-01-01"); err != nil {
			t.Fatalf("DeleteHabitLog: %v", err)
		}
		if err := store.DeleteHabitLog("l2024-01-01"); err == nil {
			t.Error("double delete should error")
		}
	})
}

func TestJSONStoreSettingsRoundTrip(t *testing.T) {
	store := newTestJSONStore(t)

	settings := models.Settings{
		Timezone:         "Europe/Berlin",
		StartOfWeek:      "sunday",
		DefaultFrequency: "weekly",
		StreakGraceDays:  1,
		ReportRangeDays:  14,
	}
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != settings {
		t.Errorf("round trip = %+v, want %+v", got, settings)
	}
}
