package storage

import "github.com/calperry/stride/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	// GetActiveHabits returns non-archived habits ordered by sort_order
	// ascending, then created_at descending. This is the ordering the
	// scheduling and analytics layers preserve end to end.
	GetActiveHabits() ([]models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error

	// Habit Logs
	UpsertHabitLog(models.HabitLog) error
	GetHabitLog(habitID, date string) (models.HabitLog, error)
	GetHabitLogsForDay(date string) ([]models.HabitLog, error)
	GetHabitLogsForRange(startDay, endDay string) ([]models.HabitLog, error)
	GetHabitLogsForHabit(habitID, startDay, endDay string) ([]models.HabitLog, error)
	DeleteHabitLog(id string) error

	// Utils
	GetConfigPath() string
}
