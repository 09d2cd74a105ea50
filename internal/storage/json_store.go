package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/calperry/stride/internal/models"
)

type jsonStore struct {
	Version  int                        `json:"version"`
	Settings models.Settings            `json:"settings"`
	Habits   map[string]models.Habit    `json:"habits"`
	Logs     map[string]models.HabitLog `json:"logs"` // keyed by log ID
}

type JSONStore struct {
	path  string
	store *jsonStore
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	defaults := models.Settings{}
	models.ApplyDefaultSettings(&defaults)

	s.store = &jsonStore{
		Version:  1,
		Settings: defaults,
		Habits:   make(map[string]models.Habit),
		Logs:     make(map[string]models.HabitLog),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'stride init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &jsonStore{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}
	if s.store.Logs == nil {
		s.store.Logs = make(map[string]models.HabitLog)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

// Settings

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	settings := s.store.Settings
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Settings = settings
	return s.save()
}

// Habits

func (s *JSONStore) AddHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}

	habit, ok := s.store.Habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	}
	return habit, nil
}

func (s *JSONStore) GetHabitByTitle(title string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}

	for _, habit := range s.store.Habits {
		if habit.Title == title {
			return habit, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit not found: %s", title)
}

func (s *JSONStore) GetActiveHabits() ([]models.Habit, error) {
	return s.GetAllHabits(false)
}

func (s *JSONStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, habit := range s.store.Habits {
		if !includeArchived && habit.Archived {
			continue
		}
		habits = append(habits, habit)
	}

	// Match the SQL ordering: sort_order ascending, created_at descending.
	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	return habits, nil
}

func (s *JSONStore) UpdateHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}

	if _, ok := s.store.Habits[habit.ID]; !ok {
		return fmt.Errorf("habit not found: %s", habit.ID)
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) ArchiveHabit(id string) error {
	return s.setArchived(id, true)
}

func (s *JSONStore) UnarchiveHabit(id string) error {
	return s.setArchived(id, false)
}

func (s *JSONStore) setArchived(id string, archived bool) error {
	if err := s.loaded(); err != nil {
		return err
	}

	habit, ok := s.store.Habits[id]
	if !ok {
		return fmt.Errorf("habit not found: %s", id)
	}
	if habit.Archived == archived {
		if archived {
			return fmt.Errorf("habit already archived")
		}
		return fmt.Errorf("habit not archived")
	}

	habit.Archived = archived
	s.store.Habits[id] = habit
	return s.save()
}

func (s *JSONStore) DeleteHabit(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}

	if _, ok := s.store.Habits[id]; !ok {
		return fmt.Errorf("habit not found: %s", id)
	}
	delete(s.store.Habits, id)

	// Logs are intentionally orphaned rather than deleted.
	return s.save()
}

// Habit Logs

func (s *JSONStore) UpsertHabitLog(log models.HabitLog) error {
	if err := s.loaded(); err != nil {
		return err
	}

	// Replace an existing row for the same (habit, day) to keep the
	// one-log-per-day invariant the SQL stores enforce with a UNIQUE
	// constraint.
	for id, existing := range s.store.Logs {
		if existing.HabitID == log.HabitID && existing.LogDate == log.LogDate {
			log.ID = existing.ID
			log.CreatedAt = existing.CreatedAt
			s.store.Logs[id] = log
			return s.save()
		}
	}

	s.store.Logs[log.ID] = log
	return s.save()
}

func (s *JSONStore) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	if err := s.loaded(); err != nil {
		return models.HabitLog{}, err
	}

	for _, log := range s.store.Logs {
		if log.HabitID == habitID && log.LogDate == date {
			return log, nil
		}
	}
	return models.HabitLog{}, fmt.Errorf("habit log not found for %s on %s", habitID, date)
}

func (s *JSONStore) GetHabitLogsForDay(date string) ([]models.HabitLog, error) {
	return s.filterLogs(func(l models.HabitLog) bool {
		return l.LogDate == date
	})
}

func (s *JSONStore) GetHabitLogsForRange(startDay, endDay string) ([]models.HabitLog, error) {
	return s.filterLogs(func(l models.HabitLog) bool {
		return l.LogDate >= startDay && l.LogDate <= endDay
	})
}

func (s *JSONStore) GetHabitLogsForHabit(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.filterLogs(func(l models.HabitLog) bool {
		return l.HabitID == habitID && l.LogDate >= startDay && l.LogDate <= endDay
	})
}

func (s *JSONStore) filterLogs(keep func(models.HabitLog) bool) ([]models.HabitLog, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var logs []models.HabitLog
	for _, log := range s.store.Logs {
		if keep(log) {
			logs = append(logs, log)
		}
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].LogDate > logs[j].LogDate
	})
	return logs, nil
}

func (s *JSONStore) DeleteHabitLog(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}

	if _, ok := s.store.Logs[id]; !ok {
		return fmt.Errorf("habit log not found: %s", id)
	}
	delete(s.store.Logs, id)
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}

var _ Provider = (*JSONStore)(nil)
