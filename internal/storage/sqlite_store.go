package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/calperry/stride/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL,
	custom_days TEXT,
	start_date TEXT,
	end_date TEXT,
	streak_enabled INTEGER NOT NULL DEFAULT 1,
	streak_reset_after_missing_days INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	archived INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	log_date TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	completed_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(habit_id, log_date)
);

CREATE INDEX IF NOT EXISTS idx_habit_logs_date ON habit_logs(log_date);
CREATE INDEX IF NOT EXISTS idx_habit_logs_habit ON habit_logs(habit_id, log_date);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present or incomplete
	settings, err := s.GetSettings()
	if err != nil || settings.Timezone == "" {
		defaults := models.Settings{}
		models.ApplyDefaultSettings(&defaults)
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'stride init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Settings

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range models.SettingsToMap(settings) {
		_, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Habits

const habitColumns = `id, user_id, title, description, icon, color, category, frequency,
	custom_days, start_date, end_date, streak_enabled, streak_reset_after_missing_days,
	sort_order, archived, created_at, updated_at`

func scanHabit(row interface{ Scan(...any) error }) (models.Habit, error) {
	var h models.Habit
	var customDays, startDate, endDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Icon, &h.Color,
		&h.Category, &h.Frequency, &customDays, &startDate, &endDate,
		&h.StreakEnabled, &h.StreakResetAfterMissingDays, &h.SortOrder, &h.Archived,
		&createdAt, &updatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if customDays.Valid && customDays.String != "" {
		if err := json.Unmarshal([]byte(customDays.String), &h.CustomDays); err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse custom_days for habit %s: %w", h.ID, err)
		}
	}
	if startDate.Valid {
		h.StartDate = startDate.String
	}
	if endDate.Valid {
		h.EndDate = endDate.String
	}

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
	}

	return h, nil
}

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (s *SQLiteStore) GetHabitByTitle(title string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE title = ?`, title)
	return scanHabit(row)
}

func (s *SQLiteStore) GetActiveHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits
		WHERE archived = 0
		ORDER BY sort_order ASC, created_at DESC`)
}

func (s *SQLiteStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`
	return s.queryHabits(query)
}

func (s *SQLiteStore) queryHabits(query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	var customDays sql.NullString
	if len(habit.CustomDays) > 0 {
		data, err := json.Marshal(habit.CustomDays)
		if err != nil {
			return fmt.Errorf("failed to serialize custom_days: %w", err)
		}
		customDays = sql.NullString{String: string(data), Valid: true}
	}

	var startDate, endDate sql.NullString
	if habit.StartDate != "" {
		startDate = sql.NullString{String: habit.StartDate, Valid: true}
	}
	if habit.EndDate != "" {
		endDate = sql.NullString{String: habit.EndDate, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, title, description, icon, color, category, frequency,
			custom_days, start_date, end_date, streak_enabled, streak_reset_after_missing_days,
			sort_order, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			icon = excluded.icon,
			color = excluded.color,
			category = excluded.category,
			frequency = excluded.frequency,
			custom_days = excluded.custom_days,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			streak_enabled = excluded.streak_enabled,
			streak_reset_after_missing_days = excluded.streak_reset_after_missing_days,
			sort_order = excluded.sort_order,
			archived = excluded.archived,
			updated_at = excluded.updated_at`,
		habit.ID, habit.UserID, habit.Title, habit.Description, habit.Icon, habit.Color,
		habit.Category, habit.Frequency, customDays, startDate, endDate,
		habit.StreakEnabled, habit.StreakResetAfterMissingDays, habit.SortOrder, habit.Archived,
		habit.CreatedAt.Format(time.RFC3339), habit.UpdatedAt.Format(time.RFC3339))

	return err
}

func (s *SQLiteStore) ArchiveHabit(id string) error {
	return s.setArchived(id, true)
}

func (s *SQLiteStore) UnarchiveHabit(id string) error {
	return s.setArchived(id, false)
}

func (s *SQLiteStore) setArchived(id string, archived bool) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived = ?, updated_at = ? WHERE id = ? AND archived = ?`,
		archived, time.Now().Format(time.RFC3339), id, !archived)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if archived {
			return fmt.Errorf("habit not found or already archived")
		}
		return fmt.Errorf("habit not found or not archived")
	}

	return nil
}

func (s *SQLiteStore) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit not found")
	}

	// Logs are intentionally left in place; orphaned logs are tolerated
	// by the analytics layer.
	return nil
}

// Habit Logs

const logColumns = `id, habit_id, user_id, log_date, completed, notes, completed_at, created_at, updated_at`

func scanLog(row interface{ Scan(...any) error }) (models.HabitLog, error) {
	var l models.HabitLog
	var completedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &l.LogDate, &l.Completed, &l.Notes,
		&completedAt, &createdAt, &updatedAt)
	if err != nil {
		return models.HabitLog{}, err
	}

	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return models.HabitLog{}, fmt.Errorf("failed to parse completed_at for log %s: %w", l.ID, err)
		}
		l.CompletedAt = &t
	}
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse created_at for log %s: %w", l.ID, err)
	}
	l.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse updated_at for log %s: %w", l.ID, err)
	}

	return l, nil
}

func (s *SQLiteStore) UpsertHabitLog(log models.HabitLog) error {
	var completedAt sql.NullString
	if log.CompletedAt != nil {
		completedAt = sql.NullString{String: log.CompletedAt.Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habit_logs (id, habit_id, user_id, log_date, completed, notes, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, log_date) DO UPDATE SET
			completed = excluded.completed,
			notes = excluded.notes,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`,
		log.ID, log.HabitID, log.UserID, log.LogDate, log.Completed, log.Notes,
		completedAt, log.CreatedAt.Format(time.RFC3339), log.UpdatedAt.Format(time.RFC3339))

	return err
}

func (s *SQLiteStore) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	row := s.db.QueryRow(`SELECT `+logColumns+` FROM habit_logs WHERE habit_id = ? AND log_date = ?`,
		habitID, date)
	return scanLog(row)
}

func (s *SQLiteStore) GetHabitLogsForDay(date string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs WHERE log_date = ? ORDER BY created_at`, date)
}

func (s *SQLiteStore) GetHabitLogsForRange(startDay, endDay string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs
		WHERE log_date >= ? AND log_date <= ?
		ORDER BY log_date DESC`, startDay, endDay)
}

func (s *SQLiteStore) GetHabitLogsForHabit(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs
		WHERE habit_id = ? AND log_date >= ? AND log_date <= ?
		ORDER BY log_date DESC`, habitID, startDay, endDay)
}

func (s *SQLiteStore) queryLogs(query string, args ...any) ([]models.HabitLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) DeleteHabitLog(id string) error {
	result, err := s.db.Exec(`DELETE FROM habit_logs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit log not found")
	}

	return nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - SQLiteStore is not safe for concurrent use by multiple goroutines
//     without external synchronization.
//   - Running multiple stride processes that share the same storage path
//     at the same time is not supported.
func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

var _ Provider = (*SQLiteStore)(nil)
