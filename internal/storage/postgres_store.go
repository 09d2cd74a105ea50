package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/keyring"
	"github.com/calperry/stride/internal/logger"
	"github.com/calperry/stride/internal/models"
)

// PostgresStore talks to a hosted Postgres backend. Connection strings
// must never embed a password; credentials come from the OS keyring,
// the STRIDE_DB_CONNECTION environment variable, or .pgpass.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

// HasEmbeddedCredentials reports whether a postgres:// connection
// string carries a password inline.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

func (s *PostgresStore) ensureSearchPath() {
	// Keep all stride tables inside their own schema.
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	}
}

// resolveConnStr prefers the keyring-stored connection string, then the
// environment, then the explicitly configured one.
func (s *PostgresStore) resolveConnStr() string {
	if stored, err := keyring.GetConnectionString(); err == nil && stored != "" {
		return stored
	}
	if env := os.Getenv("STRIDE_DB_CONNECTION"); env != "" {
		return env
	}
	return s.connStr
}

const postgresSchema = `
CREATE SCHEMA IF NOT EXISTS stride;

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
	streak_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	streak_reset_after_missing_days INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	log_date TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
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

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.resolveConnStr())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

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

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.resolveConnStr())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Settings

func (s *PostgresStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
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

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range models.SettingsToMap(settings) {
		_, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Habits

func (s *PostgresStore) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *PostgresStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	return scanHabit(row)
}

func (s *PostgresStore) GetHabitByTitle(title string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE title = $1`, title)
	return scanHabit(row)
}

func (s *PostgresStore) GetActiveHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits
		WHERE archived = FALSE
		ORDER BY sort_order ASC, created_at DESC`)
}

func (s *PostgresStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE archived = FALSE`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`
	return s.queryHabits(query)
}

func (s *PostgresStore) queryHabits(query string, args ...any) ([]models.Habit, error) {
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

func (s *PostgresStore) UpdateHabit(habit models.Habit) error {
	customDays, startDate, endDate, err := habitNullables(habit)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (id, user_id, title, description, icon, color, category, frequency,
			custom_days, start_date, end_date, streak_enabled, streak_reset_after_missing_days,
			sort_order, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
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
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))

	return err
}

func (s *PostgresStore) ArchiveHabit(id string) error {
	return s.setArchived(id, true)
}

func (s *PostgresStore) UnarchiveHabit(id string) error {
	return s.setArchived(id, false)
}

func (s *PostgresStore) setArchived(id string, archived bool) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived = $1, updated_at = $2 WHERE id = $3 AND archived = $4`,
		archived, nowString(), id, !archived)
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

func (s *PostgresStore) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
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

	return nil
}

// Habit Logs

func (s *PostgresStore) UpsertHabitLog(log models.HabitLog) error {
	var completedAt sql.NullString
	if log.CompletedAt != nil {
		completedAt = sql.NullString{String: formatTime(*log.CompletedAt), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habit_logs (id, habit_id, user_id, log_date, completed, notes, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(habit_id, log_date) DO UPDATE SET
			completed = excluded.completed,
			notes = excluded.notes,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`,
		log.ID, log.HabitID, log.UserID, log.LogDate, log.Completed, log.Notes,
		completedAt, formatTime(log.CreatedAt), formatTime(log.UpdatedAt))

	return err
}

func (s *PostgresStore) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	row := s.db.QueryRow(`SELECT `+logColumns+` FROM habit_logs WHERE habit_id = $1 AND log_date = $2`,
		habitID, date)
	return scanLog(row)
}

func (s *PostgresStore) GetHabitLogsForDay(date string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs WHERE log_date = $1 ORDER BY created_at`, date)
}

func (s *PostgresStore) GetHabitLogsForRange(startDay, endDay string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs
		WHERE log_date >= $1 AND log_date <= $2
		ORDER BY log_date DESC`, startDay, endDay)
}

func (s *PostgresStore) GetHabitLogsForHabit(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.queryLogs(`SELECT `+logColumns+` FROM habit_logs
		WHERE habit_id = $1 AND log_date >= $2 AND log_date <= $3
		ORDER BY log_date DESC`, habitID, startDay, endDay)
}

func (s *PostgresStore) queryLogs(query string, args ...any) ([]models.HabitLog, error) {
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

func (s *PostgresStore) DeleteHabitLog(id string) error {
	result, err := s.db.Exec(`DELETE FROM habit_logs WHERE id = $1`, id)
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

// GetConfigPath returns the configured connection string with any
// userinfo stripped, safe for display in diagnostics.
func (s *PostgresStore) GetConfigPath() string {
	u, err := url.Parse(s.connStr)
	if err != nil {
		return s.connStr
	}
	u.User = nil
	return u.String()
}

func habitNullables(habit models.Habit) (customDays, startDate, endDate sql.NullString, err error) {
	if len(habit.CustomDays) > 0 {
		data, merr := json.Marshal(habit.CustomDays)
		if merr != nil {
			err = fmt.Errorf("failed to serialize custom_days: %w", merr)
			return
		}
		customDays = sql.NullString{String: string(data), Valid: true}
	}
	if habit.StartDate != "" {
		startDate = sql.NullString{String: habit.StartDate, Valid: true}
	}
	if habit.EndDate != "" {
		endDate = sql.NullString{String: habit.EndDate, Valid: true}
	}
	return
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func nowString() string {
	return formatTime(time.Now())
}

var _ Provider = (*PostgresStore)(nil)
