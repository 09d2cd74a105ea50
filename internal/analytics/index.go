package analytics

import (
	"sort"

	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/errors"
	"github.com/calperry/stride/internal/logger"
	"github.com/calperry/stride/internal/models"
)

type logKey struct {
	habitID string
	date    string
}

// CompletionIndex is a fast lookup of (habitID, logDate) → log, built
// once per analytics request from a log snapshot. Duplicate rows for
// the same key are resolved deterministically: the later UpdatedAt
// wins, and the last-seen row wins when timestamps tie or are missing.
type CompletionIndex struct {
	logs       map[logKey]models.HabitLog
	duplicates int
}

// NewIndex builds a CompletionIndex from a log collection. Malformed
// records (empty habit ID or unparseable log date) surface a DataError;
// an empty collection is valid and yields an empty index.
func NewIndex(logs []models.HabitLog) (*CompletionIndex, error) {
	idx := &CompletionIndex{
		logs: make(map[logKey]models.HabitLog, len(logs)),
	}

	for _, l := range logs {
		if l.HabitID == "" {
			return nil, errors.NewDataError("habit_id", l.ID, nil)
		}
		if _, err := dateutil.Parse(l.LogDate); err != nil {
			return nil, err
		}

		key := logKey{habitID: l.HabitID, date: l.LogDate}
		existing, ok := idx.logs[key]
		if !ok {
			idx.logs[key] = l
			continue
		}

		idx.duplicates++
		// Later UpdatedAt wins; ties and zero timestamps fall through to
		// the last-seen row.
		if l.UpdatedAt.Before(existing.UpdatedAt) {
			continue
		}
		idx.logs[key] = l
	}

	if idx.duplicates > 0 {
		logger.Warn("Duplicate habit logs resolved during index build", "count", idx.duplicates)
	}

	return idx, nil
}

// IsCompleted reports whether a completed log exists for the habit on
// the given date. A log with Completed=false counts as not completed.
func (idx *CompletionIndex) IsCompleted(habitID, date string) bool {
	l, ok := idx.logs[logKey{habitID: habitID, date: date}]
	return ok && l.Completed
}

// Log returns the resolved log for (habitID, date), if any.
func (idx *CompletionIndex) Log(habitID, date string) (models.HabitLog, bool) {
	l, ok := idx.logs[logKey{habitID: habitID, date: date}]
	return l, ok
}

// CountCompletions counts completed days for a habit within the
// inclusive [start, end] date range. ISO dates compare lexically, so no
// parsing is needed here.
func (idx *CompletionIndex) CountCompletions(habitID, start, end string) int {
	count := 0
	for key, l := range idx.logs {
		if key.habitID != habitID || !l.Completed {
			continue
		}
		if key.date >= start && key.date <= end {
			count++
		}
	}
	return count
}

// CompletedDates returns the habit's completed dates sorted ascending.
func (idx *CompletionIndex) CompletedDates(habitID string) []string {
	var dates []string
	for key, l := range idx.logs {
		if key.habitID == habitID && l.Completed {
			dates = append(dates, key.date)
		}
	}
	sort.Strings(dates)
	return dates
}

// CompletedLogs returns the habit's completed logs sorted ascending by
// date.
func (idx *CompletionIndex) CompletedLogs(habitID string) []models.HabitLog {
	var logs []models.HabitLog
	for key, l := range idx.logs {
		if key.habitID == habitID && l.Completed {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].LogDate < logs[j].LogDate })
	return logs
}

// CompletedOn counts how many habits have a completed log on the date.
func (idx *CompletionIndex) CompletedOn(date string) int {
	count := 0
	for key, l := range idx.logs {
		if key.date == date && l.Completed {
			count++
		}
	}
	return count
}

// Duplicates reports how many duplicate (habitID, logDate) rows were
// resolved while building the index.
func (idx *CompletionIndex) Duplicates() int {
	return idx.duplicates
}
