package analytics

import (
	"sort"
	"time"

	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
)

// Streak holds the current and longest consecutive-completion runs for
// one habit.
type Streak struct {
	Current int
	Longest int
}

// ComputeStreak derives current and longest streaks from one habit's
// log history. Only completed logs count; duplicate dates collapse to
// one day.
//
// The current streak is anchored at "today or yesterday": if the most
// recent completed date is today the run counts from today; if it is
// yesterday the run is still alive and counts from there; anything
// older means Current is 0 regardless of past history.
//
// graceDays is the number of consecutive missed days tolerated inside a
// run before it breaks (0 = any gap breaks). Grace applies to gaps
// between completed days, not to the today/yesterday anchor.
func ComputeStreak(logs []models.HabitLog, today time.Time, graceDays int) (Streak, error) {
	dates, err := uniqueCompletedDates(logs)
	if err != nil {
		return Streak{}, err
	}
	if len(dates) == 0 {
		return Streak{}, nil
	}

	// Longest: single ascending scan. The run counter resets whenever
	// the gap between successive completed days exceeds the grace
	// allowance; missed-but-forgiven days do not add to the count.
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		missed := daysBetween(dates[i-1], dates[i]) - 1
		if missed <= graceDays {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// Current: walk backward from the most recent completed date, which
	// must be today or yesterday for the streak to be alive.
	current := 0
	mostRecent := dates[len(dates)-1]
	today = dateutil.Truncate(today)
	sinceAnchor := daysBetween(mostRecent, today)
	if sinceAnchor == 0 || sinceAnchor == 1 {
		current = 1
		for i := len(dates) - 2; i >= 0; i-- {
			missed := daysBetween(dates[i], dates[i+1]) - 1
			if missed > graceDays {
				break
			}
			current++
		}
	}

	return Streak{Current: current, Longest: longest}, nil
}

// uniqueCompletedDates extracts the de-duplicated, ascending completed
// dates from a habit's logs.
func uniqueCompletedDates(logs []models.HabitLog) ([]time.Time, error) {
	seen := make(map[string]bool, len(logs))
	var dates []time.Time
	for _, l := range logs {
		if !l.Completed || seen[l.LogDate] {
			continue
		}
		d, err := dateutil.Parse(l.LogDate)
		if err != nil {
			return nil, err
		}
		seen[l.LogDate] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// daysBetween returns the whole calendar days from a to b. Dates are
// normalized to UTC midnight so DST shifts cannot skew the arithmetic.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
