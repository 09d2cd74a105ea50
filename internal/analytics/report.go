package analytics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/errors"
	"github.com/calperry/stride/internal/models"
	"github.com/calperry/stride/internal/schedule"
)

// gapPenaltyWeight is the consistency-score cost per missed day beyond
// the first inside a gap between completions.
const gapPenaltyWeight = 2

// round rounds half toward positive infinity, matching the rounding the
// presentation layer has always displayed.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// HabitAnalyticsForRange computes one habit's statistics for the
// inclusive [start, end] window.
//
// The completion-rate denominator is the full window length, not the
// count of days the habit was actually scheduled. This is a deliberate
// compatibility decision, not an oversight.
func HabitAnalyticsForRange(habit models.Habit, idx *CompletionIndex, start, end time.Time) (models.HabitAnalytics, error) {
	startStr, endStr := dateutil.Format(start), dateutil.Format(end)

	var rangeLogs []models.HabitLog
	for _, l := range idx.CompletedLogs(habit.ID) {
		if l.LogDate >= startStr && l.LogDate <= endStr {
			rangeLogs = append(rangeLogs, l)
		}
	}

	totalDays := dateutil.DayCount(start, end)
	if totalDays < 1 {
		totalDays = 1
	}

	day, err := bestDayOfWeek(rangeLogs)
	if err != nil {
		return models.HabitAnalytics{}, err
	}

	return models.HabitAnalytics{
		HabitID:          habit.ID,
		HabitTitle:       habit.Title,
		Icon:             habitIcon(habit),
		CompletionRate:   round(float64(len(rangeLogs)) / float64(totalDays) * 100),
		ConsistencyScore: consistencyScore(rangeLogs, totalDays),
		TotalCompletions: len(rangeLogs),
		BestDayOfWeek:    day,
		BestTimeOfDay:    bestTimeOfDay(rangeLogs),
	}, nil
}

// consistencyScore is the completion rate minus a penalty for gaps of
// more than one missed day between completions. A perfectly consistent
// run has zero penalty; the score never drops below 0.
func consistencyScore(logs []models.HabitLog, totalDays int) int {
	if len(logs) == 0 {
		return 0
	}

	dates := make([]string, len(logs))
	for i, l := range logs {
		dates[i] = l.LogDate
	}
	sort.Strings(dates)

	baseScore := float64(len(logs)) / float64(totalDays) * 100

	penalty := 0
	for i := 0; i < len(dates)-1; i++ {
		cur, err := dateutil.Parse(dates[i])
		if err != nil {
			continue
		}
		next, err := dateutil.Parse(dates[i+1])
		if err != nil {
			continue
		}
		gapLength := daysBetween(cur, next) - 1
		if gapLength > 1 {
			penalty += (gapLength - 1) * gapPenaltyWeight
		}
	}

	score := round(baseScore) - penalty
	if score < 0 {
		return 0
	}
	return score
}

// bestDayOfWeek picks the weekday with the most completions. Ties go to
// the earliest-declared token; no completions default to "mon".
func bestDayOfWeek(logs []models.HabitLog) (constants.DayToken, error) {
	counts := make(map[constants.DayToken]int, len(constants.DayTokens))
	for _, l := range logs {
		d, err := dateutil.Parse(l.LogDate)
		if err != nil {
			return "", err
		}
		counts[dateutil.DayOfWeek(d)]++
	}

	best := constants.DayTokens[0]
	for _, token := range constants.DayTokens[1:] {
		if counts[token] > counts[best] {
			best = token
		}
	}
	return best, nil
}

// bestTimeOfDay buckets each completion's CompletedAt hour and picks
// the fullest bucket. Completions without a timestamp are skipped here
// but still count toward rates and totals. Ties go to the
// earliest-declared bucket; no timestamps default to "morning".
func bestTimeOfDay(logs []models.HabitLog) constants.TimeBucket {
	counts := make(map[constants.TimeBucket]int, len(constants.TimeBuckets))
	for _, l := range logs {
		if l.CompletedAt == nil {
			continue
		}
		counts[bucketForHour(l.CompletedAt.Hour())]++
	}

	best := constants.TimeBuckets[0]
	for _, bucket := range constants.TimeBuckets[1:] {
		if counts[bucket] > counts[best] {
			best = bucket
		}
	}
	return best
}

func bucketForHour(hour int) constants.TimeBucket {
	switch {
	case hour >= 5 && hour < 12:
		return constants.BucketMorning
	case hour >= 12 && hour < 17:
		return constants.BucketAfternoon
	case hour >= 17 && hour < 22:
		return constants.BucketEvening
	default:
		return constants.BucketNight
	}
}

// CompareWeeks builds a week-over-week comparison anchored at today:
// the current window is today-6 through today, the previous window the
// 7-day block immediately before it. Rates divide by 7 days times the
// habit count (floored at 1).
func CompareWeeks(habitCount int, idx *CompletionIndex, today time.Time) models.WeekComparison {
	today = dateutil.Truncate(today)

	curStart := dateutil.Format(today.AddDate(0, 0, -6))
	curEnd := dateutil.Format(today)
	prevStart := dateutil.Format(today.AddDate(0, 0, -13))
	prevEnd := dateutil.Format(today.AddDate(0, 0, -7))

	curCount := idx.countCompletedInRange(curStart, curEnd)
	prevCount := idx.countCompletedInRange(prevStart, prevEnd)

	count := habitCount
	if count < 1 {
		count = 1
	}

	var change int
	switch {
	case prevCount == 0 && curCount == 0:
		change = 0
	case prevCount == 0:
		// Signals "infinite improvement" without dividing by zero.
		change = 100
	default:
		change = round(float64(curCount-prevCount) / float64(prevCount) * 100)
	}

	return models.WeekComparison{
		CurrentWeek: models.WeekWindow{
			Completions: curCount,
			Rate:        round(float64(curCount) / float64(7*count) * 100),
			StartDate:   curStart,
			EndDate:     curEnd,
		},
		LastWeek: models.WeekWindow{
			Completions: prevCount,
			Rate:        round(float64(prevCount) / float64(7*count) * 100),
			StartDate:   prevStart,
			EndDate:     prevEnd,
		},
		Change: change,
	}
}

func (idx *CompletionIndex) countCompletedInRange(start, end string) int {
	count := 0
	for key, l := range idx.logs {
		if l.Completed && key.date >= start && key.date <= end {
			count++
		}
	}
	return count
}

// Heatmap produces one cell per day in [start, end]. The denominator is
// the count of all active habits, not only the ones scheduled that day,
// preserved for compatibility with the historical display.
func Heatmap(totalHabits int, idx *CompletionIndex, start, end time.Time) []models.HeatmapDay {
	days := dateutil.EnumerateDays(start, end)
	cells := make([]models.HeatmapDay, 0, len(days))

	for _, day := range days {
		dateStr := dateutil.Format(day)
		completed := idx.CompletedOn(dateStr)

		rate := 0
		if totalHabits > 0 {
			rate = round(float64(completed) / float64(totalHabits) * 100)
		}

		cells = append(cells, models.HeatmapDay{
			Date:           dateStr,
			CompletionRate: rate,
			CompletedCount: completed,
			TotalScheduled: totalHabits,
		})
	}
	return cells
}

// Insights aggregates per-habit analytics into behavioral insights: the
// day and time most habits favor (majority vote, earliest-declared wins
// ties) and the rounded mean consistency score.
func Insights(analytics []models.HabitAnalytics) models.BehavioralInsights {
	if len(analytics) == 0 {
		return models.BehavioralInsights{
			BestDayOfWeek: constants.DayTokens[0],
			BestTimeOfDay: constants.TimeBuckets[0],
		}
	}

	dayVotes := make(map[constants.DayToken]int)
	timeVotes := make(map[constants.TimeBucket]int)
	consistencySum := 0
	for _, a := range analytics {
		dayVotes[a.BestDayOfWeek]++
		timeVotes[a.BestTimeOfDay]++
		consistencySum += a.ConsistencyScore
	}

	bestDay := constants.DayTokens[0]
	for _, token := range constants.DayTokens[1:] {
		if dayVotes[token] > dayVotes[bestDay] {
			bestDay = token
		}
	}

	bestTime := constants.TimeBuckets[0]
	for _, bucket := range constants.TimeBuckets[1:] {
		if timeVotes[bucket] > timeVotes[bestTime] {
			bestTime = bucket
		}
	}

	return models.BehavioralInsights{
		BestDayOfWeek:           bestDay,
		BestTimeOfDay:           bestTime,
		AverageConsistencyScore: round(float64(consistencySum) / float64(len(analytics))),
		TotalActiveHabits:       len(analytics),
	}
}

// TopStreaks computes streaks for every habit, sorts by current streak
// descending (stable, so ties keep habit order) and ranks the top
// limit entries.
func TopStreaks(habits []models.Habit, idx *CompletionIndex, today time.Time, graceDays, limit int) ([]models.StreakInfo, error) {
	infos := make([]models.StreakInfo, 0, len(habits))
	for _, h := range habits {
		streak, err := ComputeStreak(idx.CompletedLogs(h.ID), today, resolveGraceDays(h, graceDays))
		if err != nil {
			return nil, err
		}
		infos = append(infos, models.StreakInfo{
			HabitID:       h.ID,
			HabitTitle:    h.Title,
			Icon:          habitIcon(h),
			CurrentStreak: streak.Current,
			LongestStreak: streak.Longest,
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CurrentStreak > infos[j].CurrentStreak
	})

	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	for i := range infos {
		infos[i].Rank = i + 1
	}
	return infos, nil
}

// resolveGraceDays picks the per-habit grace threshold when one is set,
// falling back to the application-wide value.
func resolveGraceDays(habit models.Habit, fallback int) int {
	if habit.StreakResetAfterMissingDays > 0 {
		return habit.StreakResetAfterMissingDays
	}
	return fallback
}

func habitIcon(habit models.Habit) string {
	if habit.Icon != "" {
		return habit.Icon
	}
	return constants.DefaultHabitIcon
}

// FullReport is the single aggregate reports entry point: per-habit
// analytics, week comparison, behavioral insights, heatmap and top
// streaks in one pass over an in-memory snapshot. Per-habit work runs
// as a parallel map; results are merged back by index so output order
// is deterministic.
//
// Zero habits yield empty slices and nil comparison/insights, never an
// error. start after end is rejected with ErrInvalidDateRange.
func FullReport(habits []models.Habit, logs []models.HabitLog, start, end, today time.Time, graceDays int) (models.ReportsData, error) {
	report := models.ReportsData{
		HabitAnalytics: []models.HabitAnalytics{},
		HeatmapData:    []models.HeatmapDay{},
		TopStreaks:     []models.StreakInfo{},
	}

	if dateutil.Truncate(start).After(dateutil.Truncate(end)) {
		return report, errors.ErrInvalidDateRange
	}
	if len(habits) == 0 {
		return report, nil
	}

	idx, err := NewIndex(logs)
	if err != nil {
		return report, err
	}

	results := make([]models.HabitAnalytics, len(habits))
	errs := make([]error, len(habits))
	var wg sync.WaitGroup
	for i, h := range habits {
		wg.Add(1)
		go func(i int, h models.Habit) {
			defer wg.Done()
			results[i], errs[i] = HabitAnalyticsForRange(h, idx, start, end)
		}(i, h)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return report, err
		}
	}
	report.HabitAnalytics = results

	comparison := CompareWeeks(len(habits), idx, today)
	report.WeekComparison = &comparison

	insights := Insights(results)
	report.DisplayInsights = &insights

	report.HeatmapData = Heatmap(len(habits), idx, start, end)

	streaks, err := TopStreaks(habits, idx, today, graceDays, constants.DefaultTopStreakLimit)
	if err != nil {
		return report, err
	}
	report.TopStreaks = streaks

	return report, nil
}

// DailyProgress summarizes the habits scheduled on date against their
// completions.
func DailyProgress(habits []models.Habit, idx *CompletionIndex, date time.Time) models.DailyProgress {
	dateStr := dateutil.Format(date)
	scheduled := schedule.HabitsOnDate(habits, date)

	completed := 0
	for _, h := range scheduled {
		if idx.IsCompleted(h.ID, dateStr) {
			completed++
		}
	}

	percentage := 0
	if len(scheduled) > 0 {
		percentage = round(float64(completed) / float64(len(scheduled)) * 100)
	}

	return models.DailyProgress{
		Date:            dateStr,
		TotalHabits:     len(scheduled),
		CompletedHabits: completed,
		Percentage:      percentage,
	}
}

// WeeklyProgress builds the trailing 7-day per-day progress series
// ending today, with scheduled-habit denominators per day.
func WeeklyProgress(habits []models.Habit, idx *CompletionIndex, today time.Time) models.WeeklyProgress {
	today = dateutil.Truncate(today)

	days := make([]models.WeeklyProgressDay, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dateStr := dateutil.Format(day)
		scheduled := schedule.HabitsOnDate(habits, day)

		completed := 0
		for _, h := range scheduled {
			if idx.IsCompleted(h.ID, dateStr) {
				completed++
			}
		}

		days = append(days, models.WeeklyProgressDay{
			Date:      dateStr,
			DayName:   day.Format("Mon"),
			Completed: completed,
			Total:     len(scheduled),
		})
	}
	return models.WeeklyProgress{Days: days}
}

// WithStats enriches habits with completion status and streak stats for
// dashboard views.
func WithStats(habits []models.Habit, logs []models.HabitLog, today time.Time, graceDays int) ([]models.HabitWithStats, error) {
	idx, err := NewIndex(logs)
	if err != nil {
		return nil, err
	}

	today = dateutil.Truncate(today)
	todayStr := dateutil.Format(today)
	weekAgo := dateutil.Format(today.AddDate(0, 0, -6))
	monthAgo := dateutil.Format(today.AddDate(0, 0, -29))

	stats := make([]models.HabitWithStats, 0, len(habits))
	for _, h := range habits {
		completed := idx.CompletedLogs(h.ID)
		streak, err := ComputeStreak(completed, today, resolveGraceDays(h, graceDays))
		if err != nil {
			return nil, err
		}

		hs := models.HabitWithStats{
			Habit:                 h,
			CompletedToday:        idx.IsCompleted(h.ID, todayStr),
			CurrentStreak:         streak.Current,
			LongestStreak:         streak.Longest,
			TotalCompletions:      len(completed),
			CompletionsLast7Days:  idx.CountCompletions(h.ID, weekAgo, todayStr),
			CompletionsLast30Days: idx.CountCompletions(h.ID, monthAgo, todayStr),
		}
		if len(completed) > 0 {
			hs.LastCompletedDate = completed[len(completed)-1].LogDate
		}
		stats = append(stats, hs)
	}
	return stats, nil
}
