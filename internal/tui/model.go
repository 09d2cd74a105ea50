package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calperry/stride/internal/analytics"
	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
	"github.com/calperry/stride/internal/schedule"
	"github.com/calperry/stride/internal/storage"
	"github.com/calperry/stride/internal/tui/components/habitlist"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	StateStreaks
)

type Model struct {
	store     storage.Provider
	state     SessionState
	keys      KeyMap
	help      help.Model
	habitList habitlist.Model

	today     time.Time
	graceDays int

	weekly  models.WeeklyProgress
	streaks []models.StreakInfo
	daily   models.DailyProgress

	statusMsg string
	quitting  bool
	width     int
	height    int
}

// Run starts the interactive dashboard.
func Run(store storage.Provider) error {
	p := tea.NewProgram(NewModel(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}

func NewModel(store storage.Provider) Model {
	m := Model{
		store: store,
		state: StateToday,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	m.habitList = habitlist.New(m.buildItems(), 0, 0)
	return m
}

// refresh recomputes everything shown on the dashboard from storage.
func (m *Model) refresh() {
	settings, err := m.store.GetSettings()
	if err != nil {
		m.statusMsg = fmt.Sprintf("⚠ %v", err)
		return
	}
	m.graceDays = settings.StreakGraceDays

	now, err := dateutil.NowInTimezone(settings.Timezone)
	if err != nil {
		now = time.Now()
	}
	m.today = dateutil.Truncate(now)

	habits, err := m.store.GetActiveHabits()
	if err != nil {
		m.statusMsg = fmt.Sprintf("⚠ %v", err)
		return
	}

	start := m.today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1))
	logs, err := m.store.GetHabitLogsForRange(dateutil.Format(start), dateutil.Format(m.today))
	if err != nil {
		m.statusMsg = fmt.Sprintf("⚠ %v", err)
		return
	}

	idx, err := analytics.NewIndex(logs)
	if err != nil {
		m.statusMsg = fmt.Sprintf("⚠ %v", err)
		return
	}

	m.daily = analytics.DailyProgress(habits, idx, m.today)
	m.weekly = analytics.WeeklyProgress(habits, idx, m.today)

	streaks, err := analytics.TopStreaks(habits, idx, m.today, m.graceDays, constants.DefaultTopStreakLimit)
	if err != nil {
		m.statusMsg = fmt.Sprintf("⚠ %v", err)
		return
	}
	m.streaks = streaks
	m.statusMsg = ""
}

// buildItems assembles the habit list entries for today's view.
func (m *Model) buildItems() []habitlist.Item {
	habits, err := m.store.GetActiveHabits()
	if err != nil {
		return nil
	}

	todayStr := dateutil.Format(m.today)
	logs, err := m.store.GetHabitLogsForDay(todayStr)
	if err != nil {
		logs = nil
	}
	idx, err := analytics.NewIndex(logs)
	if err != nil {
		return nil
	}

	histStart := m.today.AddDate(0, 0, -(constants.DefaultLogHistoryDays - 1))
	histLogs, err := m.store.GetHabitLogsForRange(dateutil.Format(histStart), todayStr)
	if err != nil {
		histLogs = nil
	}
	stats, err := analytics.WithStats(habits, histLogs, m.today, m.graceDays)
	if err != nil {
		stats = nil
	}
	streakByID := make(map[string]int, len(stats))
	for _, s := range stats {
		streakByID[s.ID] = s.CurrentStreak
	}

	scheduled := make(map[string]bool)
	for _, h := range schedule.HabitsOnDate(habits, m.today) {
		scheduled[h.ID] = true
	}

	items := make([]habitlist.Item, len(habits))
	for i, h := range habits {
		items[i] = habitlist.Item{
			Habit:         h,
			IsCompleted:   idx.IsCompleted(h.ID, todayStr),
			IsScheduled:   scheduled[h.ID],
			CurrentStreak: streakByID[h.ID],
		}
	}
	return items
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down, m.keys.Refresh},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
