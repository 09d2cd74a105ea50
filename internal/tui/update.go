package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
	"github.com/calperry/stride/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.habitList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case habitlist.ToggleHabitMsg:
		if err := m.toggleHabit(msg.ID); err != nil {
			m.statusMsg = fmt.Sprintf("⚠ %v", err)
		}
		m.refresh()
		m.habitList.SetItems(m.buildItems())
		return m, nil

	case habitlist.ArchiveHabitMsg:
		if err := m.store.ArchiveHabit(msg.ID); err != nil {
			m.statusMsg = fmt.Sprintf("⚠ %v", err)
		}
		m.refresh()
		m.habitList.SetItems(m.buildItems())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % 3
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + 2) % 3
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.habitList.SetItems(m.buildItems())
			return m, nil
		}
	}

	if m.state == StateToday {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// toggleHabit flips today's completion for a habit, creating a
// completed log on first toggle.
func (m *Model) toggleHabit(habitID string) error {
	day := dateutil.Format(m.today)
	now := time.Now()

	existing, err := m.store.GetHabitLog(habitID, day)
	if err == nil {
		existing.Completed = !existing.Completed
		if existing.Completed {
			existing.CompletedAt = &now
		} else {
			existing.CompletedAt = nil
		}
		existing.UpdatedAt = now
		return m.store.UpsertHabitLog(existing)
	}

	log := models.HabitLog{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		LogDate:     day,
		Completed:   true,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return m.store.UpsertHabitLog(log)
}
