package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateWeek:
		content = m.viewWeek()
	case StateStreaks:
		content = m.viewStreaks()
	}

	sections := []string{m.viewTabs(), content}
	if m.statusMsg != "" {
		sections = append(sections, statusStyle.Render(m.statusMsg))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Week", "Streaks"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	header := fmt.Sprintf("%s · %d/%d done (%d%%)",
		m.daily.Date, m.daily.CompletedHabits, m.daily.TotalHabits, m.daily.Percentage)
	if m.daily.TotalHabits > 0 && m.daily.CompletedHabits == m.daily.TotalHabits {
		header = progressDoneStyle.Render(header + " ✓")
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.habitList.View()))
}

func (m Model) viewWeek() string {
	var b strings.Builder
	b.WriteString("Last 7 days\n\n")
	for _, day := range m.weekly.Days {
		bar := strings.Repeat("░", 10)
		if day.Total > 0 {
			filled := day.Completed * 10 / day.Total
			bar = strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		}
		fmt.Fprintf(&b, "%s %s  %s %d/%d\n", day.DayName, day.Date, bar, day.Completed, day.Total)
	}
	return docStyle.Render(b.String())
}

func (m Model) viewStreaks() string {
	if len(m.streaks) == 0 {
		return docStyle.Render("No streak-enabled habits yet.")
	}

	var b strings.Builder
	b.WriteString("Top streaks\n\n")
	for _, s := range m.streaks {
		fmt.Fprintf(&b, "%d. %s %s - %d days (best %d)\n",
			s.Rank, s.Icon, s.HabitTitle, s.CurrentStreak, s.LongestStreak)
	}
	return docStyle.Render(b.String())
}
