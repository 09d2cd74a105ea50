package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calperry/stride/internal/models"
)

type ToggleHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type Item struct {
	Habit         models.Habit
	IsCompleted   bool
	IsScheduled   bool
	CurrentStreak int
}

func (i Item) Title() string {
	title := i.Habit.Title
	if i.Habit.Archived {
		return "[ARCHIVED] " + title
	}
	if i.IsCompleted {
		return "✓ " + title
	}
	return "○ " + title
}

func (i Item) Description() string {
	if i.Habit.Archived {
		return "archived"
	}
	desc := "not completed today"
	if i.IsCompleted {
		desc = "completed today"
	}
	if !i.IsScheduled {
		desc = "not scheduled today"
	}
	if i.CurrentStreak > 0 {
		desc += fmt.Sprintf(" · streak %d", i.CurrentStreak)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Toggle  key.Binding
	Archive key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("t", " "),
			key.WithHelp("t", "toggle done"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}

	l := list.New(listItems, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Archive}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Archive}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func (m *Model) SetItems(items []Item) {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Habit.Archived {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Archive):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Habit.Archived {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Add one with 'stride habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
