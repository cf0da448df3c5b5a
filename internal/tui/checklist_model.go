package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daybook/internal/models"
)

// CompletionToggler flips the completed flag of a todo.
type CompletionToggler interface {
	ToggleCompletion(ctx context.Context, id string) (*models.TodoItem, error)
}

// ChecklistModel shows one day's todos and lets the user tick them off.
type ChecklistModel struct {
	ctx     context.Context
	toggler CompletionToggler
	title   string
	items   []models.TodoItem
	cursor  int
	err     error

	width int
	keys  checklistKeyMap
	help  help.Model
}

// toggledMsg carries the store's answer to a toggle.
type toggledMsg struct {
	item *models.TodoItem
	err  error
}

// NewChecklistModel builds a checklist titled title over items.
func NewChecklistModel(ctx context.Context, toggler CompletionToggler, title string, items []models.TodoItem) ChecklistModel {
	return ChecklistModel{
		ctx:     ctx,
		toggler: toggler,
		title:   title,
		items:   items,
		keys:    newChecklistKeyMap(),
		help:    help.New(),
	}
}

// Init initializes the model
func (m ChecklistModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case toggledMsg:
		m.err = msg.err
		if msg.item != nil {
			for i := range m.items {
				if m.items[i].ID == msg.item.ID {
					m.items[i] = *msg.item
				}
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.items) > 0 {
				return m, m.toggle(m.items[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m ChecklistModel) toggle(id string) tea.Cmd {
	ctx, toggler := m.ctx, m.toggler
	return func() tea.Msg {
		item, err := toggler.ToggleCompletion(ctx, id)
		return toggledMsg{item: item, err: err}
	}
}

// Items returns the todos as currently displayed.
func (m ChecklistModel) Items() []models.TodoItem {
	return m.items
}

// View renders the checklist
func (m ChecklistModel) View() string {
	var b strings.Builder

	done := 0
	for _, item := range m.items {
		if item.Completed {
			done++
		}
	}

	header := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)
	b.WriteString(header.Render(m.title))
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("  %d/%d done", done, len(m.items))))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).
			Render("Nothing planned. Add one with 'daybook todo add'."))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		b.WriteString(renderTodoRow(item, i == m.cursor))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderTodoRow(item models.TodoItem, selected bool) string {
	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render("▶ ")
	}

	check := "[ ]"
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if item.Completed {
		check = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("[x]")
		titleStyle = titleStyle.Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true)
	}

	parts := []string{cursor + check, PriorityBadge(item.Priority), TypeIcon(item.Type)}
	if item.Time != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(item.Time))
	}
	parts = append(parts, titleStyle.Render(item.Title))
	if item.Category != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("@"+item.Category))
	}
	for _, tag := range item.Tags {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render("#"+tag))
	}
	return strings.Join(parts, " ")
}

// PriorityBadge renders the coloured priority marker.
func PriorityBadge(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "🔴"
	case models.PriorityMedium:
		return "🟡"
	case models.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// TypeIcon renders the icon shown for each todo type.
func TypeIcon(t models.TodoType) string {
	switch t {
	case models.TypeEvent:
		return "📅"
	case models.TypeNote:
		return "📝"
	case models.TypeProject:
		return "📁"
	case models.TypeTimer:
		return "⏱️"
	case models.TypeUpload:
		return "📎"
	case models.TypeChat:
		return "💬"
	default:
		return "☑️"
	}
}
