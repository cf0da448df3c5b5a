package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daybook/internal/models"
)

// SessionRecorder appends a finished session to a task's history.
type SessionRecorder interface {
	AddTimeTrackingEntry(ctx context.Context, taskID string, session models.Session) error
}

// TimerModel is the floating timer: it tracks one session of a task,
// including the breaks taken during it.
type TimerModel struct {
	width  int
	height int
	task   models.TaskRecord
	now    func() time.Time

	// Timer state
	startedAt  time.Time
	breaks     []models.Break
	breakStart *time.Time
	elapsed    time.Duration

	// Animation state
	timerAnimation int

	keys timerKeyMap
	help help.Model

	saving    bool // user pressed s
	discarded bool // user pressed esc/q
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg time.Time

// NewTimerModel starts a session for task at now().
func NewTimerModel(task models.TaskRecord, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	return TimerModel{
		task:      task,
		now:       now,
		startedAt: now(),
		keys:      newTimerKeyMap(),
		help:      help.New(),
	}
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// Init starts the clock
func (m TimerModel) Init() tea.Cmd {
	return timerTick()
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.now().Sub(m.startedAt)
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if m.saving || m.discarded {
			return m, nil
		}
		return m, timerTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Break):
			m.toggleBreak()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			m.closeBreak()
			m.saving = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.discarded = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *TimerModel) toggleBreak() {
	if m.breakStart != nil {
		m.closeBreak()
		return
	}
	start := m.now()
	m.breakStart = &start
}

func (m *TimerModel) closeBreak() {
	if m.breakStart == nil {
		return
	}
	m.breaks = append(m.breaks, models.Break{Start: *m.breakStart, End: m.now()})
	m.breakStart = nil
}

// OnBreak reports whether a break is running.
func (m TimerModel) OnBreak() bool {
	return m.breakStart != nil
}

// Session returns the recorded session once the user chose to save it.
func (m TimerModel) Session() (models.Session, bool) {
	if !m.saving {
		return models.Session{}, false
	}
	return models.Session{
		StartTime: m.startedAt,
		EndTime:   m.now(),
		Breaks:    append([]models.Break(nil), m.breaks...),
	}, true
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Width(m.width).
		Align(lipgloss.Center).
		Render(m.help.View(m.keys))

	panel := m.renderTimerPanel(m.width, m.height-2)
	return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	header := "TRACKING TIME"
	headerColor := ColorAccentBright
	if m.OnBreak() {
		header = "ON A BREAK"
		headerColor = ColorWarning
	}
	anim := animChars[m.timerAnimation]
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s  %s  %s", anim, header, anim)))

	title := m.task.Title
	if width > 8 && len(title) > width-4 {
		title = title[:width-7] + "..."
	}
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Render(title))

	components = append(components, lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(renderBigClock(m.elapsed)))

	info := fmt.Sprintf("Started at %s · %d break(s) · %s on break",
		m.startedAt.Format("15:04:05"), len(m.breaks)+boolToInt(m.OnBreak()), formatDuration(m.breakTime()))
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Width(width).
		Align(lipgloss.Center).
		Render(info))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m TimerModel) breakTime() time.Duration {
	var total time.Duration
	for _, b := range m.breaks {
		total += b.Duration()
	}
	if m.breakStart != nil {
		total += m.now().Sub(*m.breakStart)
	}
	return total
}

// bigDigits holds 5-row block glyphs for the clock.
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders d as block digits, HH:MM:SS once past an hour.
func renderBigClock(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	timeStr := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph := bigDigits[char]
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	rows := make([]string, len(lines))
	for i := range lines {
		rows[i] = style.Render(lines[i].String())
	}
	return strings.Join(rows, "\n")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
