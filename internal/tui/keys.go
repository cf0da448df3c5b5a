package tui

import "github.com/charmbracelet/bubbles/key"

type timerKeyMap struct {
	Break key.Binding
	Save  key.Binding
	Quit  key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Break, k.Save, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newTimerKeyMap() timerKeyMap {
	return timerKeyMap{
		Break: key.NewBinding(key.WithKeys("b", "p"), key.WithHelp("b", "break / resume")),
		Save:  key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "stop & save")),
		Quit:  key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "discard")),
	}
}

type checklistKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k checklistKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k checklistKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newChecklistKeyMap() checklistKeyMap {
	return checklistKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle done")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
