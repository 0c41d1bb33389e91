package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Grab      key.Binding
	Cancel    key.Binding
	Remove    key.Binding
	Resize    key.Binding
	Next      key.Binding
	StatusFwd key.Binding
	StatusBck key.Binding
	Filter    key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Reload    key.Binding
	SwitchTab key.Binding
	Help      key.Binding
	Quit      key.Binding

	view view
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		Grab:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "pick up / drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Remove:    key.NewBinding(key.WithKeys("d", "backspace", "delete"), key.WithHelp("d", "unallocate")),
		Resize:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next overlapping")),
		StatusFwd: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "next status")),
		StatusBck: key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "previous status")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter assignee")),
		PrevDay:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous day")),
		NextDay:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		SwitchTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board / plan")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	if k.view == viewPlan {
		return []key.Binding{k.Grab, k.Resize, k.Remove, k.PrevDay, k.NextDay, k.SwitchTab, k.Help, k.Quit}
	}
	return []key.Binding{k.Grab, k.StatusBck, k.StatusFwd, k.Filter, k.SwitchTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	if k.view == viewPlan {
		return [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right},
			{k.Grab, k.Cancel, k.Remove, k.Resize, k.Next},
			{k.PrevDay, k.NextDay, k.Filter, k.Reload},
			{k.SwitchTab, k.Help, k.Quit},
		}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Cancel, k.StatusBck, k.StatusFwd},
		{k.Filter, k.Reload},
		{k.SwitchTab, k.Help, k.Quit},
	}
}
