package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Option is one pickable candidate value.
type Option struct {
	Key     string
	Value   string
	Enabled bool
}

// optionItem implements list.Item for candidate values.
type optionItem struct {
	opt Option
}

func (i optionItem) Title() string { return i.opt.Value }

func (i optionItem) Description() string {
	if i.opt.Enabled {
		return "● enabled"
	}
	return "○ disabled"
}

func (i optionItem) FilterValue() string { return i.opt.Value }

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the value picker.
type Model struct {
	list     list.Model
	choice   *Option
	quitting bool
	grouped  bool
}

// NewPicker creates a picker over one key's candidate values.
func NewPicker(title string, options []Option) Model {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = optionItem{opt: opt}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 60, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

// NewGroupedPicker creates a picker over many keys' candidate values,
// separated by key headers. Options must arrive grouped by key.
func NewGroupedPicker(title string, options []Option) Model {
	l := list.New(buildGroupedItems(options), newGroupedDelegate(), 60, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	m := Model{list: l, grouped: true}
	// The initial cursor lands on the first header; move off it.
	skipHeaders(&m.list, 1)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				opt := item.opt
				m.choice = &opt
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	if m.grouped {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && isHeaderSelected(&m.list) {
			skipHeaders(&m.list, navigationDirection(keyMsg))
		}
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picked option, nil when the picker was cancelled.
func (m Model) Result() *Option {
	return m.choice
}

// RunPicker runs an interactive picker over one key's candidates.
func RunPicker(title string, options []Option) (*Option, error) {
	return runPicker(NewPicker(title, options))
}

// RunGroupedPicker runs a picker over every candidate key at once.
func RunGroupedPicker(title string, options []Option) (*Option, error) {
	return runPicker(NewGroupedPicker(title, options))
}

func runPicker(m Model) (*Option, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	return finalModel.(Model).Result(), nil
}
