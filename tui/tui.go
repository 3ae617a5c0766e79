// Package tui provides an interactive terminal UI for reviewing duplicate images
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2)

	itemStyle = lipgloss.NewStyle().PaddingLeft(4)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("#7D56F4")).
				Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	uncheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	keptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4B556")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1)
)

// Kind tells exact groups from similar ones.
type Kind int

const (
	Exact Kind = iota
	Similar
)

// File is one image in a review group.
type File struct {
	Path     string
	Size     int64
	ModTime  string
	Distance int  // Hamming distance to the kept file, similar groups only
	Kept     bool // the file that stays; it can never be selected
	Selected bool
}

// Group is a kept image and the duplicates found for it.
type Group struct {
	Kind        Kind
	Fingerprint string // content hash, exact groups only
	Files       []File
}

// keyMap defines keybindings for the TUI
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Quit      key.Binding
	Help      key.Binding
	Preview   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space", " "),
		key.WithHelp("space", "toggle selection"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle all"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm group"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit without removing"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Preview: key.NewBinding(
		key.WithKeys("p", "tab"),
		key.WithHelp("p/tab", "toggle details"),
	),
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Confirm, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.ToggleAll},
		{k.Confirm, k.Preview, k.Help, k.Quit},
	}
}

// Model is the TUI state
type Model struct {
	groups       []Group
	currentGroup int
	cursor       int
	showHelp     bool
	showPreview  bool
	confirmed    bool
	quitting     bool
	width        int
	height       int
	keys         keyMap
	help         help.Model
	selected     []string
	statusMsg    string
}

// New creates a new TUI model. Kept files are never preselected.
func New(groups []Group) Model {
	for i := range groups {
		for j := range groups[i].Files {
			if groups[i].Files[j].Kept {
				groups[i].Files[j].Selected = false
			}
		}
	}
	return Model{
		groups: groups,
		keys:   keys,
		help:   help.New(),
	}
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and user input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, m.keys.Preview):
			m.showPreview = !m.showPreview

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.currentGroup < len(m.groups) {
				group := m.groups[m.currentGroup]
				if m.cursor < len(group.Files)-1 {
					m.cursor++
				}
			}

		case key.Matches(msg, m.keys.Toggle):
			if m.currentGroup < len(m.groups) {
				group := &m.groups[m.currentGroup]
				if m.cursor < len(group.Files) {
					file := &group.Files[m.cursor]
					if file.Kept {
						m.statusMsg = "The kept file cannot be removed."
						return m, nil
					}
					file.Selected = !file.Selected
					m.updateStatus()
				}
			}

		case key.Matches(msg, m.keys.ToggleAll):
			if m.currentGroup < len(m.groups) {
				group := &m.groups[m.currentGroup]
				allSelected := true
				for _, f := range group.Files {
					if !f.Kept && !f.Selected {
						allSelected = false
						break
					}
				}
				for i := range group.Files {
					if !group.Files[i].Kept {
						group.Files[i].Selected = !allSelected
					}
				}
				m.updateStatus()
			}

		case key.Matches(msg, m.keys.Confirm):
			if m.currentGroup < len(m.groups) {
				for _, file := range m.groups[m.currentGroup].Files {
					if file.Selected && !file.Kept {
						m.selected = append(m.selected, file.Path)
					}
				}
				m.currentGroup++
				m.cursor = 0
				m.statusMsg = ""
			}
			if m.currentGroup >= len(m.groups) {
				m.confirmed = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// updateStatus updates the status message
func (m *Model) updateStatus() {
	if m.currentGroup >= len(m.groups) {
		return
	}
	group := m.groups[m.currentGroup]
	selected, candidates := 0, 0
	for _, f := range group.Files {
		if f.Kept {
			continue
		}
		candidates++
		if f.Selected {
			selected++
		}
	}
	m.statusMsg = fmt.Sprintf("Selected: %d/%d", selected, candidates)
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Cancelled. Nothing will be removed.\n"
	}

	if len(m.groups) == 0 {
		return "No duplicates found!\n"
	}

	if m.confirmed || m.currentGroup >= len(m.groups) {
		return m.renderConfirmation()
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(" Duplicate Image Eliminator "))
	s.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	s.WriteString(headerStyle.Render(fmt.Sprintf("Duplicate Group %d/%d", m.currentGroup+1, len(m.groups))))
	s.WriteString("\n")

	if group.Kind == Exact {
		s.WriteString(infoStyle.Render(fmt.Sprintf("Exact match | %s", shortFingerprint(group.Fingerprint))))
	} else {
		s.WriteString(infoStyle.Render("Visually similar"))
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderFileList(group))
	s.WriteString("\n")

	if m.showPreview && m.cursor < len(group.Files) {
		file := group.Files[m.cursor]
		s.WriteString(previewStyle.Render(fmt.Sprintf("%s\nSize: %s\nModified: %s", file.Path, formatBytes(file.Size), file.ModTime)))
		s.WriteString("\n")
	}

	if m.statusMsg != "" {
		s.WriteString(infoStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.showHelp {
		s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		s.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return s.String()
}

// renderFileList renders the list of files in the current group
func (m Model) renderFileList(group Group) string {
	var s strings.Builder

	for i, file := range group.Files {
		var line strings.Builder

		switch {
		case file.Kept:
			line.WriteString(keptStyle.Render("[keep] "))
		case file.Selected:
			line.WriteString(checkedStyle.Render("[✓] "))
		default:
			line.WriteString(uncheckedStyle.Render("[ ] "))
		}

		filename := filepath.Base(file.Path)
		if i == m.cursor {
			line.WriteString(selectedItemStyle.Render("> " + filename))
		} else {
			line.WriteString(itemStyle.Render(filename))
		}

		info := fmt.Sprintf(" (%s, %s)", formatBytes(file.Size), file.ModTime)
		if group.Kind == Similar && !file.Kept {
			info = fmt.Sprintf(" (%s, %s, diff: %d)", formatBytes(file.Size), file.ModTime, file.Distance)
		}
		line.WriteString(infoStyle.Render(info))

		s.WriteString(line.String())
		s.WriteString("\n")
	}

	return s.String()
}

// renderConfirmation renders the final confirmation screen
func (m Model) renderConfirmation() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" Confirmation "))
	s.WriteString("\n\n")

	if len(m.selected) == 0 {
		s.WriteString("No files selected for removal.\n")
		return s.String()
	}

	s.WriteString(fmt.Sprintf("About to remove %d files:\n\n", len(m.selected)))
	for i, path := range m.selected {
		if i >= 10 {
			s.WriteString(fmt.Sprintf("... and %d more\n", len(m.selected)-10))
			break
		}
		s.WriteString(fmt.Sprintf("  • %s\n", path))
	}

	return s.String()
}

// Selected returns the files chosen for removal. It is empty unless every
// group was confirmed.
func (m Model) Selected() []string {
	if !m.confirmed {
		return nil
	}
	return m.selected
}

// Run starts the TUI and returns the files selected for removal
func Run(groups []Group) ([]string, error) {
	p := tea.NewProgram(New(groups), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	return m.(Model).Selected(), nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 16 {
		return fp[:16] + "..."
	}
	return fp
}

// formatBytes formats bytes into human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
