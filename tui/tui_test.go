package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups() []Group {
	return []Group{
		{
			Kind:        Exact,
			Fingerprint: "65a8e27d8879283831b664bd8b7f0ad4",
			Files: []File{
				{Path: "/p/a.jpg", Size: 2048, ModTime: "2024-01-01", Kept: true},
				{Path: "/p/b.jpg", Size: 2048, ModTime: "2024-01-02", Selected: true},
				{Path: "/p/c.jpg", Size: 2048, ModTime: "2024-01-03", Selected: true},
			},
		},
		{
			Kind: Similar,
			Files: []File{
				{Path: "/p/d.png", Size: 900, ModTime: "2024-02-01", Kept: true},
				{Path: "/p/e.png", Size: 950, ModTime: "2024-02-02", Distance: 3, Selected: true},
			},
		},
	}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	all   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
)

func TestConfirmAllGroups(t *testing.T) {
	m, cmd := press(t, New(testGroups()), enter, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"/p/b.jpg", "/p/c.jpg", "/p/e.png"}, m.Selected())
	assert.Contains(t, m.View(), "About to remove 3 files")
}

func TestToggleDeselects(t *testing.T) {
	m, _ := press(t, New(testGroups()), down, space, enter, enter)
	assert.Equal(t, []string{"/p/c.jpg", "/p/e.png"}, m.Selected())
}

func TestKeptFileCannotBeSelected(t *testing.T) {
	m, _ := press(t, New(testGroups()), space)
	assert.False(t, m.groups[0].Files[0].Selected)
	assert.Equal(t, "The kept file cannot be removed.", m.statusMsg)

	groups := testGroups()
	groups[0].Files[0].Selected = true
	m = New(groups)
	assert.False(t, m.groups[0].Files[0].Selected, "New clears a preselected kept file")
}

func TestToggleAllSkipsKept(t *testing.T) {
	m, _ := press(t, New(testGroups()), all)
	for _, f := range m.groups[0].Files {
		assert.False(t, f.Selected)
	}
	assert.Equal(t, "Selected: 0/2", m.statusMsg)

	m, _ = press(t, m, all)
	assert.False(t, m.groups[0].Files[0].Selected)
	assert.True(t, m.groups[0].Files[1].Selected)
	assert.True(t, m.groups[0].Files[2].Selected)
}

func TestQuitSelectsNothing(t *testing.T) {
	m, cmd := press(t, New(testGroups()), enter, esc)
	require.NotNil(t, cmd)
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "Nothing will be removed")
}

func TestCursorBounds(t *testing.T) {
	m, _ := press(t, New(testGroups()), down, down, down, down)
	assert.Equal(t, 2, m.cursor)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestView(t *testing.T) {
	m := New(testGroups())
	view := m.View()
	assert.Contains(t, view, "Duplicate Group 1/2")
	assert.Contains(t, view, "Exact match | 65a8e27d88792838...")
	assert.Contains(t, view, "[keep]")

	m, _ = press(t, m, enter)
	view = m.View()
	assert.Contains(t, view, "Visually similar")
	assert.Contains(t, view, "diff: 3")

	assert.Equal(t, "No duplicates found!\n", New(nil).View())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
	assert.Equal(t, "1.0 MB", formatBytes(1<<20))
}
