package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/qmap/pkg/arch"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// Key Bindings
// =============================================================================

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var pickerKeys = pickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// =============================================================================
// ArchPickerModel - Interactive device selection
// =============================================================================

// ArchPickerModel is the bubbletea model for interactive device selection.
type ArchPickerModel struct {
	Devices  []arch.Device
	Cursor   int
	Selected *arch.Device
	Height   int
	Offset   int

	help help.Model
}

// NewArchPickerModel creates a picker over devices.
func NewArchPickerModel(devices []arch.Device) ArchPickerModel {
	return ArchPickerModel{
		Devices: devices,
		Height:  15,
		help:    help.New(),
	}
}

func (m ArchPickerModel) Init() tea.Cmd {
	return nil
}

func (m ArchPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.Cursor < len(m.Devices)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case key.Matches(msg, pickerKeys.Select):
			if len(m.Devices) == 0 {
				return m, nil
			}
			d := m.Devices[m.Cursor]
			m.Selected = &d
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ArchPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Device"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Devices))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Devices[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, d.Name, strconv.Itoa(d.Qubits), d.Description})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Device", "Qubits", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return StyleDim
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Devices))))
	b.WriteString("\n")
	b.WriteString(m.help.View(pickerKeys))

	return b.String()
}

// pickArch runs the device picker over the catalog and returns the chosen
// device name.
func (c *CLI) pickArch() (string, error) {
	if !isInteractive() {
		return "", fmt.Errorf("device picker needs a terminal; pass --arch")
	}
	model := NewArchPickerModel(arch.NewCatalog().Devices())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("device picker: %w", err)
	}
	picked := final.(ArchPickerModel).Selected
	if picked == nil {
		return "", fmt.Errorf("no device selected")
	}
	return picked.Name, nil
}
