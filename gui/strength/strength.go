package strength

// Strength bars are rendered in the "pure" fashion: the model keeps no
// percentage of its own and ViewAs draws whatever strength it is given.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"visionary/entities"
)

const (
	padding  = 2
	maxWidth = 40

	// MaxStrength fills the bar. Stronger LoRAs are drawn full.
	MaxStrength = 2.0
	// Step is how much one key press moves a strength.
	Step = 0.05
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Width(24)
)

type Model struct {
	bar progress.Model
}

func New() Model {
	return Model{bar: progress.New(
		progress.WithScaledGradient("#FF7CCB", "#FDFF8C"),
		progress.WithoutPercentage(),
		progress.WithWidth(maxWidth),
	)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.bar.Width = min(msg.Width/2-padding*2-4, maxWidth)
		m.bar.Width = max(m.bar.Width, 10)
	}
	return m, nil
}

// Percent maps a strength onto the bar.
func Percent(strength float64) float64 {
	return min(max(0.0, strength/MaxStrength), 1.0)
}

func (m Model) ViewAs(strength float64) string {
	return m.bar.ViewAs(Percent(strength))
}

// View lists the selected LoRAs with their bars. cursor marks the row the
// arrow keys adjust when active is set.
func (m Model) View(loras []entities.LoraSelection, cursor int, active bool) string {
	if len(loras) == 0 {
		return "  no LoRAs selected\n"
	}

	pad := strings.Repeat(" ", padding)
	var s strings.Builder
	for i, lora := range loras {
		marker := pad
		if active && i == cursor {
			marker = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&s, "%s%s %s %.2f\n", marker, nameStyle.Render(lora.Name), m.ViewAs(lora.Strength), lora.Strength)
	}
	return s.String()
}

// Nudge returns strength moved by delta steps, formatted the way the
// strength field expects it.
func Nudge(strength float64, delta int) string {
	next := max(0, strength+float64(delta)*Step)
	return fmt.Sprintf("%.2f", next)
}
