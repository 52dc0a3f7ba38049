package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"visionary/utils"
)

const pickerRows = 10

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1)
)

func (m Model) View() string {
	if m.picker != pickerNone {
		return m.pickerView()
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("VisioNary"))
	s.WriteString("\n")

	if m.view.InventoryError != "" {
		s.WriteString(errorStyle.Render(m.view.InventoryError) + "\n\n")
	}

	model := m.view.SelectedModel
	if model == "" {
		model = "none"
	}
	s.WriteString(labelStyle.Render("Model: ") + model + "\n\n")

	s.WriteString(m.label(focusPrompt, "Prompt") + "\n")
	s.WriteString(m.prompt.View() + "\n")
	if m.view.ShowNegative {
		s.WriteString(m.label(focusNegative, "Negative prompt") + "\n")
		s.WriteString(m.negative.View() + "\n")
	}
	s.WriteString("\n")

	fields := make([]string, len(m.numbers))
	for i, field := range m.numbers {
		fields[i] = m.label(focusWidth+focus(i), field.label) + " " + field.input.View()
	}
	s.WriteString(strings.Join(fields, "  ") + "\n\n")

	s.WriteString(m.label(focusLoras, "LoRAs") + "\n")
	s.WriteString(m.strength.View(m.view.SelectedLoras, m.loraCursor, m.focus == focusLoras) + "\n")

	s.WriteString(m.resultView() + "\n\n")
	s.WriteString(helpStyle.Render("tab next field • ctrl+g generate • ctrl+o model • ctrl+l loras • ctrl+r random seed • ctrl+n negative • ctrl+x reset • ctrl+c quit"))

	return s.String()
}

func (m Model) label(f focus, text string) string {
	if m.focus == f {
		return focusedStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) resultView() string {
	switch {
	case m.pending || m.view.Busy:
		return m.spinner.View() + " Generating image..."
	case m.view.Error != "":
		return errorStyle.Render(m.view.Error)
	case m.view.Image != "":
		return boxStyle.Render(imageSummary(m.view.Image))
	default:
		return helpStyle.Render("No image yet.")
	}
}

// imageSummary describes the generated image; terminals cannot show the data URL.
func imageSummary(image string) string {
	size := humanize.Bytes(uint64(utils.DecodedLen(image)))
	width, height, err := utils.GetBase64ImageSize(image)
	if err != nil {
		return fmt.Sprintf("Image ready (%s)", size)
	}
	return fmt.Sprintf("Image ready: %dx%d, %s", width, height, size)
}

func (m Model) pickerView() string {
	title := "Select a model"
	if m.picker == pickerLoras {
		title = "Toggle LoRAs"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(title) + "\n")
	s.WriteString(m.filter.View() + "\n\n")

	if len(m.matches) == 0 {
		s.WriteString(helpStyle.Render("no matches") + "\n")
	}

	start := max(0, m.cursor-pickerRows+1)
	end := min(len(m.matches), start+pickerRows)
	for i := start; i < end; i++ {
		index := m.matches[i]

		var name string
		var checked bool
		if m.picker == pickerModels {
			name = m.view.Models[index].ModelName
			checked = name == m.view.SelectedModel
		} else {
			name = m.view.Loras[index].DisplayName()
			checked = m.view.Selected(m.view.Loras[index].Name)
		}

		box := "[ ] "
		if checked {
			box = "[x] "
		}
		line := box + name
		if i == m.cursor {
			line = focusedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("enter select • esc close"))
	return s.String()
}
