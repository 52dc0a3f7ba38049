package form

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"visionary/api/generation_api"
	"visionary/generation_form"
	"visionary/gui/strength"
	"visionary/log"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.prompt.SetWidth(max(msg.Width-4, 20))
		m.negative.SetWidth(max(msg.Width-4, 20))
		m.strength, _ = m.strength.Update(msg)
		return m, nil

	case inventoryMsg:
		m.refresh()
		if msg.err != nil {
			log.FromContextOrDiscard(m.ctx).Warn("inventory unavailable", "error", msg.err)
		}
		return m, nil

	case generatedMsg:
		m.pending = false
		m.refresh()
		if msg.err != nil && !errors.Is(msg.err, generation_form.ErrStale) {
			log.FromContextOrDiscard(m.ctx).Warn("generation did not produce an image", "error", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picker != pickerNone {
			return m.updatePicker(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "tab":
		m.move(1)
		return m, nil, true
	case "shift+tab":
		m.move(-1)
		return m, nil, true
	case "ctrl+g":
		m.commit()
		if m.pending || m.controller.Busy() {
			return m, nil, true
		}
		m.pending = true
		return m, tea.Batch(m.generate(), m.spinner.Tick), true
	case "ctrl+r":
		m.controller.RandomizeSeed()
		m.refresh()
		m.number(focusSeed).input.SetValue(m.number(focusSeed).value(m.view))
		return m, nil, true
	case "ctrl+n":
		m.controller.ToggleNegative()
		m.refresh()
		if m.focus == focusNegative && !m.view.ShowNegative {
			m.setFocus(focusPrompt)
		}
		return m, nil, true
	case "ctrl+x":
		m.controller.Reset()
		m.pending = false
		m.refresh()
		m.syncInputs()
		m.setFocus(focusPrompt)
		return m, nil, true
	case "ctrl+o":
		m.openPicker(pickerModels)
		return m, nil, true
	case "ctrl+l":
		m.openPicker(pickerLoras)
		return m, nil, true
	}

	if m.focus != focusLoras {
		return m, nil, false
	}

	switch msg.String() {
	case "up", "k":
		m.loraCursor = max(m.loraCursor-1, 0)
	case "down", "j":
		m.loraCursor = min(m.loraCursor+1, max(len(m.view.SelectedLoras)-1, 0))
	case "left", "h", "right", "l":
		if len(m.view.SelectedLoras) == 0 {
			break
		}
		delta := 1
		if s := msg.String(); s == "left" || s == "h" {
			delta = -1
		}
		current := m.view.SelectedLoras[m.loraCursor].Strength
		m.controller.UpdateStrength(m.loraCursor, strength.Nudge(current, delta))
	case "delete", "backspace", "x":
		if len(m.view.SelectedLoras) > 0 {
			m.controller.ToggleLora(m.view.SelectedLoras[m.loraCursor].Name)
		}
	default:
		return m, nil, true
	}
	m.refresh()
	return m, nil, true
}

// updateFocused forwards msg to the focused input and keeps the prompts in
// step with the controller.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		if m.prompt.Value() != m.view.Prompt {
			m.controller.SetPrompt(m.prompt.Value())
			m.refresh()
		}
	case focusNegative:
		m.negative, cmd = m.negative.Update(msg)
		if m.negative.Value() != m.view.NegativePrompt {
			m.controller.SetNegativePrompt(m.negative.Value())
			m.refresh()
		}
	case focusLoras:
	default:
		field := m.number(m.focus)
		field.input, cmd = field.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) openPicker(kind picker) {
	m.commit()
	m.picker = kind
	m.cursor = 0
	m.filter.SetValue("")
	m.filter.Focus()
	m.applyFilter()
}

func (m *Model) closePicker() {
	m.picker = pickerNone
	m.filter.Blur()
	m.setFocus(m.focus)
}

func (m *Model) source() fuzzy.Source {
	if m.picker == pickerModels {
		return m.view.Models
	}
	return m.view.Loras
}

func (m *Model) applyFilter() {
	m.matches = generation_api.Filter(m.filter.Value(), m.source())
	m.cursor = min(m.cursor, max(len(m.matches)-1, 0))
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closePicker()
		return m, nil
	case "up", "ctrl+p":
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case "down", "ctrl+n":
		m.cursor = min(m.cursor+1, max(len(m.matches)-1, 0))
		return m, nil
	case "enter":
		if len(m.matches) == 0 {
			return m, nil
		}
		index := m.matches[m.cursor]
		if m.picker == pickerModels {
			m.controller.SelectModel(m.view.Models[index].ModelName)
			m.refresh()
			m.closePicker()
			return m, nil
		}
		m.controller.ToggleLora(m.view.Loras[index].Name)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}
