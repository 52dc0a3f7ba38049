package form

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"visionary/generation_form"
	"visionary/gui/strength"
)

type focus int

const (
	focusPrompt focus = iota
	focusNegative
	focusWidth
	focusHeight
	focusSteps
	focusCFG
	focusBatch
	focusSeed
	focusLoras
	focusCount
)

type picker int

const (
	pickerNone picker = iota
	pickerModels
	pickerLoras
)

type inventoryMsg struct{ err error }

type generatedMsg struct{ err error }

type numberField struct {
	label string
	input textinput.Model
	set   func(string) bool
	value func(generation_form.View) string
}

// Model is the terminal rendition of the generation form. All state lives
// in the controller; the inputs only hold what is being typed.
type Model struct {
	ctx        context.Context
	controller *generation_form.Controller
	view       generation_form.View

	focus    focus
	prompt   textarea.Model
	negative textarea.Model
	numbers  []numberField

	picker  picker
	filter  textinput.Model
	matches []int
	cursor  int

	loraCursor int
	strength   strength.Model
	spinner    spinner.Model
	pending    bool
	width      int
}

func New(ctx context.Context, controller *generation_form.Controller) Model {
	prompt := textarea.New()
	prompt.Placeholder = "Describe the image"
	prompt.SetHeight(3)
	prompt.ShowLineNumbers = false

	negative := textarea.New()
	negative.Placeholder = "What to avoid"
	negative.SetHeight(2)
	negative.ShowLineNumbers = false

	filter := textinput.New()
	filter.Placeholder = "type to filter"
	filter.Prompt = "/ "

	m := Model{
		ctx:        ctx,
		controller: controller,
		prompt:     prompt,
		negative:   negative,
		filter:     filter,
		strength:   strength.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}

	m.numbers = []numberField{
		{label: "Width", set: controller.SetWidth, value: func(v generation_form.View) string { return strconv.Itoa(v.Width) }},
		{label: "Height", set: controller.SetHeight, value: func(v generation_form.View) string { return strconv.Itoa(v.Height) }},
		{label: "Steps", set: controller.SetSteps, value: func(v generation_form.View) string { return strconv.Itoa(v.Steps) }},
		{label: "CFG", set: controller.SetCFGScale, value: func(v generation_form.View) string { return strconv.FormatFloat(v.CFGScale, 'f', -1, 64) }},
		{label: "Batch", set: controller.SetBatchSize, value: func(v generation_form.View) string { return strconv.Itoa(v.BatchSize) }},
		{label: "Seed", set: controller.SetSeed, value: func(v generation_form.View) string { return strconv.FormatInt(v.Seed, 10) }},
	}
	for i := range m.numbers {
		input := textinput.New()
		input.Width = 8
		input.Prompt = ""
		m.numbers[i].input = input
	}

	m.refresh()
	m.syncInputs()
	m.setFocus(focusPrompt)

	return m
}

// Run blocks until the user quits.
func Run(ctx context.Context, controller *generation_form.Controller) error {
	_, err := tea.NewProgram(New(ctx, controller), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadInventory(), textarea.Blink)
}

func (m Model) loadInventory() tea.Cmd {
	return func() tea.Msg {
		return inventoryMsg{err: m.controller.LoadInventory(m.ctx)}
	}
}

func (m Model) generate() tea.Cmd {
	return func() tea.Msg {
		return generatedMsg{err: m.controller.Generate(m.ctx)}
	}
}

func (m *Model) refresh() {
	m.view = m.controller.View()
	m.loraCursor = min(m.loraCursor, max(len(m.view.SelectedLoras)-1, 0))
}

// syncInputs copies the controller's values into every input.
func (m *Model) syncInputs() {
	m.prompt.SetValue(m.view.Prompt)
	m.negative.SetValue(m.view.NegativePrompt)
	for i := range m.numbers {
		m.numbers[i].input.SetValue(m.numbers[i].value(m.view))
	}
}

func (m *Model) number(f focus) *numberField {
	if f < focusWidth || f > focusSeed {
		return nil
	}
	return &m.numbers[f-focusWidth]
}

func (m *Model) setFocus(f focus) {
	m.prompt.Blur()
	m.negative.Blur()
	for i := range m.numbers {
		m.numbers[i].input.Blur()
	}

	m.focus = f
	switch f {
	case focusPrompt:
		m.prompt.Focus()
	case focusNegative:
		m.negative.Focus()
	case focusLoras:
	default:
		m.number(f).input.Focus()
	}
}

// move shifts the focus by delta, skipping the hidden negative prompt.
func (m *Model) move(delta int) {
	m.commit()
	next := (int(m.focus) + delta + int(focusCount)) % int(focusCount)
	if focus(next) == focusNegative && !m.view.ShowNegative {
		next = (next + delta + int(focusCount)) % int(focusCount)
	}
	m.setFocus(focus(next))
}

// commit hands the focused number to the controller. Rejected input is
// replaced by the value the controller kept.
func (m *Model) commit() {
	field := m.number(m.focus)
	if field == nil {
		return
	}
	if !field.set(field.input.Value()) {
		field.input.SetValue(field.value(m.controller.View()))
	}
	m.refresh()
}
