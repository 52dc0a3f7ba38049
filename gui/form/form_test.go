package form

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"visionary/api/generation_api"
	"visionary/entities"
	"visionary/generation_form"
)

type fakeAPI struct {
	image string
}

func (f *fakeAPI) Health(context.Context) (generation_api.Health, error) {
	return generation_api.Health{}, nil
}

func (f *fakeAPI) Models(context.Context) (generation_api.Models, error) {
	return generation_api.Models{{ModelName: "SDXL 1.0"}, {ModelName: "SDXL 2.0"}}, nil
}

func (f *fakeAPI) Loras(context.Context) (generation_api.Loras, error) {
	return generation_api.Loras{
		{Name: "FaceEnhance LoRA", Alias: "FaceEnhance LoRA"},
		{Name: "AnimeStyle LoRA", Alias: "AnimeStyle LoRA"},
	}, nil
}

func (f *fakeAPI) Generate(context.Context, *entities.GenerationRequest) (*entities.GenerationResponse, error) {
	return &entities.GenerationResponse{Images: []string{f.image}}, nil
}

func (f *fakeAPI) Client() *http.Client       { return http.DefaultClient }
func (f *fakeAPI) Host(path ...string) string { return "" }

func pngBase64(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newModel(t *testing.T, api *fakeAPI) (Model, *generation_form.Controller) {
	t.Helper()
	controller, err := generation_form.New(generation_form.Config{API: api})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := New(context.Background(), controller)
	m = send(t, m, m.loadInventory()())
	return m, controller
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInventoryLoaded(t *testing.T) {
	m, _ := newModel(t, &fakeAPI{})
	if !strings.Contains(m.View(), "SDXL 1.0") {
		t.Errorf("expected the first model to be selected in the view")
	}
}

func TestTypingPrompt(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, runes("a cat"))

	if got := controller.View().Prompt; got != "a cat" {
		t.Errorf("expected prompt to reach the controller, got %q", got)
	}
}

func TestInvalidNumberReverts(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, key(tea.KeyTab))
	m = send(t, m, key(tea.KeyTab))
	if m.focus != focusWidth {
		t.Fatalf("expected width focused, got %v", m.focus)
	}

	m = send(t, m, runes("x"))
	m = send(t, m, key(tea.KeyTab))

	if got := m.number(focusWidth).input.Value(); got != "1024" {
		t.Errorf("expected input to revert to 1024, got %q", got)
	}
	if got := controller.View().Width; got != 1024 {
		t.Errorf("expected width to stay 1024, got %d", got)
	}
}

func TestNumberCommitted(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, key(tea.KeyShiftTab))
	m = send(t, m, key(tea.KeyShiftTab))
	if m.focus != focusSeed {
		t.Fatalf("expected seed focused, got %v", m.focus)
	}

	m = send(t, m, runes("42"))
	m = send(t, m, key(tea.KeyTab))

	if got := controller.View().Seed; got != 42 {
		t.Errorf("expected seed 42, got %d", got)
	}
}

func TestHiddenNegativeSkipped(t *testing.T) {
	m, _ := newModel(t, &fakeAPI{})
	m = send(t, m, key(tea.KeyCtrlN))
	m = send(t, m, key(tea.KeyTab))
	if m.focus != focusWidth {
		t.Errorf("expected the hidden negative prompt to be skipped, got %v", m.focus)
	}
	if strings.Contains(m.View(), "Negative prompt") {
		t.Errorf("expected the negative prompt to be hidden")
	}
}

func TestModelPicker(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, key(tea.KeyCtrlO))
	if m.picker != pickerModels {
		t.Fatalf("expected the model picker")
	}

	m = send(t, m, runes("2.0"))
	if len(m.matches) != 1 {
		t.Fatalf("expected one match, got %v", m.matches)
	}
	m = send(t, m, key(tea.KeyEnter))

	if m.picker != pickerNone {
		t.Errorf("expected the picker to close")
	}
	if got := controller.View().SelectedModel; got != "SDXL 2.0" {
		t.Errorf("expected SDXL 2.0, got %q", got)
	}
}

func TestLoraPickerAndStrength(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, key(tea.KeyCtrlL))
	m = send(t, m, runes("anime"))
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, key(tea.KeyEsc))

	selected := controller.View().SelectedLoras
	if len(selected) != 1 || selected[0].Name != "AnimeStyle LoRA" || selected[0].Strength != 1 {
		t.Fatalf("unexpected selection %v", selected)
	}

	m = send(t, m, key(tea.KeyShiftTab))
	if m.focus != focusLoras {
		t.Fatalf("expected loras focused, got %v", m.focus)
	}
	m = send(t, m, key(tea.KeyLeft))
	m = send(t, m, key(tea.KeyLeft))

	if got := controller.View().SelectedLoras[0].Strength; got != 0.9 {
		t.Errorf("expected strength 0.9, got %v", got)
	}

	m = send(t, m, key(tea.KeyDelete))
	if got := controller.View().SelectedLoras; len(got) != 0 {
		t.Errorf("expected the lora to be removed, got %v", got)
	}
}

func TestGenerate(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{image: pngBase64(t, 8, 4)})
	m = send(t, m, runes("a cat"))

	next, cmd := m.Update(key(tea.KeyCtrlG))
	m = next.(Model)
	if cmd == nil || !m.pending {
		t.Fatalf("expected a generation command")
	}
	if !strings.Contains(m.View(), "Generating image...") {
		t.Errorf("expected the spinner while generating")
	}

	m = send(t, m, m.generate()())

	if controller.View().State != generation_form.StateGenerated {
		t.Errorf("expected generated, got %v", controller.View().State)
	}
	if view := m.View(); !strings.Contains(view, "Image ready: 8x4") {
		t.Errorf("expected an image summary, got %q", view)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	m, _ := newModel(t, &fakeAPI{})
	m = send(t, m, m.generate()())

	if !strings.Contains(m.View(), generation_form.EmptyPromptMessage) {
		t.Errorf("expected the prompt error in the view")
	}
}

func TestReset(t *testing.T) {
	m, controller := newModel(t, &fakeAPI{})
	m = send(t, m, runes("a cat"))
	m = send(t, m, key(tea.KeyCtrlX))

	if controller.View().Prompt != "" || m.prompt.Value() != "" {
		t.Errorf("expected the prompt to be cleared")
	}
}

func TestImageSummaryUndecodable(t *testing.T) {
	if got := imageSummary("data:image/png;base64,AAAA"); !strings.HasPrefix(got, "Image ready (") {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestResetReleasesPending(t *testing.T) {
	m, _ := newModel(t, &fakeAPI{})
	m = send(t, m, runes("a cat"))

	next, _ := m.Update(key(tea.KeyCtrlG))
	m = next.(Model)
	if !m.pending {
		t.Fatalf("expected a pending generation")
	}

	m = send(t, m, key(tea.KeyCtrlX))
	if m.pending {
		t.Errorf("expected reset to release the pending generation")
	}

	m = send(t, m, runes("a dog"))
	if _, cmd := m.Update(key(tea.KeyCtrlG)); cmd == nil {
		t.Errorf("expected generate to be available after reset")
	}
}

func TestSpinnerIdle(t *testing.T) {
	m, _ := newModel(t, &fakeAPI{})
	if _, cmd := m.Update(m.spinner.Tick()); cmd != nil {
		t.Errorf("expected no tick while nothing is generating")
	}

	m = send(t, m, runes("a cat"))
	next, _ := m.Update(key(tea.KeyCtrlG))
	m = next.(Model)
	if _, cmd := m.Update(m.spinner.Tick()); cmd == nil {
		t.Errorf("expected the spinner to keep ticking while generating")
	}
}
