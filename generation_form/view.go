package generation_form

import (
	"visionary/api/generation_api"
	"visionary/entities"
)

// View is a copy of the form state for rendering.
type View struct {
	State          State
	Busy           bool
	Models         generation_api.Models
	Loras          generation_api.Loras
	InventoryError string

	SelectedModel string
	SelectedLoras []entities.LoraSelection

	Prompt         string
	NegativePrompt string
	ShowNegative   bool
	Width          int
	Height         int
	Steps          int
	CFGScale       float64
	BatchSize      int
	Seed           int64

	// Image is a data URL, empty until a generation succeeds.
	Image string
	Error string
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		State:          c.state,
		Busy:           c.inFlight,
		Models:         c.models,
		Loras:          c.loras,
		InventoryError: c.inventoryError,
		SelectedModel:  c.selectedModel,
		SelectedLoras:  append([]entities.LoraSelection(nil), c.selectedLoras...),
		Prompt:         c.prompt,
		NegativePrompt: c.negativePrompt,
		ShowNegative:   c.showNegative,
		Width:          c.width,
		Height:         c.height,
		Steps:          c.steps,
		CFGScale:       c.cfgScale,
		BatchSize:      c.batchSize,
		Seed:           c.seed,
		Image:          c.image,
		Error:          c.generateError,
	}
}

// Selected reports whether name is in the view's LoRA selection.
func (v View) Selected(name string) bool {
	for _, l := range v.SelectedLoras {
		if l.Name == name {
			return true
		}
	}
	return false
}
