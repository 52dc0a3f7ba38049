package entities

import "time"

// ImageGeneration is a finished generation as kept in the history.
type ImageGeneration struct {
	ID             int64           `json:"id"`
	// Session is the browser session the generation belongs to, empty outside the web form.
	Session        string          `json:"session,omitempty"`
	Prompt         string          `json:"prompt"`
	NegativePrompt string          `json:"negative_prompt,omitempty"`
	Model          string          `json:"model,omitempty"`
	Loras          []LoraSelection `json:"loras,omitempty"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Steps          int             `json:"steps"`
	CFGScale       float64         `json:"cfg_scale,omitempty"`
	Seed           int64           `json:"seed,omitempty"`
	BatchSize      int             `json:"batch_size,omitempty"`
	ImageWidth     int             `json:"image_width"`
	ImageHeight    int             `json:"image_height"`
	ImageBytes     int             `json:"image_bytes"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewGeneration(req *GenerationRequest) *ImageGeneration {
	g := &ImageGeneration{}
	if req == nil {
		return g
	}
	g.Prompt = req.Prompt
	g.NegativePrompt = req.NegativePrompt
	g.Model = req.Model
	g.Loras = append([]LoraSelection(nil), req.Loras...)
	g.Width = req.Width
	g.Height = req.Height
	g.Steps = req.Steps
	g.CFGScale = req.CFGScale
	g.Seed = req.Seed
	g.BatchSize = req.BatchSize
	return g
}
