package entities

import "encoding/json"

func UnmarshalGenerationRequest(data []byte) (GenerationRequest, error) {
	var r GenerationRequest
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *GenerationRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func UnmarshalGenerationResponse(data []byte) (GenerationResponse, error) {
	var r GenerationResponse
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *GenerationResponse) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// GenerationRequest is the body of POST /api/generate.
// Zero values of the optional fields are left off the wire, so a seed,
// cfg scale or batch size of 0 means "server default".
type GenerationRequest struct {
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
}

type LoraSelection struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
}

// GenerationResponse holds either data URLs or bare base64 PNG payloads.
type GenerationResponse struct {
	Images []string `json:"images"`
}
