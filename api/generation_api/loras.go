package generation_api

import (
	"context"
	"encoding/json"
)

type Loras []Lora

func UnmarshalLoras(data []byte) (Loras, error) {
	var r Loras
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *Loras) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

type Lora struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
	Path  string `json:"path"`
	// Metadata is passed through as served, usually the safetensors training header.
	Metadata map[string]any `json:"metadata"`
}

// DisplayName prefers the alias, the server fills it with the name when unset.
func (l Lora) DisplayName() string {
	if l.Alias != "" {
		return l.Alias
	}
	return l.Name
}

// String is what we fuzzy match against
func (c Loras) String(i int) string {
	return c[i].DisplayName()
}

func (c Loras) Len() int {
	return len(c)
}

func (c Loras) Find(name string) (Lora, bool) {
	for _, lora := range c {
		if lora.Name == name {
			return lora, true
		}
	}
	return Lora{}, false
}

func (api *apiImplementation) Loras(ctx context.Context) (Loras, error) {
	loras, err := GET[Loras](ctx, api.Client(), api.Host("/api/loras"))
	if err != nil {
		return nil, err
	}
	return *loras, nil
}
