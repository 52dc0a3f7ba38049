package generation_api

import (
	"context"
	"encoding/json"
)

type Models []Model

func UnmarshalModels(data []byte) (Models, error) {
	var r Models
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *Models) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

type Model struct {
	ModelName string `json:"model_name"`
}

// String is what we fuzzy match against
func (c Models) String(i int) string {
	return c[i].ModelName
}

func (c Models) Len() int {
	return len(c)
}

func (c Models) Names() []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].ModelName
	}
	return names
}

func (api *apiImplementation) Models(ctx context.Context) (Models, error) {
	models, err := GET[Models](ctx, api.Client(), api.Host("/api/models"))
	if err != nil {
		return nil, err
	}
	return *models, nil
}
