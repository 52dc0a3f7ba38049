package generation_api

import "context"

// Health is whatever liveness payload the service answers with.
type Health map[string]any

func (api *apiImplementation) Health(ctx context.Context) (Health, error) {
	health, err := GET[Health](ctx, api.Client(), api.Host("/api/health"))
	if err != nil {
		return nil, err
	}
	return *health, nil
}

// CheckAPIAlive reports whether the health endpoint answers.
func CheckAPIAlive(ctx context.Context, api GenerationAPI) bool {
	_, err := api.Health(ctx)
	return err == nil
}

const DeadAPI = "API is not running"
