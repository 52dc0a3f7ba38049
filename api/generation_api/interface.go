package generation_api

import (
	"context"
	"net/http"

	"visionary/entities"
)

type GenerationAPI interface {
	Health(ctx context.Context) (Health, error)
	Models(ctx context.Context) (Models, error)
	Loras(ctx context.Context) (Loras, error)
	Generate(ctx context.Context, req *entities.GenerationRequest) (*entities.GenerationResponse, error)

	Client() *http.Client
	Host(path ...string) string
}
