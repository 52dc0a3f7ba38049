package image_generations

import (
	"context"

	"visionary/entities"
)

type Repository interface {
	Create(ctx context.Context, generation *entities.ImageGeneration) (*entities.ImageGeneration, error)
	// List returns the most recent generations of a session first.
	List(ctx context.Context, session string, limit int) ([]*entities.ImageGeneration, error)
}
