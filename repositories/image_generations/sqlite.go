package image_generations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"visionary/entities"
)

const insertGenerationQuery string = `
INSERT INTO image_generations (session, prompt, negative_prompt, model, loras,
                               width, height, steps, cfg_scale, seed, batch_size,
                               image_width, image_height, image_bytes, created_at) VALUES
                            (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const listGenerationsQuery string = `
SELECT id, session, prompt, negative_prompt, model, loras,
       width, height, steps, cfg_scale, seed, batch_size,
       image_width, image_height, image_bytes, created_at
       FROM image_generations WHERE session = ? ORDER BY created_at DESC, id DESC LIMIT ?;
`

const defaultListLimit = 20

type sqliteRepo struct {
	dbConn *sql.DB
	now    func() time.Time
}

type Config struct {
	DB *sql.DB
	// Now stamps new records. Defaults to time.Now.
	Now func() time.Time
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg == nil || cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	newRepo := &sqliteRepo{
		dbConn: cfg.DB,
		now:    cfg.Now,
	}
	if newRepo.now == nil {
		newRepo.now = time.Now
	}

	return newRepo, nil
}

func (repo *sqliteRepo) Create(ctx context.Context, generation *entities.ImageGeneration) (*entities.ImageGeneration, error) {
	if generation == nil {
		return nil, errors.New("missing generation")
	}
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = repo.now().UTC()
	}

	marshalLoras, err := json.Marshal(generation.Loras)
	if err != nil || generation.Loras == nil {
		marshalLoras = []byte("[]")
	}

	res, err := repo.dbConn.ExecContext(ctx, insertGenerationQuery,
		generation.Session, generation.Prompt, generation.NegativePrompt, generation.Model, string(marshalLoras),
		generation.Width, generation.Height, generation.Steps, generation.CFGScale, generation.Seed, generation.BatchSize,
		generation.ImageWidth, generation.ImageHeight, generation.ImageBytes, generation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	generation.ID = lastID

	return generation, nil
}

func (repo *sqliteRepo) List(ctx context.Context, session string, limit int) ([]*entities.ImageGeneration, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := repo.dbConn.QueryContext(ctx, listGenerationsQuery, session, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var generations []*entities.ImageGeneration
	for rows.Next() {
		var generation entities.ImageGeneration
		var lorasString string

		err := rows.Scan(
			&generation.ID, &generation.Session, &generation.Prompt, &generation.NegativePrompt, &generation.Model, &lorasString,
			&generation.Width, &generation.Height, &generation.Steps, &generation.CFGScale, &generation.Seed, &generation.BatchSize,
			&generation.ImageWidth, &generation.ImageHeight, &generation.ImageBytes, &generation.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(lorasString), &generation.Loras); err != nil {
			return nil, err
		}
		if len(generation.Loras) == 0 {
			generation.Loras = nil
		}

		generations = append(generations, &generation)
	}

	return generations, rows.Err()
}
