package inject

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samber/do"

	"visionary/api/generation_api"
	"visionary/databases/sqlite"
	"visionary/generation_form"
	"visionary/log"
	"visionary/repositories/image_generations"
	"visionary/web"
)

type Settings struct {
	Host string
	// HistoryDB enables the generation history when set.
	HistoryDB string
	Sessions  int
}

// historyDB closes the database when the injector shuts down.
type historyDB struct {
	*sql.DB
}

func (db historyDB) Shutdown() error {
	return db.Close()
}

func Setup(ctx context.Context, settings Settings) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideNamedValue[string](injector, "host", settings.Host)
	do.ProvideNamedValue[string](injector, "history_db", settings.HistoryDB)
	do.ProvideNamedValue[int](injector, "sessions", settings.Sessions)

	do.Provide[generation_api.GenerationAPI](injector, func(i *do.Injector) (generation_api.GenerationAPI, error) {
		return generation_api.New(generation_api.Config{Host: do.MustInvokeNamed[string](i, "host")})
	})

	if settings.HistoryDB != "" {
		do.Provide[historyDB](injector, func(i *do.Injector) (historyDB, error) {
			db, err := sqlite.New(ctx, do.MustInvokeNamed[string](i, "history_db"))
			return historyDB{db}, err
		})
		do.Provide[image_generations.Repository](injector, func(i *do.Injector) (image_generations.Repository, error) {
			return image_generations.NewRepository(&image_generations.Config{DB: do.MustInvoke[historyDB](i).DB})
		})
	}

	do.Provide[*generation_form.Controller](injector, func(i *do.Injector) (*generation_form.Controller, error) {
		history, err := History(i)
		if err != nil {
			return nil, err
		}
		cfg := generation_form.Config{API: do.MustInvoke[generation_api.GenerationAPI](i)}
		if history != nil {
			cfg.Recorder = history
		}
		return generation_form.New(cfg)
	})

	do.Provide[*web.Server](injector, func(i *do.Injector) (*web.Server, error) {
		history, err := History(i)
		if err != nil {
			return nil, err
		}
		return web.New(ctx, web.Config{
			API:      do.MustInvoke[generation_api.GenerationAPI](i),
			History:  history,
			Sessions: do.MustInvokeNamed[int](i, "sessions"),
		})
	})

	return injector
}

// History returns the history repository, or nil when history is disabled.
func History(i *do.Injector) (image_generations.Repository, error) {
	if do.MustInvokeNamed[string](i, "history_db") == "" {
		return nil, nil
	}
	return do.Invoke[image_generations.Repository](i)
}
