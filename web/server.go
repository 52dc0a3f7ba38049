package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"visionary/api/generation_api"
	"visionary/generation_form"
	"visionary/log"
	"visionary/repositories/image_generations"
)

//go:embed templates/*.html
var templates embed.FS

const (
	defaultSessions = 256
	historyLimit    = 10
)

type Config struct {
	API generation_api.GenerationAPI
	// History is optional. Without it nothing is persisted.
	History  image_generations.Repository
	Defaults *generation_form.Defaults
	// Sessions caps how many browser sessions keep a form. The least
	// recently used one is dropped first.
	Sessions int
}

type Server struct {
	app      *fiber.App
	api      generation_api.GenerationAPI
	history  image_generations.Repository
	defaults *generation_form.Defaults
	sessions *lru.Cache[string, *generation_form.Controller]
	logger   *slog.Logger
}

func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, errors.New("missing generation API")
	}
	if cfg.Sessions <= 0 {
		cfg.Sessions = defaultSessions
	}

	logger := log.FromContextOrDiscard(ctx).WithGroup("web")

	sessions, err := lru.NewWithEvict(cfg.Sessions, func(id string, _ *generation_form.Controller) {
		logger.Info("session evicted", "session", id)
	})
	if err != nil {
		return nil, err
	}

	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, err
	}

	s := &Server{
		api:      cfg.API,
		history:  cfg.History,
		defaults: cfg.Defaults,
		sessions: sessions,
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		Views:                 html.NewFileSystem(http.FS(sub), ".html"),
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
		// form values outlive the request inside the session's controller
		Immutable: true,
	})
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/", s.handleIndex)
	s.app.Get("/healthz", s.handleHealth)

	s.app.Post("/form", s.handleForm)
	s.app.Post("/model", s.handleModel)
	s.app.Post("/loras/toggle", s.handleToggleLora)
	s.app.Post("/loras/strength", s.handleStrength)
	s.app.Post("/seed/random", s.handleRandomSeed)
	s.app.Post("/negative/toggle", s.handleToggleNegative)
	s.app.Post("/generate", s.handleGenerate)
	s.app.Post("/reset", s.handleReset)
}

// App exposes the fiber app, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// context carries the server logger into controller calls.
func (s *Server) context(c *fiber.Ctx) context.Context {
	return log.NewContext(c.UserContext(), s.logger)
}
