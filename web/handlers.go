package web

import (
	"errors"
	"html/template"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"visionary/entities"
	"visionary/generation_form"
)

type historyEntry struct {
	Prompt     string
	Model      string
	Seed       int64
	Dimensions string
	Size       string
	When       string
}

type page struct {
	View generation_form.View
	// Image is trusted: it only ever holds a data URL built by the controller.
	Image          template.URL
	HistoryEnabled bool
	History        []historyEntry
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}

	view := controller.View()
	data := page{
		View:           view,
		Image:          template.URL(view.Image),
		HistoryEnabled: s.history != nil,
	}

	if s.history != nil {
		generations, err := s.history.List(s.context(c), controller.Session(), historyLimit)
		if err != nil {
			s.logger.Error("failed to list history", "error", err)
		}
		data.History = lo.Map(generations, func(g *entities.ImageGeneration, _ int) historyEntry {
			return newHistoryEntry(g)
		})
	}

	return c.Render("index", data, "base")
}

func newHistoryEntry(g *entities.ImageGeneration) historyEntry {
	return historyEntry{
		Prompt:     g.Prompt,
		Model:      g.Model,
		Seed:       g.Seed,
		Dimensions: strconv.Itoa(g.ImageWidth) + "x" + strconv.Itoa(g.ImageHeight),
		Size:       humanize.Bytes(uint64(max(g.ImageBytes, 0))),
		When:       humanize.RelTime(g.CreatedAt, time.Now(), "ago", "from now"),
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	health, err := s.api.Health(s.context(c))
	if err != nil {
		s.logger.Warn("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "api": health})
}

// handleForm saves the text and number fields of the form.
func (s *Server) handleForm(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	applyForm(c, controller)
	return back(c)
}

func (s *Server) handleModel(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	controller.SelectModel(c.FormValue("name"))
	return back(c)
}

func (s *Server) handleToggleLora(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	name := c.FormValue("name")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing lora name")
	}
	controller.ToggleLora(name)
	return back(c)
}

func (s *Server) handleStrength(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.FormValue("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid lora index")
	}
	controller.UpdateStrength(index, c.FormValue("strength"))
	return back(c)
}

func (s *Server) handleRandomSeed(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	controller.RandomizeSeed()
	return back(c)
}

func (s *Server) handleToggleNegative(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	controller.ToggleNegative()
	return back(c)
}

// handleGenerate saves the posted fields and waits for the generation.
// Outcomes other than a server fault are rendered from the form state.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	applyForm(c, controller)

	err = controller.Generate(s.context(c))
	switch {
	case err == nil:
	case errors.Is(err, generation_form.ErrInFlight), errors.Is(err, generation_form.ErrStale):
		s.logger.Info("generation skipped", "reason", err)
	default:
		s.logger.Warn("generation did not produce an image", "error", err)
	}
	return back(c)
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	controller, err := s.session(c)
	if err != nil {
		return err
	}
	controller.Reset()
	return back(c)
}

func back(c *fiber.Ctx) error {
	return c.Redirect("/", fiber.StatusSeeOther)
}

// applyForm applies the fields present in the post. Absent fields keep
// their value; malformed numbers are dropped by the controller.
func applyForm(c *fiber.Ctx, controller *generation_form.Controller) {
	args := c.Request().PostArgs()
	field := func(key string) (string, bool) {
		if !args.Has(key) {
			return "", false
		}
		return string(args.Peek(key)), true
	}

	if v, ok := field("prompt"); ok {
		controller.SetPrompt(v)
	}
	if v, ok := field("negative_prompt"); ok {
		controller.SetNegativePrompt(v)
	}
	if v, ok := field("model"); ok {
		controller.SelectModel(v)
	}

	setters := map[string]func(string) bool{
		"width":      controller.SetWidth,
		"height":     controller.SetHeight,
		"steps":      controller.SetSteps,
		"cfg_scale":  controller.SetCFGScale,
		"batch_size": controller.SetBatchSize,
		"seed":       controller.SetSeed,
	}
	for key, set := range setters {
		if v, ok := field(key); ok {
			set(v)
		}
	}
}
