package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"visionary/generation_form"
)

const sessionCookie = "visionary_session"

// session returns the form bound to the request's cookie, creating one
// with a freshly loaded inventory when the cookie is missing or expired.
func (s *Server) session(c *fiber.Ctx) (*generation_form.Controller, error) {
	if id := c.Cookies(sessionCookie); id != "" {
		if controller, ok := s.sessions.Get(id); ok {
			return controller, nil
		}
	}

	id := uuid.NewString()
	controller, err := generation_form.New(generation_form.Config{
		API:      s.api,
		Recorder: s.recorder(),
		Defaults: s.defaults,
		Session:  id,
	})
	if err != nil {
		return nil, err
	}

	// inventory failures are shown on the form
	_ = controller.LoadInventory(s.context(c))
	s.sessions.Add(id, controller)
	s.logger.Info("session created", "session", id)

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return controller, nil
}

func (s *Server) recorder() generation_form.Recorder {
	if s.history == nil {
		return nil
	}
	return s.history
}
