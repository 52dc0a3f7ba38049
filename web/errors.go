package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// errorHandler answers anything a handler returned instead of rendering.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "status", code, "error", err)

	return c.Status(code).SendString(errorString(code, err))
}

func errorString(code int, errorContent any) string {
	if code >= fiber.StatusInternalServerError {
		return "An unknown error has occurred"
	}

	switch content := errorContent.(type) {
	case *fiber.Error:
		return content.Message
	case string:
		return content
	case error:
		return fmt.Sprint(content)
	default:
		return "An unknown error has occurred"
	}
}
