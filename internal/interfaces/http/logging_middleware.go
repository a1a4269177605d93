package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Validade-api/pkg/logger"
)

// RequestLogger registra una línea por petición: método, ruta, status, latencia y actor.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler fije el status antes de registrar.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("actor", GetUserID(c)).
			Msg("request")
		return nil
	}
}

// UseMiddleware registra el logger de peticiones por fuera de recover, así un panic
// termina como 500 y también deja su línea de log.
func UseMiddleware(app *fiber.App, log *logger.Logger) {
	app.Use(RequestLogger(log))
	app.Use(recover.New())
}
