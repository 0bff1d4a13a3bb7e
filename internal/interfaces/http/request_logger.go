package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// HeaderRequestID se propaga si el cliente lo envía; si no, se genera un UUID.
const HeaderRequestID = "X-Request-ID"

// LocalRequestID key de c.Locals con el id de la petición.
const LocalRequestID = "request_id"

// RequestLogger registra cada petición con su id, ruta, código y duración, y alimenta las métricas HTTP.
func RequestLogger(log *logger.Logger, m *metrics.HTTPMetrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(LocalRequestID, requestID)
		c.Set(HeaderRequestID, requestID)

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el código.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		m.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Int64("user_id", GetUserID(c)).
			Msg("petición HTTP")
		return nil
	}
}
