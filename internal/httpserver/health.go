package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/jsonshop/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHTTP struct {
	Stores []Pinger
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready fails while any store cannot be read, a corrupt file included.
func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	for _, s := range h.Stores {
		if err := s.Ping(ctx); err != nil {
			logging.FromContext(ctx).With("handler", "health.ready").
				Error("readiness_error", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
		}
	}
	return c.NoContent(http.StatusOK)
}
