package ops

import (
	"context"
	"net/http"
	"time"

	"SigFlow/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Handler serves the per-process operational endpoints.
type Handler struct {
	logger  *logger.Logger
	service string
	checks  map[string]CheckFunc
}

func NewHandler(lgr *logger.Logger, service string) *Handler {
	return &Handler{logger: lgr, service: service, checks: make(map[string]CheckFunc)}
}

// AddCheck registers a named dependency probe for /healthz.
func (h *Handler) AddCheck(name string, fn CheckFunc) {
	h.checks[name] = fn
}

// RegisterRoutes wires routes onto the ops server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)
}

func (h *Handler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			h.logger.Warn("health check failed", logger.String("check", name), logger.Error(err))
		} else {
			deps[name] = "ok"
		}
	}

	return c.JSON(status, map[string]interface{}{
		"service": h.service,
		"status":  http.StatusText(status),
		"deps":    deps,
	})
}
