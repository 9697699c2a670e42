package v1

import (
	"jdmatch/internal/delivery/http/handler"
	"jdmatch/internal/delivery/http/middleware"
	"jdmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth            *middleware.AuthMiddleware
	JobDescriptions *handler.JobDescriptionHandler
	Analysis        *handler.AnalysisHandler
	WS              *ws.Handler
}

// Register mounts the v1 API. Public routes are registered before the auth
// group so the group middleware never runs for them.
func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Analysis != nil {
		r.Get("/llm/health", h.Analysis.HandleLLMHealth)
	}

	protected := r.Group("", h.Auth.Middleware())

	if h.JobDescriptions != nil {
		h.JobDescriptions.RegisterRoutes(protected)
	}
	if h.Analysis != nil {
		h.Analysis.RegisterRoutes(protected)
	}
	if h.WS != nil {
		h.WS.RegisterRoutes(protected)
	}
}
