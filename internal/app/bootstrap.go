package app

import (
	"context"
	"fmt"
	"strings"

	"jdmatch/internal/config"
	"jdmatch/internal/delivery/http/handler"
	"jdmatch/internal/delivery/http/middleware"
	"jdmatch/internal/delivery/http/routes"
	v1 "jdmatch/internal/delivery/http/routes/v1"
	"jdmatch/internal/pkg/logger"
	"jdmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app around an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiberConfig(c.Config))

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// fiberConfig keeps request values immutable: ids read from the path are
// stored and handed to the hub goroutine after the handler returns.
func fiberConfig(cfg config.Config) fiber.Config {
	return fiber.Config{
		AppName:   cfg.App.Name,
		Immutable: true,
	}
}

// Bootstrap wires the container and the HTTP app. The returned cleanup
// releases the container's resources.
func Bootstrap(ctx context.Context, cfg config.Config, log logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

// registerGlobalMiddleware installs access log, metrics, then error
// rendering, so the outer two observe the final status.
func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Log).Middleware())
	app.Use(middleware.NewMetricsMiddleware(c.Metrics).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	checks := map[string]handler.HealthCheck{}
	if c.DB != nil {
		checks["database"] = c.DB.Ping
	}

	registry := routes.NewRegistry(handler.NewHealthHandler(checks), c.Metrics, v1.Handlers{
		Auth:            middleware.NewAuthMiddleware(c.JWT),
		JobDescriptions: handler.NewJobDescriptionHandler(c.JobDescriptions, c.Validator),
		Analysis:        handler.NewAnalysisHandler(c.Analysis),
		WS:              ws.NewHandler(c.Hub, c.Log),
	})
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
