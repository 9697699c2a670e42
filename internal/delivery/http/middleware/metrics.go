package middleware

import (
	"time"

	"jdmatch/internal/pkg/metrics"

	"github.com/gofiber/fiber/v3"
)

type MetricsMiddleware struct {
	metrics *metrics.Manager
}

func NewMetricsMiddleware(m *metrics.Manager) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Middleware labels requests by route template so ids never reach label values.
func (m *MetricsMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		m.metrics.ObserveHTTPRequest(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
