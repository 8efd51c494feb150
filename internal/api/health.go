package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// initHealthRoutes registers the health and connectivity test endpoints.
func (c *Controller) initHealthRoutes() {
	c.Echo.GET("/health", c.HealthCheck)
	c.Echo.GET("/test", c.TestEndpoint)
	c.Echo.POST("/test", c.TestEndpoint)
}

// HealthCheck reports liveness. It always returns 200; backend model services
// being down degrades identification but does not make the server unhealthy.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"message":        "BirdScan backend is running",
		"version":        c.Settings.Version,
		"build_date":     c.Settings.BuildDate,
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// TestEndpoint echoes request metadata for client connectivity debugging.
func (c *Controller) TestEndpoint(ctx echo.Context) error {
	headers := make(map[string]string)
	for name, values := range ctx.Request().Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"method":  ctx.Request().Method,
		"message": "Test endpoint working",
		"headers": headers,
	})
}
