// Package api exposes the HTTP surface: bird identification upload, species
// search, and health endpoints.
package api

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/birdscan/birdscan-go/internal/conf"
	"github.com/birdscan/birdscan-go/internal/enrichment"
	"github.com/birdscan/birdscan-go/internal/logging"
	"github.com/birdscan/birdscan-go/internal/pipeline"
)

// Processor runs the identification pipeline on an uploaded image.
type Processor interface {
	Process(ctx context.Context, imageData []byte, filename string) (*pipeline.Result, error)
}

// Searcher resolves species details by name.
type Searcher interface {
	Search(ctx context.Context, name string) (*enrichment.Details, bool)
}

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	Settings  *conf.Settings
	Processor Processor
	Searcher  Searcher
	Uploads   *Store

	logger         *log.Logger
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
	startTime      time.Time
}

// New creates the API controller and registers all routes on e.
func New(e *echo.Echo, settings *conf.Settings, processor Processor, searcher Searcher, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.Default()
	}

	uploads, err := NewStore(settings.WebServer.UploadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}

	c := &Controller{
		Echo:      e,
		Settings:  settings,
		Processor: processor,
		Searcher:  searcher,
		Uploads:   uploads,
		logger:    logger,
		startTime: time.Now(),
	}

	// Structured logger for API requests
	apiLogPath := "logs/web.log"
	c.apiLevelVar = new(slog.LevelVar)
	c.apiLevelVar.Set(slog.LevelInfo)

	apiLogger, closeFunc, err := logging.NewFileLogger(apiLogPath, "api", c.apiLevelVar)
	if err != nil {
		logger.Printf("Warning: Failed to initialize API structured logger: %v", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: c.apiLevelVar})
		c.apiLogger = slog.New(fbHandler).With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
		logger.Printf("API structured logging initialized to %s", apiLogPath)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if settings.WebServer.BodyLimit != "" {
		e.Use(middleware.BodyLimit(settings.WebServer.BodyLimit))
	}
	e.Use(c.LoggingMiddleware())

	c.initRoutes()

	return c, nil
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"detection routes", c.initDetectionRoutes},
		{"search routes", c.initSearchRoutes},
		{"health routes", c.initHealthRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// LoggingMiddleware creates a middleware function that logs API requests.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()

			err := next(ctx)

			if c.apiLogger == nil {
				return err
			}

			req := ctx.Request()
			res := ctx.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("query", req.URL.RawQuery),
				slog.Int("status", res.Status),
				slog.String("ip", ctx.RealIP()),
				slog.String("user_agent", req.UserAgent()),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.apiLogger.LogAttrs(req.Context(), slog.LevelInfo, "API Request", attrs...)

			return err
		}
	}
}

// messageResponse is the client-facing error and status body. The identification
// frontend keys on the message field, so error responses carry nothing else.
type messageResponse struct {
	Message string `json:"message"`
}

// generateCorrelationID creates a unique identifier for error tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError logs an error with a correlation ID and returns the
// message-keyed JSON body clients expect.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	correlationID := generateCorrelationID()

	ip := ctx.RealIP()
	c.logger.Printf("API Error [%s] from %s: %s: %v", correlationID, ip, message, err)

	if c.apiLogger != nil {
		errorStr := message
		if err != nil {
			errorStr = err.Error()
		}
		c.apiLogger.Error("API Error",
			"correlation_id", correlationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, &messageResponse{Message: message})
}

// Debug logs debug messages when debug mode is enabled.
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}

// Shutdown closes controller resources.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Error closing API log file: %v", err)
		}
	}
	c.Debug("API Controller shutting down")
}
