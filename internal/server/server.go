// Package server exposes the file helpers over HTTP.
package server

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Abraxas-365/fileutil/pkg/config"
	"github.com/Abraxas-365/fileutil/pkg/errx"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/logx"
)

const (
	serviceName     = "fileutil"
	shutdownTimeout = 30 * time.Second
)

// Server wires the helper into a fiber app
type Server struct {
	app               *fiber.App
	helper            *fsx.Helper
	cfg               config.ServerConfig
	presignExpiration time.Duration
	accessLog         bool
}

// Option configures the server
type Option func(*Server)

// WithPresignExpiration sets the lifetime of presigned URLs
func WithPresignExpiration(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.presignExpiration = d
		}
	}
}

// WithoutAccessLog drops the request log middleware
func WithoutAccessLog() Option {
	return func(s *Server) {
		s.accessLog = false
	}
}

// New builds the app with middleware and routes registered
func New(helper *fsx.Helper, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		helper:            helper,
		cfg:               cfg,
		presignExpiration: 15 * time.Minute,
		accessLog:         true,
	}
	for _, opt := range opts {
		opt(s)
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 10 * 1024 * 1024
	}

	s.app = fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          s.globalErrorHandler,
		BodyLimit:             bodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, HEAD, OPTIONS",
		ExposeHeaders: fiber.HeaderXRequestID,
	}))

	if s.accessLog {
		s.app.Use(logger.New(logger.Config{
			Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "Local",
			Output:     os.Stderr,
		}))
	}

	s.routes()
	s.app.Use(notFoundHandler)

	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured port until ctx is done, then shuts down
func (s *Server) Run(ctx context.Context) error {
	port := strings.TrimPrefix(s.cfg.Port, ":")
	if port == "" {
		port = "8080"
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("server listening on port %s", port)
		errCh <- s.app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("shutting down gracefully")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logx.Errorf("server forced to shutdown: %v", err)
		return err
	}
	logx.Info("server stopped")
	return nil
}

// globalErrorHandler renders errx errors with their status, fiber errors
// with theirs, and everything else as an internal error
func (s *Server) globalErrorHandler(c *fiber.Ctx, err error) error {
	requestID := c.GetRespHeader(fiber.HeaderXRequestID)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":      fe.Message,
			"code":       "FIBER_ERROR",
			"status":     fe.Code,
			"request_id": requestID,
		})
	}

	e := errx.FromError(err)
	fields := logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"code":       e.Code,
		"request_id": requestID,
	}
	if e.HTTPStatus >= fiber.StatusInternalServerError {
		logx.WithFields(fields).WithError(err).Error("request failed")
	} else {
		logx.WithFields(fields).Debug(e.Error())
	}

	response := fiber.Map{
		"error":      e.Message,
		"code":       e.Code,
		"type":       string(e.Type),
		"status":     e.HTTPStatus,
		"request_id": requestID,
	}
	if len(e.Details) > 0 {
		response["details"] = e.Details
	}
	if s.cfg.Debug && e.Err != nil {
		response["underlying_error"] = e.Err.Error()
	}

	return c.Status(e.HTTPStatus).JSON(response)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
