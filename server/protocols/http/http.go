// Package http is the REST boundary of the dataset engine: upload,
// inspect, transform and delete datasets over JSON.
package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/config"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/ingest"
	"github.com/gear6io/sift/server/pipeline"
)

// Server serves the dataset API over HTTP.
type Server struct {
	app       *fiber.App
	store     docstore.Store
	repo      *dataset.Repository
	extractor *ingest.Extractor
	processor *pipeline.Processor
	logger    zerolog.Logger
	addr      string
}

// NewServer wires the API over the given components. It does not start
// listening; call Start.
func NewServer(cfg *config.Config, store docstore.Store, repo *dataset.Repository, extractor *ingest.Extractor, processor *pipeline.Processor, logger zerolog.Logger) *Server {
	s := &Server{
		store:     store,
		repo:      repo,
		extractor: extractor,
		processor: processor,
		logger:    logger.With().Str("component", "http").Logger(),
		addr:      fmt.Sprintf("%s:%d", cfg.GetHTTPAddress(), cfg.GetHTTPPort()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "sift",
		DisableStartupMessage: true,
		BodyLimit:             256 << 20, // uploads are whole CSV files
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.requestLogger)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api/v1")
	api.Post("/datasets/upload", s.handleUpload)
	api.Post("/datasets/kaggle", s.handleKaggle)
	api.Get("/datasets", s.handleList)
	api.Get("/datasets/count", s.handleCount)
	api.Get("/datasets/search", s.handleSearch)
	api.Get("/datasets/:id", s.handleGet)
	api.Get("/datasets/:id/rows", s.handleRows)
	api.Post("/datasets/:id/process", s.handleProcess)
	api.Patch("/datasets/:id", s.handleUpdate)
	api.Delete("/datasets/:id", s.handleDelete)
}

// Start listens until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger logs one line per finished request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	err := c.Next()
	s.logger.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Msg("Request handled")
	return err
}

// errorHandler renders every handler error as a JSON envelope with the
// status its code maps to.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.CommonInternal.String()
	}
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
