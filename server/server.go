package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/artifacts"
	"github.com/gear6io/sift/server/config"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/docstore/memory"
	"github.com/gear6io/sift/server/docstore/mongo"
	"github.com/gear6io/sift/server/ingest"
	"github.com/gear6io/sift/server/pipeline"
	"github.com/gear6io/sift/server/protocols/http"
)

// Server represents the dataset engine runtime: the document store, the
// artifact store, the components built over them and the HTTP surface.
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	store      docstore.Store
	artifacts  artifacts.Store
	repo       *dataset.Repository
	extractor  *ingest.Extractor
	processor  *pipeline.Processor
	httpServer *http.Server
	wg         sync.WaitGroup
	startTime  time.Time
}

// New creates a new server instance, connecting the configured engines.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	store, err := newDocstore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	files, err := artifacts.NewStore(cfg, logger)
	if err != nil {
		store.Close(ctx)
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}

	repo := dataset.NewRepository(store, cfg.GetMetadataCollection(), logger)
	extractor := ingest.NewExtractor(repo, files, logger)
	processor := pipeline.NewProcessor(repo, files, logger)

	return &Server{
		config:     cfg,
		logger:     logger.With().Str("component", "server").Logger(),
		store:      store,
		artifacts:  files,
		repo:       repo,
		extractor:  extractor,
		processor:  processor,
		httpServer: http.NewServer(cfg, store, repo, extractor, processor, logger),
		startTime:  time.Now(),
	}, nil
}

// newDocstore builds the configured document store engine.
func newDocstore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (docstore.Store, error) {
	switch cfg.GetDocstoreEngine() {
	case "mongo":
		return mongo.NewStore(ctx, cfg.Docstore.URI, cfg.Docstore.Database, logger)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, errors.New(docstore.ErrEngineUnknown, "unknown document store engine", nil).
			AddContext("engine", cfg.GetDocstoreEngine())
	}
}

// Repository exposes the dataset repository for embedding callers (the
// CLI runs ingestion in-process through it).
func (s *Server) Repository() *dataset.Repository {
	return s.repo
}

// Extractor exposes the ingestion engine for embedding callers.
func (s *Server) Extractor() *ingest.Extractor {
	return s.extractor
}

// Processor exposes the transformation engine for embedding callers.
func (s *Server) Processor() *pipeline.Processor {
	return s.processor
}

// Store exposes the document store for embedding callers.
func (s *Server) Store() docstore.Store {
	return s.store
}

// Start launches the HTTP server and returns once it is listening.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting sift server...")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Start(); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	s.logger.Info().
		Str("http_address", config.DEFAULT_SERVER_ADDRESS).
		Int("http_port", s.config.GetHTTPPort()).
		Str("docstore_engine", s.config.GetDocstoreEngine()).
		Str("artifact_engine", s.artifacts.GetStorageType()).
		Msg("Server started")

	return nil
}

// Shutdown gracefully stops the HTTP server and closes the stores.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping HTTP server")
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Graceful shutdown completed")
	case <-ctx.Done():
		s.logger.Warn().Msg("Shutdown timeout, forcing close")
	}

	if err := s.store.Close(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error closing document store")
	}

	return nil
}

// Close releases the stores without touching the HTTP listener.
// Embedding callers that never Start use this instead of Shutdown.
func (s *Server) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}

// GetStatus returns the server status
func (s *Server) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"uptime":          s.GetUptime().String(),
		"start_time":      s.startTime,
		"docstore_engine": s.config.GetDocstoreEngine(),
		"artifact_engine": s.artifacts.GetStorageType(),
		"http_port":       s.config.GetHTTPPort(),
	}
}
