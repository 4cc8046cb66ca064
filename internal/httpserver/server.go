package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/blob"
	"github.com/plannetic/advisor-hub/internal/charts"
	"github.com/plannetic/advisor-hub/internal/clients"
	"github.com/plannetic/advisor-hub/internal/config"
	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/reports"
	"github.com/plannetic/advisor-hub/internal/scenarios"
	"github.com/plannetic/advisor-hub/internal/storage"
	"github.com/plannetic/advisor-hub/internal/storage/memory"
	"github.com/plannetic/advisor-hub/internal/storage/postgres"
)

// Server wires storage, the blob store and the report pipeline behind one
// HTTP listener.
type Server struct {
	config   *config.Config
	router   chi.Router
	storage  storage.Storage
	blobMode string
	logger   zerolog.Logger

	reportService *reports.Service
}

// New builds a fully wired server. With no DATABASE_URL it runs on in-memory
// storage; an unreachable database also falls back rather than failing
// startup.
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger.With().Str("component", "httpserver").Logger(),
	}

	s.initStorage()

	store, mode, err := blob.NewStore(cfg.Blob, logger)
	if err != nil {
		s.logger.Warn().Err(err).Msg("blob store init failed, falling back to local mode")
		store, mode = nil, config.BlobModeLocal
	}
	s.blobMode = mode

	synth := charts.NewSynthesizer(logger)
	emitter := reports.NewEmitter(store, cfg.Blob.S3.PresignTTLSeconds, cfg.Report.SlidedeckEndpoint, logger)
	engine := projection.NewCompoundEngine()
	s.reportService = reports.NewService(s.storage, engine, synth, emitter, cfg.Report, logger)

	s.routes()
	return s
}

func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		s.logger.Info().Msg("storage: in-memory (no DATABASE_URL)")
		s.storage = memory.New()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("storage: postgres unavailable, falling back to in-memory")
		s.storage = memory.New()
		return
	}

	s.logger.Info().Msg("storage: postgres connected")
	s.storage = pg
}

// Storage exposes the backing store for seeding in local tools and tests.
func (s *Server) Storage() storage.Storage { return s.storage }

// ReportService exposes the pipeline for local tools and tests.
func (s *Server) ReportService() *reports.Service { return s.reportService }

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	clientService := clients.NewService(s.storage.Clients())
	clients.NewHandler(clientService).Routes(r)

	scenarioService := scenarios.NewService(s.storage.Scenarios(), s.storage.Clients())
	scenarios.NewHandler(scenarioService).Routes(r)

	reports.NewHandler(s.reportService, s.logger).Routes(r)

	s.router = r
}

// requestLogger logs one line per request with latency and status.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("latency", time.Since(start)).
				Msg("request")
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"blob_mode": s.blobMode,
	})
}

// Handler returns the full middleware chain, outermost first:
// CORS, rate limit, router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.logger.Info().Str("addr", addr).Str("blob_mode", s.blobMode).Msg("server listening")

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
