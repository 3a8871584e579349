package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/webdevzw/reviews-apiserver/config"
	"github.com/webdevzw/reviews-apiserver/internal/db"
	"github.com/webdevzw/reviews-apiserver/internal/handlers"
	"github.com/webdevzw/reviews-apiserver/internal/logging"
	"github.com/webdevzw/reviews-apiserver/internal/notify"
	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/internal/session"
	"github.com/webdevzw/reviews-apiserver/internal/storage"
	"github.com/webdevzw/reviews-apiserver/internal/store"
)

// Server wraps the HTTP server and its owned resources.
type Server struct {
	httpServer   *http.Server
	router       *chi.Mux
	db           *sql.DB
	notifier     *notify.Notifier
	sessionStore session.Store
	logger       *slog.Logger
}

// New constructs a Server with all dependencies wired from config.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := logging.New("reviews-apiserver", "info")

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		_ = notifier.Close()
		return nil, err
	}

	sessionStore, err := buildSessionStore(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		_ = notifier.Close()
		return nil, err
	}
	sessions := session.NewManager(sessionStore, cfg.Session.IdleTimeout, cfg.Session.MaxLifetime)

	reviewRepo := store.NewReviewRepository(dbConn)
	adminRepo := store.NewAdminRepository(dbConn)

	reviewService := services.NewReviewService(reviewRepo, notifier)
	adminService := services.NewAdminService(adminRepo)
	exportService := services.NewExportService(services.CSVFormatter{}, archive, logger)

	secureCookies := cfg.Env != "dev"
	authHandler := handlers.NewAuthHandler(adminService, sessions, secureCookies)
	reviewHandler := handlers.NewReviewHandler(reviewService, exportService)
	testimonialHandler := handlers.NewTestimonialHandler(reviewService, cfg.CORS.TestimonialOrigin)
	healthHandler := handlers.NewHealthHandler(reviewService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		requestMetrics,
	)

	router.Get("/healthz", healthHandler.Healthz)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/test", healthHandler.TestStore)
		r.Post("/feedback", reviewHandler.SubmitFeedback)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, authHandler)
		})
		r.Route("/reviews", func(r chi.Router) {
			handlers.ReviewRouter(r, reviewHandler, authHandler.RequireAuth)
		})
		r.Get("/testimonials", testimonialHandler.ListTestimonials)
		r.Options("/testimonials", testimonialHandler.ListTestimonials)
		r.Get("/public/testimonials", testimonialHandler.ListTestimonials)
		r.Options("/public/testimonials", testimonialHandler.ListTestimonials)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		db:           dbConn,
		notifier:     notifier,
		sessionStore: sessionStore,
		logger:       logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown and releases owned resources.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.notifier.Close()
	if closer, ok := s.sessionStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	return s.httpServer.Close()
}

func buildNotifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (*notify.Notifier, error) {
	switch cfg.Notify.Provider {
	case "rabbitmq":
		backend, err := notify.NewRabbitMQBackend(cfg.Notify.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return notify.New(backend, logger), nil
	case "pubsub":
		backend, err := notify.NewPubSubBackend(ctx, cfg.Notify.PubSub)
		if err != nil {
			return nil, err
		}
		return notify.New(backend, logger), nil
	case "":
		return notify.New(nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (storage.Archive, error) {
	switch cfg.Storage.Provider {
	case "minio":
		archive, err := storage.NewMinioArchive(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	case "gcs":
		archive, err := storage.NewGCSArchive(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func buildSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), nil
	}
	return session.NewRedisStore(ctx, cfg.Redis)
}
