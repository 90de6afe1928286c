package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"

	"ticketdesk/internal/config"
	"ticketdesk/internal/database"
	"ticketdesk/internal/external"
	"ticketdesk/internal/handlers"
	"ticketdesk/internal/jobs"
	"ticketdesk/internal/messaging"
	"ticketdesk/internal/metrics"
	"ticketdesk/internal/middleware"
	"ticketdesk/internal/repository"
	"ticketdesk/internal/search"
	"ticketdesk/internal/service"
	"ticketdesk/internal/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the registration gateway HTTP server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	search   *search.ElasticsearchClient
	valkey   *snapshot.ValkeyStore
	services *service.Services
	expiry   *jobs.SessionExpirationJob
}

// NewServer connects the configured backends and builds the router.
// Postgres, Elasticsearch, NATS and Valkey are each optional.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	metrics.Register()

	s := &Server{config: cfg}

	var store snapshot.Store = snapshot.NewMemoryStore(cfg.Snapshot.TTL)
	if cfg.Snapshot.Enabled {
		valkey, err := snapshot.NewValkeyStore(cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		s.valkey = valkey
		store = valkey
	}

	var repos *repository.Repositories
	if cfg.Database.Enabled {
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			s.Cleanup()
			return nil, err
		}
		s.db = db

		if err := db.RunMigrations(ctx); err != nil {
			s.Cleanup()
			return nil, err
		}
		repos = repository.NewRepositories(db)
	}

	var index service.EventIndex
	if cfg.Elasticsearch.Enabled {
		es, err := search.NewElasticsearchClient(ctx, cfg.Elasticsearch)
		if err != nil {
			s.Cleanup()
			return nil, err
		}
		s.search = es
		index = es
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		s.Cleanup()
		return nil, err
	}
	s.nats = natsClient

	s.services = service.NewServices(service.Dependencies{
		Platform:  external.NewClient(cfg.Platform),
		Index:     index,
		Store:     store,
		Publisher: natsClient,
		Repos:     repos,
		Links:     cfg.Links,
		Config: service.Config{
			SessionTTL:    cfg.SessionTTL,
			WebhookSecret: cfg.PaymentWebhookSecret,
		},
	})

	if cfg.PaymentWebhookSecret == "" {
		slog.Warn("PAYMENT_WEBHOOK_SECRET is empty, payment notifications will be rejected")
	}

	s.expiry = jobs.NewSessionExpirationJob(s.services.Sessions, cfg.SessionSweepInterval)
	s.expiry.Start(ctx)

	s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(s.config.CORSOrigins))
	router.Use(middleware.Timeout(s.config.RequestTimeout))

	h := handlers.NewHandlers(s.services, s.healthChecks())
	h.Register(router)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
}

func (s *Server) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}

	if s.db != nil {
		checks["database"] = s.db.HealthCheck
	}
	if s.search != nil {
		checks["elasticsearch"] = s.search.HealthCheck
	}
	if s.nats.Enabled() {
		checks["nats"] = func(ctx context.Context) error {
			if !s.nats.Connected() {
				return fmt.Errorf("nats streaming connection lost")
			}
			return nil
		}
	}
	if s.valkey != nil {
		checks["valkey"] = s.valkey.Ping
	}

	return checks
}

// StartPprof serves the runtime profiler on a separate port when enabled
func (s *Server) StartPprof() {
	if !s.config.PprofEnabled {
		return
	}

	addr := ":" + s.config.PprofPort
	go func() {
		slog.Info("Starting pprof server", "addr", addr)
		if err := http.ListenAndServe(addr, http.DefaultServeMux); err != nil && err != http.ErrServerClosed {
			slog.Error("pprof server stopped", "error", err)
		}
	}()
}

// GetRouter returns the router for the HTTP server and tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup stops background jobs and closes connections
func (s *Server) Cleanup() error {
	if s.expiry != nil {
		s.expiry.Stop()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
