// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/medwatch/vitalhub/api"
	"github.com/medwatch/vitalhub/internal/config"
	"github.com/medwatch/vitalhub/internal/database"
	"github.com/medwatch/vitalhub/internal/monitoring"
	"github.com/medwatch/vitalhub/internal/repository"
	"github.com/medwatch/vitalhub/internal/repository/memory"
	"github.com/medwatch/vitalhub/internal/repository/postgres"
	"github.com/medwatch/vitalhub/internal/stream"
	"github.com/medwatch/vitalhub/internal/vitalservice"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	vitals     *vitalservice.VitalService
	hub        *stream.Hub
	monitoring *monitoring.Service
	db         database.DB
	stopBridge context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{config: cfg}
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.monitoring = monitoring.NewService()

	events := nuts.NewEventEmitter()
	s.hub = stream.NewHub(events)

	readings, err := s.initReadingRepository()
	if err != nil {
		return err
	}

	broadcaster := s.initBroadcaster()
	s.vitals = vitalservice.New(readings, broadcaster, events, s.config.Ingest.AverageWindow)
	if err := s.vitals.Validate(); err != nil {
		return err
	}

	s.setupEventHandlers(events)

	router := api.NewRouter(s.vitals, s.hub)
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      cors(router),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.stopBridge != nil {
		s.stopBridge()
	}
	s.hub.Close()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) initReadingRepository() (repository.ReadingRepository, error) {
	if !s.config.Database.Readings.Enabled() {
		nuts.L.Warnf("[Server] No database configured, using in-memory reading store")
		return memory.NewReadingRepository(), nil
	}

	db, err := database.NewPostgresDB(s.config.Database.Readings)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	repo, err := postgres.NewReadingRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reading repository: %w", err)
	}
	return repo, nil
}

// initBroadcaster returns the hub itself, or the Redis bridge wrapping
// it when a Redis host is configured so that a fleet of instances
// shares one live feed.
func (s *Server) initBroadcaster() vitalservice.Broadcaster {
	if !s.config.Redis.Enabled() {
		return s.hub
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", s.config.Redis.Host, s.config.Redis.Port),
		Password: s.config.Redis.Password,
		DB:       s.config.Redis.DB,
	})

	bridge := stream.NewRedisBridge(client, s.hub, s.config.Redis.Channel)
	ctx, cancel := context.WithCancel(context.Background())
	s.stopBridge = cancel
	go bridge.Run(ctx)

	return bridge
}

func (s *Server) setupEventHandlers(events *nuts.EventEmitter) {
	s.observe(events, "reading.ingested", "reading_ingested", "reading_id")
	s.observe(events, "session.connected", "session_connected", "session_id")
	s.observe(events, "session.disconnected", "session_disconnected", "session_id")
}

func (s *Server) observe(events *nuts.EventEmitter, event, metric, label string) {
	events.On(event, "monitoring_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				s.monitoring.RecordEvent(metric, map[string]string{label: id})
			}
		}
	})
}
