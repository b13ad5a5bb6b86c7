package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/chat"
	"github.com/kcruz3/bubbl/internal/config"
	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/middleware"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/service"
	"github.com/kcruz3/bubbl/internal/storage/driver"
	"github.com/kcruz3/bubbl/internal/swipe"
	"github.com/kcruz3/bubbl/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet
		logging.Setup().Error("Failed to load configuration", "error", err)
		return err
	}

	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logging.Setup().Error("Invalid log level", "level", cfg.Logging.Level, "error", err)
		return err
	}
	logger := logging.SetupWithLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := driver.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.Database.Driver)

	engine := grouping.NewEngine(store, cfg.GroupingEngine(), logger.With("component", "grouping"))
	logger.Info("Grouping engine ready", "threshold", engine.Threshold())
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	routes := service.Routes(service.Deps{
		Users:         store,
		Events:        store,
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWT:           jwtManager,
		Intake:        swipe.NewIntake(engine, cfg.SwipePolicy(), logger.With("component", "swipe")),
		Scorer:        recommend.NewScorer(store, cfg.Scorer(), logger.With("component", "recommend")),
		Chat:          chat.NewService(store, logger.With("component", "chat")),
		SwipeLimiter:  middleware.NewRateLimiter(cfg.Server.SwipeRatePerSecond, cfg.Server.SwipeBurst),
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))

	for _, route := range routes {
		r.Mount(route.Path, route.Handler)
		logger.Debug("Registered service", "path", route.Path)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			logger.Warn("Readiness check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// h2c serves HTTP/2 without TLS for Connect clients
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      h2c.NewHandler(r, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
