package internal

import (
	"context"
	"fmt"
	"moneyprint/internal/bootstrap"
	"moneyprint/internal/controllers"
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/providers"
	"moneyprint/internal/storage"
	storageInterfaces "moneyprint/internal/storage/interfaces"
	"moneyprint/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/multierr"
)

type App struct {
	WebServer *http.Server
}

// NewHandler assembles the HTTP surface: instrumented API routes, health and metrics.
func NewHandler(conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, healthController *controllers.HealthController) http.Handler {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	router.Mount(apiMux)

	instrumentedAPI := providers.AccessMiddleware(logger, metrics, router.GetRoutes(), apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	if len(conf.WebServer.AllowedOrigins) == 0 {
		return mux
	}
	return cors.New(cors.Options{
		AllowedOrigins: conf.WebServer.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

// prepare brings storage and schedules to a servable state.
func prepare(conf *structures.Config, logger providers.Logger, store storageInterfaces.StoreInterface, archiver *storage.Archiver, assets *bootstrap.Assets, scheduler interfaces.SchedulerInterface) error {
	if err := store.Init(); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if conf.RestoreFrom != "" {
		if err := archiver.Restore(conf.RestoreFrom); err != nil {
			return fmt.Errorf("restore %s: %w", conf.RestoreFrom, err)
		}
	}
	if err := assets.Ensure(context.Background()); err != nil {
		logger.Errorf(providers.TypeApp, "Asset download failed: %s", err)
	}
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	return nil
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, store storageInterfaces.StoreInterface, archiver *storage.Archiver, assets *bootstrap.Assets, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	defer archiver.Close()

	if err := prepare(conf, logger, store, archiver, assets, scheduler); err != nil {
		return nil, err
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(conf, logger, router, metrics, healthController),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.Publisher.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		return nil, fmt.Errorf("server error: %w", err)
	}

	// waits for in-flight firings
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := multierr.Append(app.WebServer.Shutdown(ctx), scheduler.Persist())
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
