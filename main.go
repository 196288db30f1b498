package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialysisdash/adapters/source"
	"dialysisdash/app"
	"dialysisdash/domain/facility"
	"dialysisdash/internal"
	"dialysisdash/internal/config"
	"dialysisdash/internal/metrics"
	"dialysisdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := source.Open(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to open data source: %v", err)
	}
	dataset, report, err := app.NewLoader(src, logger).Load(ctx)
	closeSource()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Info("Loaded %d facilities from %s", report.RowsLoaded, report.Source)

	dashboardOpts := []app.DashboardOption{app.WithPageSize(appConfig.UI.PageSize)}
	serverOpts := []ui.Option{ui.WithLogger(logger)}

	var recorder *metrics.Recorder
	if appConfig.Profiling.MetricsEnabled {
		recorder = metrics.NewRecorder()
		recorder.ObserveLoad(report.RowsLoaded, report.DroppedIncomplete, report.DroppedZeroPatients)
		dashboardOpts = append(dashboardOpts, app.WithBindObserver(recorder))
		serverOpts = append(serverOpts, ui.WithRequestObserver(recorder))
	}

	dashboard := app.NewDashboard(dataset, facility.DefaultCatalog(), dashboardOpts...)
	server, err := ui.NewServer(dashboard, serverOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if ops := opsHandler(appConfig, recorder); ops != nil {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Profiling.Port,
			Handler:           ops,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown %s: %v", srv.Addr, err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// opsHandler serves /metrics and /debug/pprof on the ops port, or nil when
// both are off
func opsHandler(cfg *config.Config, recorder *metrics.Recorder) http.Handler {
	if recorder == nil && !cfg.Profiling.Enabled {
		return nil
	}
	mux := http.NewServeMux()
	if recorder != nil {
		mux.Handle("/metrics", recorder.Handler())
	}
	if cfg.Profiling.Enabled {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}
