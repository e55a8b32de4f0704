package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/config"
	"github.com/crucial707/dosasset/internal/db"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/handlers"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/logging"
	"github.com/crucial707/dosasset/internal/middleware"
	"github.com/crucial707/dosasset/internal/repo"
	"github.com/crucial707/dosasset/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogFormat, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	kv, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	store := repo.NewInventoryRepo(kv, log)
	inv := inventory.New(store, inventory.WithLogger(log))
	if err := inv.Load(ctx); err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	dl := export.DirDownloader{Dir: cfg.ExportDir}

	if cfg.ExportCron != "" {
		go func() {
			job := scheduler.Snapshot(inv.Assets, dl, nil, log)
			if err := scheduler.Run(ctx, cfg.ExportCron, job, log); err != nil {
				log.Error("snapshot scheduler", zap.Error(err))
			}
		}()
	}

	tls := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(&server{inv: inv, store: store, downloader: dl, cfg: cfg, log: log, hsts: tls}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.Bool("tls", tls), zap.String("store", cfg.StoreDriver))
		if tls {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// server carries what the router needs.
type server struct {
	inv        *inventory.Inventory
	store      pinger
	downloader export.Downloader
	cfg        config.Config
	log        *zap.Logger
	hsts       bool
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer(s.log))
	r.Use(middleware.RequestLog(s.log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(s.hsts))
	r.Use(middleware.CORS(s.cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.log.Warn("readiness check failed", zap.Error(err))
			handlers.JSONError(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	assets := &handlers.AssetHandler{Inv: s.inv, Log: s.log}
	history := &handlers.HistoryHandler{Inv: s.inv}
	data := &handlers.DataHandler{Inv: s.inv, Log: s.log}
	commands := &handlers.CommandHandler{Inv: s.inv, Downloader: s.downloader, Log: s.log}

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT([]byte(s.cfg.JWTSecret)))

		r.Get("/assets", assets.ListAssets)
		r.Get("/assets/{id}", assets.GetAsset)
		r.Get("/stats", assets.Stats)
		r.Get("/history", history.ListHistory)
		r.Get("/export/csv", data.ExportCSV)
		r.Get("/export/json", data.ExportJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
			r.Use(middleware.PerMinute(s.cfg.RateLimitPerMinute))

			r.Post("/assets", assets.CreateAsset)
			r.Patch("/assets/{id}", assets.UpdateAsset)
			r.Post("/assets/{id}/retire", assets.RetireAsset)
			r.Delete("/assets/{id}", assets.DeleteAsset)
			r.Post("/assets/batch/retire", assets.BatchRetire)
			r.Post("/assets/batch/assign", assets.BatchAssign)
			r.Post("/import", data.Import)
			r.Post("/command", commands.Run)
			r.Delete("/data", data.Wipe)
		})
	})

	return r
}
