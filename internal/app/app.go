package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/metrics"
	"github.com/MrSnakeDoc/marks/internal/sources/seed"
	"github.com/MrSnakeDoc/marks/internal/utils"
	"github.com/MrSnakeDoc/marks/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	store  domain.Repository
	server *httpserver.Server
}

// New opens the store, imports the seed file if one is configured and builds
// the HTTP server. Nothing listens until Run.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("store initialized", logger.String("store", cfg.Store))

	validator := domain.NewValidator(log)
	sanitizer := domain.NewSanitizer()

	if cfg.SeedFile != "" {
		res, err := seed.NewImporter(store, validator, sanitizer, log).ImportFile(ctx, cfg.SeedFile)
		if err != nil {
			utils.CloseLogged(store, log, "store")
			return nil, fmt.Errorf("failed to import seed file: %w", err)
		}
		log.Info("seed file imported",
			logger.String("file", cfg.SeedFile),
			logger.Int("imported", res.Imported),
			logger.Int("skipped", res.Skipped))
	}

	d := deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Store:        store,
		Validator:    validator,
		Sanitizer:    sanitizer,
		Metrics:      metrics.New(),
	}

	return &App{
		cfg:    cfg,
		logger: log,
		store:  store,
		server: httpserver.New(cfg, d),
	}, nil
}

// Run serves until SIGINT/SIGTERM (or ctx is cancelled), then shuts down
// within cfg.ShutdownTimeout and closes the store.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer utils.CloseLogged(a.store, a.logger, "store")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ marks stopped cleanly")
	return nil
}
