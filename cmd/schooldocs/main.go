package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gosuda/schooldocs/internal/config"
	"github.com/gosuda/schooldocs/internal/render"
	"github.com/gosuda/schooldocs/internal/server"
	"github.com/gosuda/schooldocs/internal/store/postgres"
	redisstore "github.com/gosuda/schooldocs/internal/store/redis"
	"github.com/gosuda/schooldocs/internal/templates"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(cfg.Log.Level)
	if cfg.Log.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	probes := map[string]server.Pinger{"postgres": store}
	var opts []templates.Option

	// Without the cache, templates are read straight from Postgres and no
	// change events are published.
	if cfg.Cache.Enabled {
		cache, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TemplateTTL)
		if redisErr != nil {
			return redisErr
		}
		defer cache.Close()

		opts = append(opts, templates.WithCache(cache), templates.WithPublisher(cache))
		probes["redis"] = cache
	}

	svc := templates.NewService(store.Templates(), store.Audit(), opts...)

	raster := render.NewChromeRasterizer(render.ChromeOptions{
		BrowserBin:    cfg.Render.BrowserBin,
		NoSandbox:     cfg.Render.NoSandbox,
		Timeout:       cfg.Render.Timeout,
		MaxConcurrent: cfg.Render.MaxConcurrent,
	})
	engine := render.NewEngine(svc, raster)

	srv := server.New(ctx, cfg, server.Deps{
		Store:     store,
		Templates: svc,
		Renderer:  engine,
		Probes:    probes,
	})

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Int("render_slots", cfg.Render.MaxConcurrent).
			Bool("cache", cfg.Cache.Enabled).
			Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// In-flight renders may hold a browser for up to the render timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Render.Timeout+5*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
