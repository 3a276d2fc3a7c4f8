package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/listings-api/hosted"
	"github.com/yourorg/listings-api/internal/catalog"
	"github.com/yourorg/listings-api/internal/config"
	"github.com/yourorg/listings-api/internal/logger"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("production")
		l.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.Env).With().Str("job", "warmer").Logger()

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR must be provided")
	}

	var src catalog.Source
	switch cfg.DataSource {
	case config.SourcePostgres:
		st, err := store.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store open error")
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("postgres ping error")
		}
		cancel()
		src = st
	default:
		src = hosted.NewClient(hosted.Options{
			BaseURL: cfg.RestURL,
			Key:     cfg.RestKey,
			Timeout: cfg.RequestTimeout,
			RPS:     cfg.RestRPS,
		})
	}

	rdb := redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()

	job := &catalog.WarmJob{
		Service: &catalog.Service{
			Source:     src,
			Cache:      rdb,
			Log:        log,
			CacheTTL:   cfg.CacheTTL,
			StaleAfter: cfg.StaleAfter,
		},
		Log: log,
		Config: catalog.WarmConfig{
			Interval:       cfg.WarmInterval,
			RequestTimeout: cfg.RequestTimeout,
		},
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WarmRunOnce {
		if err := job.RunOnce(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("warm run failed")
		}
		return
	}

	if err := job.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("warm job stopped with error")
	}
}
