package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/yourorg/listings-api/hosted"
	httpapi "github.com/yourorg/listings-api/http"
	httpv1 "github.com/yourorg/listings-api/http/v1"
	"github.com/yourorg/listings-api/internal/catalog"
	"github.com/yourorg/listings-api/internal/config"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/invalidate"
	"github.com/yourorg/listings-api/internal/logger"
	"github.com/yourorg/listings-api/internal/portal"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/refresh"
	"github.com/yourorg/listings-api/internal/store"
)

type source interface {
	catalog.Source
	portal.Source
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("production")
		l.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.Env)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := openSource(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.DataSource).Msg("data source")
	}
	defer closeSrc()

	svc := &catalog.Service{
		Source:     src,
		Log:        log,
		Dev:        cfg.IsDev(),
		CacheTTL:   cfg.CacheTTL,
		StaleAfter: cfg.StaleAfter,
	}
	checks := map[string]httpapi.Pinger{"source": src}

	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(rootCtx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, snapshot cache degraded")
		}
		svc.Cache = rdb
		checks["redis"] = rdb

		refresher := refresh.New(16, cfg.RefreshWorkers, cfg.RequestTimeout, svc.RefreshJob)
		defer refresher.Close()
		svc.Refresher = refresher

		pub := events.NewInMemory(256)
		svc.Pub = pub
		inv := &invalidate.Invalidator{Pub: pub, Cache: svc, Log: log}
		go inv.Run(rootCtx)
	}

	community := &portal.Service{Source: src, Log: log, Dev: cfg.IsDev()}

	router := BuildRouter(log, cfg.RateLimit,
		httpv1.PropertiesDeps{Catalog: svc},
		httpv1.CommunityDeps{Portal: community},
		httpapi.HealthDeps{Checks: checks})
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
	log.Info().Int("port", cfg.Port).Str("source", cfg.DataSource).Msg("listings-api listening")
	if err := serve(rootCtx, srv, ln, 10*time.Second); err != nil {
		log.Error().Err(err).Msg("server")
	}
}

// serve runs srv on ln until ctx is done and returns only after in-flight
// requests have drained or grace ran out, so deferred cleanup never races a
// running handler.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		shutdownDone <- srv.Shutdown(sctx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownDone
}

func openSource(ctx context.Context, cfg *config.Config) (source, func(), error) {
	if cfg.DataSource == config.SourcePostgres {
		st, err := store.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		if cfg.Migrate {
			if err := st.Migrate(pingCtx); err != nil {
				_ = st.Close()
				return nil, nil, err
			}
		}
		return st, func() { _ = st.Close() }, nil
	}
	c := hosted.Shared(hosted.Options{
		BaseURL: cfg.RestURL,
		Key:     cfg.RestKey,
		Timeout: cfg.RequestTimeout,
		RPS:     cfg.RestRPS,
	})
	return c, func() {}, nil
}
