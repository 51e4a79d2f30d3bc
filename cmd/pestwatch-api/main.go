// @title         Pestwatch API
// @version       0.1.0
// @description   Detection listings, expert verification and analytics for pest reports

package main

import (
	"context"
	"errors"
	"io/fs"
	"os/signal"
	"syscall"
	"time"

	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/modkit/repokit"
	"pestwatch/internal/platform/config"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/metrics"
	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/net/middleware"
	"pestwatch/internal/platform/store"

	"pestwatch/internal/services/api"
	recordsmod "pestwatch/internal/services/records/module"

	"github.com/joho/godotenv"
)

func main() {
	root := config.New()

	// local overrides; a missing file is fine in containers
	if err := godotenv.Load(root.MayString("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Get().Warn().Err(err).Msg("env file not loaded")
	}

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	recOpts := recordsmod.FromConfig(root)
	usePG := recOpts.Driver == recordsmod.DriverPostgres
	useCH := chCfg.MayBool("ENABLED", false)

	pg := store.PGConfig{Enabled: usePG}
	if usePG {
		pg.URL = pgCfg.MustString("DBURL")
		pg.MaxConns = int32(pgCfg.MayInt("MAX_CONNS", 4))
		pg.SlowQuery = pgCfg.MayDuration("SLOW_QUERY", 500*time.Millisecond)
		pg.LogSQL = pgCfg.MayBool("LOG_SQL", false)
		pg.ConnectRetries = pgCfg.MayInt("CONNECT_RETRIES", 6)
		pg.PingTimeout = pgCfg.MayDuration("PING_TIMEOUT", 5*time.Second)
	}
	ch := store.CHConfig{Enabled: useCH}
	if useCH {
		ch.URL = chCfg.MustString("DBURL")
		ch.Role = "api"
	}

	// open the platform store (postgres + optional CH mirror)
	st, err := store.Open(ctx, store.Config{AppName: "pestwatch-api", PG: pg, CH: ch}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	if err := recordsmod.Migrate(ctx, recOpts, st.PG); err != nil {
		l.Panic().Err(err).Msg("schema migration failed")
	}

	reg, err := metrics.New()
	if err != nil {
		l.Panic().Err(err).Msg("metrics registry failed")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(root.Prefix("CORE_"))

	api.Mount(
		srv.Router(),
		api.Options{
			Config:  root,
			Store:   st,
			Logger:  l,
			Metrics: reg,
			Records: recOpts,
			Stack: httpkit.StackOptions{
				CORS:        middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
				MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
				SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
				Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
			},
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		l.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}
}
