// @title         Dragoman API
// @version       0.1.0
// @description   Script-pure legal translation with automated contamination recovery

package main

import (
	"context"

	"dragoman/internal/platform/config"
	"dragoman/internal/platform/logger"
	phttp "dragoman/internal/platform/net/http"
	"dragoman/internal/platform/store"

	"dragoman/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// open the platform store; feedback persistence needs Postgres and
	// the outcome sink needs ClickHouse, both optional for local runs
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chURL != "",
				URL:        chURL,
				ClientName: "dragoman",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount the pipeline
	sys := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the fix worker turns contamination reports into rule updates
	if sys.Feedback != nil {
		go func() {
			if err := sys.Feedback.Run(ctx); err != nil && ctx.Err() == nil {
				l.Error().Err(err).Msg("feedback worker stopped")
			}
		}()
	}

	// scheduled regression replay catches drift between rule changes
	go func() {
		if err := sys.Regression.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("regression replay stopped")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
