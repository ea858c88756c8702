package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/config"
	"TrailStore/internal/plans"
	"TrailStore/pkg/kit"
)

func main() {
	service := "plans"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(map[string]any{"PORT": "8084"})
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	var store plans.Store
	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		store = plans.NewPostgresStore(db)
		log.Info("using postgres plan store")
	} else {
		store = plans.NewMemStore()
		log.Info("using in-memory plan store")
	}

	s := &plans.Server{Store: store, Log: log}

	h := plans.NewHandler(s, plans.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		JWT:            auth.NewTokenMaker(cfg.JWTSecret),
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
