package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/catalog"
	"TrailStore/internal/config"
	"TrailStore/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(map[string]any{"PORT": "8082"})
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	var store catalog.Store
	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		store = catalog.NewPostgresStore(db)
		log.Info("using postgres catalog store")
	} else {
		store = catalog.NewMemStore()
		log.Info("using in-memory catalog store")
	}

	s := &catalog.Server{
		Store: store,
		Log:   log,
		JWT:   auth.NewTokenMaker(cfg.JWTSecret),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
