package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/config"
	"TrailStore/pkg/kit"
)

func main() {
	service := "auth"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(map[string]any{"PORT": "8081"})
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	var store auth.UserStore
	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		store = auth.NewPostgresStore(db)
		log.Info("using postgres user store")
	} else {
		store = auth.NewMemStore()
		log.Info("using in-memory user store")
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		seedAdmin(log, store, cfg.AdminUsername, cfg.AdminPassword)
	}

	s := &auth.Server{
		Log:   log,
		Store: store,
		JWT:   auth.NewTokenMaker(cfg.JWTSecret),
	}

	h := auth.NewHandler(s, auth.HTTPDeps{
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

func seedAdmin(log *zap.Logger, store auth.UserStore, username, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := "u_" + uuid.NewString()
	err := store.Create(ctx, username, password, auth.RoleAdmin, id)
	switch err {
	case nil:
		log.Info("seeded admin account", zap.String("username", username))
	case auth.ErrUsernameExists:
		// Already seeded on a previous start.
	default:
		log.Fatal("seed admin failed", zap.Error(err))
	}
}
