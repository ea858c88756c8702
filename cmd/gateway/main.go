package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"TrailStore/internal/config"
	"TrailStore/internal/gateway"
	"TrailStore/pkg/kit"
)

func main() {
	service := "gateway"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(map[string]any{"PORT": "8080"})
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET is required and must be at least 32 chars")
	}

	deps := gateway.Deps{
		JWTSecret:  cfg.JWTSecret,
		AuthURL:    cfg.AuthURL,
		CatalogURL: cfg.CatalogURL,
		CartURL:    cfg.CartURL,
		PlansURL:   cfg.PlansURL,
	}

	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
