package main

import (
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/cart"
	"TrailStore/internal/config"
	"TrailStore/internal/events"
	"TrailStore/pkg/kit"
)

func main() {
	service := "cart"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(map[string]any{
		"PORT":        "8083",
		"CATALOG_URL": "http://localhost:8082",
	})
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	var carts cart.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("parse redis url", zap.Error(err))
		}
		carts = cart.NewRedisStore(redis.NewClient(opts))
		log.Info("using redis cart store")
	} else {
		carts = cart.NewMemStore()
		log.Info("using in-memory cart store")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			log.Fatal("dial amqp", zap.Error(err))
		}
		defer conn.Close()

		publisher, err = events.NewAMQPPublisher(conn)
		if err != nil {
			log.Fatal("init publisher", zap.Error(err))
		}
		defer publisher.Close()
		log.Info("publishing order events")
	}

	s := &cart.Server{
		Carts:   carts,
		Catalog: cart.NewCatalogClient(cfg.CatalogURL),
		Events:  publisher,
		Log:     log,
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
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
