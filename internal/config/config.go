// Package config loads service configuration from the environment. Every
// key gets a default so a service starts with in-memory backends and dev
// settings when nothing is set; deployments override via env vars.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	AMQPURL     string `mapstructure:"AMQP_URL"`

	AuthURL    string `mapstructure:"AUTH_URL"`
	CatalogURL string `mapstructure:"CATALOG_URL"`
	CartURL    string `mapstructure:"CART_URL"`
	PlansURL   string `mapstructure:"PLANS_URL"`

	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`
	MetricsToken   string `mapstructure:"METRICS_TOKEN"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var baseDefaults = map[string]any{
	"PORT":            "8080",
	"JWT_SECRET":      "dev-secret",
	"DATABASE_DSN":    "",
	"REDIS_URL":       "",
	"AMQP_URL":        "",
	"AUTH_URL":        "http://auth:8081",
	"CATALOG_URL":     "http://catalog:8082",
	"CART_URL":        "http://cart:8083",
	"PLANS_URL":       "http://plans:8084",
	"METRICS_ENABLED": false,
	"METRICS_TOKEN":   "",
	"ADMIN_USERNAME":  "",
	"ADMIN_PASSWORD":  "",
}

// Load reads the environment with the given per-service default overrides.
func Load(overrides map[string]any) (Config, error) {
	v := viper.New()

	for key, def := range baseDefaults {
		v.SetDefault(key, def)
	}
	for key, def := range overrides {
		v.SetDefault(key, def)
	}
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
