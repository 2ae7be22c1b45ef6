package config

import (
	"os"
	"time"

	pkgcfg "github.com/Skotchmaster/fieldops/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	AutoMigrate bool

	JWTSecret  []byte
	SessionTTL time.Duration

	CORSOrigins []string
}

func Load() Config {
	cfg := Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "fieldops"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: pkgcfg.EnvDefault("DB_AUTO_MIGRATE", "true") == "true",

		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		SessionTTL: pkgcfg.EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),

		CORSOrigins: pkgcfg.CSV(os.Getenv("CORS_ORIGINS")),
	}

	pkgcfg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}
