package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	LabelBrand  string // brand header printed on roast labels
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=coffeeflow port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LabelBrand:  getEnv("LABEL_BRAND", "Minuto Coffee"),
	}

	// Production safety checks
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set. Required in production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters long.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=coffeeflow port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
