package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
}

func LoadConfig() *Config {
	// .env is optional in production; env vars win either way
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:          os.Getenv("PORT"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	return cfg
}
