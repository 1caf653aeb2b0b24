package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	OpenAIKey   string
	OpenAIModel string

	// Gateway do WhatsApp (bridge externo)
	GatewayURL    string
	GatewayToken  string
	WebhookSecret string
}

// Load lê .env se existir e monta a configuração a partir do ambiente.
// DATABASE_URL e OPENAI_API_KEY são obrigatórios.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		GatewayURL:    getEnv("WA_GATEWAY_URL", "http://localhost:3000"),
		GatewayToken:  os.Getenv("WA_GATEWAY_TOKEN"),
		WebhookSecret: os.Getenv("WA_WEBHOOK_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.OpenAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
