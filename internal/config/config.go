package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the assessment API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	OpenAIAPIKey      string
	OpenAIModel       string
	GatewayTimeout    time.Duration
	SessionLength     int
	DefaultDifficulty string
	HistoryCacheTTL   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production hardening,
// which suppresses debug detail on normalization failures.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKILLCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SkillCheck API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("session.length", 10)
	v.SetDefault("session.difficulty", "easy")
	v.SetDefault("history.cache_ttl", "2m")

	timeoutString := v.GetString("gateway.timeout")
	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	ttlString := v.GetString("history.cache_ttl")
	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid history cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		OpenAIAPIKey:      v.GetString("openai.api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		GatewayTimeout:    timeout,
		SessionLength:     v.GetInt("session.length"),
		DefaultDifficulty: strings.ToLower(v.GetString("session.difficulty")),
		HistoryCacheTTL:   ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SessionLength <= 0 {
		cfg.SessionLength = 10
	}

	return cfg, nil
}
