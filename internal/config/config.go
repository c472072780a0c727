package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"smartcal/internal/logger"
)

// WeatherConfig holds the OpenWeatherMap tool settings
type WeatherConfig struct {
	APIURL         string        `envconfig:"WEATHER_API_URL"`
	APIKey         string        `envconfig:"WEATHER_API_KEY"`
	Location       string        `envconfig:"LOCATION" default:"Park Forest,IL,US"`
	TempThreshold  float64       `envconfig:"TEMP_THRESHOLD" default:"50"`
	DurationChecks int           `envconfig:"DURATION_CHECKS" default:"4"` // 2hrs @30min
	CheckInterval  time.Duration `envconfig:"CHECK_INTERVAL" default:"30m"`
	Timeout        time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
}

// ModelConfig holds the chat model settings used by the reasoning node
type ModelConfig struct {
	Provider      string  `envconfig:"MODEL_PROVIDER" default:"ollama"`
	Model         string  `envconfig:"MODEL" default:"phi3:mini"`
	OllamaURL     string  `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OpenAIBaseURL string  `envconfig:"OPENAI_BASE_URL"`
	OpenAIAPIKey  string  `envconfig:"OPENAI_API_KEY"`
	MaxTokens     int     `envconfig:"MODEL_MAX_TOKENS" default:"256"`
	Temperature   float64 `envconfig:"MODEL_TEMPERATURE" default:"0.1"`
}

// TrackingConfig holds the MLflow tracking server settings
type TrackingConfig struct {
	URI        string `envconfig:"MLFLOW_URI" default:"http://localhost:5000"`
	Experiment string `envconfig:"MLFLOW_EXPERIMENT" default:"/smartcal1"` // MLFlow path-style
}

// StoreConfig holds the SQLite database settings
type StoreConfig struct {
	DBPath string `envconfig:"DB_PATH" default:"/data/smartcal.db"`
}

// NotifyConfig holds the reminder delivery settings
type NotifyConfig struct {
	DiscordWebhookURL string        `envconfig:"DISCORD_WEBHOOK_URL"`
	CooldownTTL       time.Duration `envconfig:"REMINDER_COOLDOWN" default:"40m"`
}

// RedisConfig holds the optional reminder cooldown cache settings
type RedisConfig struct {
	URL string `envconfig:"REDIS_URL"`
}

// Config is the full application configuration.
// Environment variables (k8s env vars or a local .env) are the source of
// truth; an explicitly passed config file overlays the tuning knobs.
type Config struct {
	Log      logger.Config  `envconfig:""`
	Weather  WeatherConfig  `envconfig:""`
	Model    ModelConfig    `envconfig:""`
	Tracking TrackingConfig `envconfig:""`
	Store    StoreConfig    `envconfig:""`
	Notify   NotifyConfig   `envconfig:""`
	Redis    RedisConfig    `envconfig:""`
}

// Load builds the configuration from the process environment
func Load() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}
