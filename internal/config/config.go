package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Providers ProvidersConfig
	Wizard    WizardConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	MessagesPerMin int
	UploadsPerHour int
}

// ProviderConfig holds credentials for one hosted LLM backend
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type ProvidersConfig struct {
	// Order lists provider names highest priority first
	Order       []string
	Gemini      ProviderConfig
	Groq        ProviderConfig
	MaxAttempts int
	Backoff     time.Duration
}

type WizardConfig struct {
	// HistoryLimit caps how many conversation turns are sent to a provider
	HistoryLimit int
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.messages_per_min", 60)
	viper.SetDefault("ratelimit.uploads_per_hour", 50)
	viper.SetDefault("providers.order", []string{"gemini", "groq"})
	viper.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("providers.gemini.api_key", "")
	viper.SetDefault("providers.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("providers.groq.api_key", "")
	viper.SetDefault("providers.groq.model", "llama-3.3-70b-versatile")
	viper.SetDefault("providers.max_attempts", 3)
	viper.SetDefault("providers.backoff_seconds", 2)
	viper.SetDefault("wizard.history_limit", 30)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			MessagesPerMin: viper.GetInt("ratelimit.messages_per_min"),
			UploadsPerHour: viper.GetInt("ratelimit.uploads_per_hour"),
		},
		Providers: ProvidersConfig{
			Order: viper.GetStringSlice("providers.order"),
			Gemini: ProviderConfig{
				BaseURL: viper.GetString("providers.gemini.base_url"),
				APIKey:  viper.GetString("providers.gemini.api_key"),
				Model:   viper.GetString("providers.gemini.model"),
			},
			Groq: ProviderConfig{
				BaseURL: viper.GetString("providers.groq.base_url"),
				APIKey:  viper.GetString("providers.groq.api_key"),
				Model:   viper.GetString("providers.groq.model"),
			},
			MaxAttempts: viper.GetInt("providers.max_attempts"),
			Backoff:     time.Duration(viper.GetInt("providers.backoff_seconds")) * time.Second,
		},
		Wizard: WizardConfig{
			HistoryLimit: viper.GetInt("wizard.history_limit"),
		},
	}

	return cfg, nil
}
