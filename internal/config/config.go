// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	DBURL          string `mapstructure:"DB_URL"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	GithubWebhookSecret string `mapstructure:"GITHUB_WEBHOOK_SECRET"`
	GithubAPIURL        string `mapstructure:"GITHUB_API_URL"`
	GithubAppID         string `mapstructure:"GITHUB_APP_ID"`
	GithubAppPrivateKey string `mapstructure:"GITHUB_APP_PRIVATE_KEY"`

	LLMProvider  string        `mapstructure:"LLM_PROVIDER"`
	LLMBaseURL   string        `mapstructure:"LLM_BASE_URL"`
	LLMModel     string        `mapstructure:"LLM_MODEL"`
	LLMAPIKey    string        `mapstructure:"LLM_API_KEY"`
	LLMTimeout   time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMMaxTokens int           `mapstructure:"LLM_MAX_TOKENS"`

	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET"`
	AuthJWTIssuer string `mapstructure:"AUTH_JWT_ISSUER"`

	GenerationRepoCap int           `mapstructure:"GENERATION_REPO_CAP"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SyncConcurrency   int           `mapstructure:"SYNC_CONCURRENCY"`
}

var defaults = map[string]any{
	"LOG_LEVEL":              "info",
	"HTTP_ADDR":              ":8080",
	"DB_URL":                 "",
	"MIGRATIONS_PATH":        "file://migrations",
	"GITHUB_WEBHOOK_SECRET":  "",
	"GITHUB_API_URL":         "https://api.github.com/",
	"GITHUB_APP_ID":          "",
	"GITHUB_APP_PRIVATE_KEY": "",
	"LLM_PROVIDER":           "openai",
	"LLM_BASE_URL":           "",
	"LLM_MODEL":              "",
	"LLM_API_KEY":            "",
	"LLM_TIMEOUT":            "120s",
	"LLM_MAX_TOKENS":         4096,
	"AUTH_JWT_SECRET":        "",
	"AUTH_JWT_ISSUER":        "",
	"GENERATION_REPO_CAP":    3,
	"REQUEST_TIMEOUT":        "180s",
	"SYNC_CONCURRENCY":       5,
}

// LoadConfig reads configuration from a .env file in dir (if present) and the
// environment, which takes precedence.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Every key gets a default so AutomaticEnv picks it up on Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // Ignore error if file not found

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Keys pasted into a single-line env var arrive with literal \n.
	cfg.GithubAppPrivateKey = strings.ReplaceAll(cfg.GithubAppPrivateKey, `\n`, "\n")
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GithubAppConfigured reports whether push syncs can mint App tokens.
func (c *Config) GithubAppConfigured() bool {
	return c.GithubAppID != "" && c.GithubAppPrivateKey != ""
}

func (c *Config) validate() error {
	var errs []error
	if c.DBURL == "" {
		errs = append(errs, errors.New("DB_URL is a required configuration field"))
	}
	if c.GithubWebhookSecret == "" {
		errs = append(errs, errors.New("GITHUB_WEBHOOK_SECRET is a required configuration field"))
	}
	switch c.LLMProvider {
	case "openai":
		if c.LLMBaseURL == "" {
			errs = append(errs, errors.New("LLM_BASE_URL is required for the openai provider"))
		}
	case "anthropic":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be 'openai' or 'anthropic', got %q", c.LLMProvider))
	}
	if c.LLMModel == "" {
		errs = append(errs, errors.New("LLM_MODEL is a required configuration field"))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT must be positive"))
	}
	if c.LLMMaxTokens <= 0 {
		errs = append(errs, errors.New("LLM_MAX_TOKENS must be positive"))
	}
	if len(c.AuthJWTSecret) < 16 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 16 characters"))
	}
	if c.GenerationRepoCap < 0 {
		errs = append(errs, errors.New("GENERATION_REPO_CAP must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.SyncConcurrency <= 0 {
		errs = append(errs, errors.New("SYNC_CONCURRENCY must be positive"))
	}
	return errors.Join(errs...)
}
