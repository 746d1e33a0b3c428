// Package config provides configuration loading and validation for the portfolio service and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-site/internal/llm"
	"github.com/jonathan/portfolio-site/internal/server/ratelimit"
	"github.com/spf13/viper"
)

// Config is the full service configuration. Values come from defaults, an optional
// config file (yaml or json), then environment variables prefixed PORTFOLIO_.
// The API key is also read from GEMINI_API_KEY.
type Config struct {
	APIKey    string          `mapstructure:"api_key"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=gemini gemini-rest"`
	Tier     string        `mapstructure:"tier" validate:"oneof=lite standard advanced"`
	Model    string        `mapstructure:"model"` // overrides the model of the configured tier
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type SessionConfig struct {
	Store         string        `mapstructure:"store" validate:"oneof=memory redis"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Store redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type RateLimitConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AnalyzePerMinute int      `mapstructure:"analyze_per_minute" validate:"gte=0"`
	DefaultPerMinute int      `mapstructure:"default_per_minute" validate:"gte=0"`
	Whitelist        []string `mapstructure:"whitelist"`
	Blacklist        []string `mapstructure:"blacklist"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.secure_cookie", false)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("llm.provider", string(llm.ProviderGeminiREST))
	v.SetDefault("llm.tier", string(llm.TierStandard))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", llm.DefaultBaseURL)
	v.SetDefault("llm.timeout", llm.DefaultTimeout.String())

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_addr", "")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.ttl", "24h")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.analyze_per_minute", 10)
	v.SetDefault("ratelimit.default_per_minute", 300)
	v.SetDefault("ratelimit.whitelist", []string{})
	v.SetDefault("ratelimit.blacklist", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return &cfg
}

// Load reads configuration. With an empty path it looks for an optional
// portfolio.{yaml,json} in the working directory; with a path the file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "PORTFOLIO_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("portfolio")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// The API key is not required here; commands that call the model check it themselves.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check", strings.ToLower(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Server.ShutdownTimeout == 0 {
		result.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}

	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Tier == "" {
		result.LLM.Tier = defaults.LLM.Tier
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.BaseURL == "" {
		result.LLM.BaseURL = defaults.LLM.BaseURL
	}
	if result.LLM.Timeout == 0 {
		result.LLM.Timeout = defaults.LLM.Timeout
	}

	if result.Session.Store == "" {
		result.Session.Store = defaults.Session.Store
	}
	if result.Session.RedisAddr == "" {
		result.Session.RedisAddr = defaults.Session.RedisAddr
	}
	if result.Session.RedisPassword == "" {
		result.Session.RedisPassword = defaults.Session.RedisPassword
	}
	if result.Session.RedisDB == 0 {
		result.Session.RedisDB = defaults.Session.RedisDB
	}
	if result.Session.TTL == 0 {
		result.Session.TTL = defaults.Session.TTL
	}

	if result.RateLimit.AnalyzePerMinute == 0 {
		result.RateLimit.AnalyzePerMinute = defaults.RateLimit.AnalyzePerMinute
	}
	if result.RateLimit.DefaultPerMinute == 0 {
		result.RateLimit.DefaultPerMinute = defaults.RateLimit.DefaultPerMinute
	}
	if result.RateLimit.Whitelist == nil {
		result.RateLimit.Whitelist = defaults.RateLimit.Whitelist
	}
	if result.RateLimit.Blacklist == nil {
		result.RateLimit.Blacklist = defaults.RateLimit.Blacklist
	}

	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMClientConfig builds the model client configuration.
func (c *Config) LLMClientConfig() *llm.Config {
	var cfg *llm.Config
	if llm.Provider(c.LLM.Provider) == llm.ProviderGemini {
		cfg = llm.DefaultGeminiConfig()
	} else {
		cfg = llm.DefaultConfig()
	}
	if c.LLM.BaseURL != "" {
		cfg = cfg.WithBaseURL(c.LLM.BaseURL)
	}
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(c.AnalysisTier(), c.LLM.Model)
	}
	cfg.Timeout = c.LLM.Timeout
	return cfg
}

// AnalysisTier is the model tier used for screenshot extraction.
func (c *Config) AnalysisTier() llm.ModelTier {
	if c.LLM.Tier == "" {
		return llm.TierStandard
	}
	return llm.ModelTier(c.LLM.Tier)
}

// RateLimiterConfig builds the limiter configuration for the HTTP server.
func (c *Config) RateLimiterConfig() *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Enabled = c.RateLimit.Enabled
	if c.RateLimit.DefaultPerMinute > 0 {
		rl.DefaultLimit = c.RateLimit.DefaultPerMinute
	}
	if c.RateLimit.AnalyzePerMinute > 0 {
		rl.EndpointConfigs = ratelimit.AnalyzeEndpointConfigs(c.RateLimit.AnalyzePerMinute, time.Minute)
	}
	rl.Whitelist = ratelimit.IPSet(c.RateLimit.Whitelist)
	rl.Blacklist = ratelimit.IPSet(c.RateLimit.Blacklist)
	return rl
}
