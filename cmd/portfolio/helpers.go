package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/portfolio-site/internal/analysis"
	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/llm"
	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// loadConfig reads the config file and environment, fills zero values from defaults and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(*config.Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or api_key in the config file)")
	}
	client, err := llm.NewClient(ctx, cfg.LLMClientConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newAnalyzer builds the extractor for one instruction language on the configured tier.
func newAnalyzer(client llm.Client, cfg *config.Config, lang types.Language) *analysis.Analyzer {
	return analysis.New(client, analysis.WithTier(cfg.AnalysisTier()), analysis.WithLanguage(lang))
}

// newStore opens the configured session store. The returned close func is never nil.
func newStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	if cfg.Session.Store != "redis" {
		store := session.NewMemoryStore(session.WithMemoryTTL(cfg.Session.TTL))
		return store, store.Close, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
		DB:       cfg.Session.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Session.RedisAddr, err)
	}
	return session.NewRedisStore(client, cfg.Session.TTL), client.Close, nil
}

func parseLanguageFlag(s string) (types.Language, error) {
	lang := types.Language(strings.ToLower(strings.TrimSpace(s)))
	if !lang.Valid() {
		return "", fmt.Errorf("unsupported language %q (use es or en)", s)
	}
	return lang, nil
}
