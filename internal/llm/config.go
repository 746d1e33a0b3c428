// Package llm provides centralized LLM configuration and client abstractions.
// The portfolio only needs vision extraction, but tiers keep model choice out of call sites.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short extraction
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction from images and text
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM transport
type Provider string

// Provider constants define supported LLM transports
const (
	// ProviderGemini talks to Gemini through the generative-ai-go SDK
	ProviderGemini Provider = "gemini"
	// ProviderGeminiREST posts generateContent requests directly, with the key as a query parameter
	ProviderGeminiREST Provider = "gemini-rest"
)

// DefaultBaseURL is the public Gemini API host used by the REST provider.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultTimeout bounds a single inference round trip.
const DefaultTimeout = 60 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	// BaseURL overrides the REST endpoint host. Useful for proxies and tests.
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (Gemini over REST)
func DefaultConfig() *Config {
	cfg := DefaultGeminiConfig()
	cfg.Provider = ProviderGeminiREST
	return cfg
}

// DefaultGeminiConfig returns the default Gemini SDK configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithBaseURL returns a new Config pointing the REST provider at baseURL
func (c *Config) WithBaseURL(baseURL string) *Config {
	newConfig := c.clone()
	newConfig.BaseURL = baseURL
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}
