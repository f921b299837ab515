package config

import (
	"time"
)

// LLMConfig represents the provider-independent LLM settings
type LLMConfig struct {
	Provider  string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region       string
	ModelID      string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey       string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// OpenAIConfig represents the configuration for OpenAI or a compatible API
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	ModelName    string
	MaxTokens    int
	Temperature  float32
	TopP         float32
	MaxInputSize int
}

// ReconcileConfig holds the decision bands
type ReconcileConfig struct {
	LinkThreshold   float64
	CreateThreshold float64
}

// ExtractionConfig holds the validator settings
type ExtractionConfig struct {
	HighThreshold   float64
	MediumThreshold float64
	MaxNameLength   int
}

// BatchConfig holds the batch processor settings
type BatchConfig struct {
	Size        int
	Concurrency int
	Interval    time.Duration
}

// StoreConfig selects the user directory and msg_emails database
type StoreConfig struct {
	Driver string
	DSN    string
}

// CacheConfig holds the domain pattern cache settings
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// IntakeConfig holds the SMTP intake settings
type IntakeConfig struct {
	Type           string
	ListenAddress  string
	Domain         string
	MaxMessageSize int64
	MaxRecipients  int
	Timeout        time.Duration
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, err
	}
	return LLMConfig{
		Provider:  c.GetString("llm.provider"),
		Timeout:   timeout,
		RateLimit: c.GetFloat64("llm.rate_limit"),
		Burst:     c.GetInt("llm.burst"),
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:       c.GetString("bedrock.region"),
		ModelID:      c.GetString("bedrock.model_id"),
		MaxTokens:    c.GetInt("bedrock.max_tokens"),
		Temperature:  float32(c.GetFloat64("bedrock.temperature")),
		TopP:         float32(c.GetFloat64("bedrock.top_p")),
		MaxInputSize: c.GetInt("bedrock.max_input_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:       c.GetString("gemini.api_key"),
		ModelName:    c.GetString("gemini.model_name"),
		MaxTokens:    c.GetInt("gemini.max_tokens"),
		Temperature:  float32(c.GetFloat64("gemini.temperature")),
		TopP:         float32(c.GetFloat64("gemini.top_p")),
		MaxInputSize: c.GetInt("gemini.max_input_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       c.GetString("openai.api_key"),
		BaseURL:      c.GetString("openai.base_url"),
		ModelName:    c.GetString("openai.model_name"),
		MaxTokens:    c.GetInt("openai.max_tokens"),
		Temperature:  float32(c.GetFloat64("openai.temperature")),
		TopP:         float32(c.GetFloat64("openai.top_p")),
		MaxInputSize: c.GetInt("openai.max_input_size"),
	}
}

// GetReconcile returns the reconciliation thresholds
func (c *Config) GetReconcile() ReconcileConfig {
	return ReconcileConfig{
		LinkThreshold:   c.GetFloat64("reconcile.link_threshold"),
		CreateThreshold: c.GetFloat64("reconcile.create_threshold"),
	}
}

// GetExtraction returns the validator settings
func (c *Config) GetExtraction() ExtractionConfig {
	return ExtractionConfig{
		HighThreshold:   c.GetFloat64("extraction.high_threshold"),
		MediumThreshold: c.GetFloat64("extraction.medium_threshold"),
		MaxNameLength:   c.GetInt("extraction.max_name_length"),
	}
}

// GetBatch returns the batch processor settings
func (c *Config) GetBatch() (BatchConfig, error) {
	interval, err := c.GetDuration("batch.interval")
	if err != nil {
		return BatchConfig{}, err
	}
	return BatchConfig{
		Size:        c.GetInt("batch.size"),
		Concurrency: c.GetInt("batch.concurrency"),
		Interval:    interval,
	}, nil
}

// GetStore returns the database settings
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Driver: c.GetString("store.driver"),
		DSN:    c.GetString("store.dsn"),
	}
}

// GetCache returns the pattern cache settings
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetIntake returns the intake settings
func (c *Config) GetIntake() (IntakeConfig, error) {
	timeout, err := c.GetDuration("intake.timeout")
	if err != nil {
		return IntakeConfig{}, err
	}
	return IntakeConfig{
		Type:           c.GetString("intake.type"),
		ListenAddress:  c.GetString("intake.listen_address"),
		Domain:         c.GetString("intake.domain"),
		MaxMessageSize: c.GetInt64("intake.max_message_size"),
		MaxRecipients:  c.GetInt("intake.max_recipients"),
		Timeout:        timeout,
	}, nil
}

// GetSharedDomains returns the configured shared mail domains
func (c *Config) GetSharedDomains() []string {
	return c.GetStringSlice("shared_domains")
}
