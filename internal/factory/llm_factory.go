package factory

import (
	"fmt"

	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/pipeline"
	"github.com/mikey/email-reconciler/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates the configured LLM client behind the shared rate
// limiter. It returns nil when no provider is configured.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	var client core.LLMClient
	switch llmConfig.Provider {
	case "", "none":
		f.logger.Info("No LLM provider configured, using structural extraction only")
		return nil, nil
	case "bedrock":
		client, err = NewBedrockFactory(f.cfg, f.logger, f.textProcessor).CreateLLMClient()
	case "gemini":
		client, err = NewGeminiFactory(f.cfg, f.logger, f.textProcessor).CreateLLMClient()
	case "openai":
		client, err = NewOpenAIFactory(f.cfg, f.logger, f.textProcessor).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("LLM client created",
		zap.String("provider", llmConfig.Provider),
		zap.String("model", client.ModelName()),
		zap.Float64("rate_limit", llmConfig.RateLimit))
	return pipeline.NewRateLimitedClient(client, llmConfig.RateLimit, llmConfig.Burst), nil
}
