package openai

import (
	"context"
	"fmt"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/prompts"
	"github.com/mikey/email-reconciler/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ModelName returns the configured model
func (c *OpenAIClient) ModelName() string {
	return c.modelName
}

// ParseRecipient asks the model for the name behind a header segment
func (c *OpenAIClient) ParseRecipient(ctx context.Context, input *core.LLMInput) (*core.LLMExtractionResult, error) {
	raw := c.textProcessor.ProcessText(input.RawInput, c.maxInputSize)
	text, err := c.complete(ctx, prompts.RecipientPrompt(input, raw))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeRecipient(c.textProcessor, text, input.CleanedEmail)
}

// MatchUser asks the model which candidate user the recipient is
func (c *OpenAIClient) MatchUser(ctx context.Context, mc *core.MatchContext) (*core.LLMMatchResult, error) {
	prompt := c.textProcessor.ProcessText(prompts.MatchPrompt(mc), c.maxInputSize*4)
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return prompts.DecodeMatch(c.textProcessor, text, c.modelName)
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompts.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("OpenAI completion",
		zap.String("id", resp.ID),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
