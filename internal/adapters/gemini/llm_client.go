package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/prompts"
	"github.com/mikey/email-reconciler/internal/utils"
	"go.uber.org/zap"
)

// GeminiClient is an implementation of the LLMClient interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *GeminiClient {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompts.SystemPrompt)},
	}

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ModelName returns the configured model
func (c *GeminiClient) ModelName() string {
	return c.modelName
}

// ParseRecipient asks the model for the name behind a header segment
func (c *GeminiClient) ParseRecipient(ctx context.Context, input *core.LLMInput) (*core.LLMExtractionResult, error) {
	raw := c.textProcessor.ProcessText(input.RawInput, c.maxInputSize)
	text, err := c.generate(ctx, prompts.RecipientPrompt(input, raw))
	if err != nil {
		return nil, err
	}
	return prompts.DecodeRecipient(c.textProcessor, text, input.CleanedEmail)
}

// MatchUser asks the model which candidate user the recipient is
func (c *GeminiClient) MatchUser(ctx context.Context, mc *core.MatchContext) (*core.LLMMatchResult, error) {
	prompt := c.textProcessor.ProcessText(prompts.MatchPrompt(mc), c.maxInputSize*4)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return prompts.DecodeMatch(c.textProcessor, text, c.modelName)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return responseText(resp.Candidates[0].Content), nil
}

func responseText(content *genai.Content) string {
	var b strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
