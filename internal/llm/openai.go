package llm

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dmforge/dmforge/internal/errors"
)

// DefaultBaseURL points at OpenRouter, which speaks the OpenAI chat
// completions protocol and fronts many models including free tiers
const DefaultBaseURL = "https://openrouter.ai/api/v1"

type openaiClient struct {
	client openai.Client
	model  string
}

// OpenAIConfig contains configuration for the OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL defaults to DefaultBaseURL
	BaseURL string
}

// Validate validates the OpenAIConfig.
func (cfg *OpenAIConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.APIKey == "" {
		vb.RequiredField("api_key")
	}
	if cfg.Model == "" {
		vb.RequiredField("model")
	}
	return vb.Build()
}

// NewOpenAI creates a Client backed by any OpenAI-compatible endpoint
func NewOpenAI(cfg *OpenAIConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &openaiClient{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
		),
		model: cfg.Model,
	}, nil
}

func (c *openaiClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.InvalidArgument("request cannot be nil")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	slog.DebugContext(ctx, "sending completion request",
		"model", c.model,
		"message_count", len(messages),
		"max_tokens", req.MaxTokens)

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "completion request failed")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Internal("completion returned no choices")
	}

	return &Response{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
	}, nil
}
