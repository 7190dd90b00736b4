package analysis

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"adgen/internal/domain"
	"adgen/internal/genjson"
	"adgen/internal/media"
)

// OpenAIOptions configures the OpenAI-backed analyzer.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIAnalyzer speaks the OpenAI chat-completion API as an alternative to
// Gemini. The image travels as a data URL in a multimodal user message.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer(opts OpenAIOptions) (*OpenAIAnalyzer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("openai: %w: OPENAI_API_KEY", domain.ErrMissingCredential)
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (o *OpenAIAnalyzer) Analyze(ctx context.Context, img *media.EncodedImage) (*domain.ImageAnalysis, error) {
	if img == nil {
		return nil, domain.ErrUnreadableImage
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIME, img.Base64)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: analysisInstruction},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("analyze image: %w: no choices", domain.ErrProviderFailure)
	}
	text := resp.Choices[0].Message.Content
	payload, err := genjson.Decode[analysisPayload](text)
	if err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return payload.toDomain(text), nil
}

var _ Analyzer = (*OpenAIAnalyzer)(nil)
