package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI-backed translator.
type OpenAIConfig struct {
	// APIKey is required.
	APIKey string

	// Model defaults to gpt-4o-mini.
	Model string

	// TargetLang is the language name or code to translate into. Default: "en".
	TargetLang string
}

func (c *OpenAIConfig) defaults() {
	if c.Model == "" {
		c.Model = openai.GPT4oMini
	}
	if c.TargetLang == "" {
		c.TargetLang = "en"
	}
}

// OpenAI translates review text through a chat completion. The model does
// not report the detected source language, so Translate always returns
// "auto" as the source.
type OpenAI struct {
	cfg    OpenAIConfig
	client *openai.Client
}

// NewOpenAI creates an OpenAI translator.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("translate: OpenAI API key is required")
	}
	cfg.defaults()
	return &OpenAI{
		cfg:    cfg,
		client: openai.NewClient(cfg.APIKey),
	}, nil
}

// Translate implements Translator.
func (o *OpenAI) Translate(ctx context.Context, text string) (string, string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Translate the following customer review into %s. Respond with only the translation, nothing else.\n\n%s",
					o.cfg.TargetLang, text),
			},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("translate: no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), "auto", nil
}
