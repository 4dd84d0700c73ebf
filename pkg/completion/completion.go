package completion

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"mealbot/pkg/config"
)

// Client wraps the completion collaborator behind two calls: a plain
// system+user chat completion and a vision description of raw image bytes.
type Client struct {
	api   osdk.Client
	model string
}

// New validates provider configuration and constructs a client.
func New(cfg config.OpenAIConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:   osdk.NewClient(opts...),
		model: model,
	}, nil
}

// Complete issues one chat completion with a fixed system role and the
// given user content. No conversational history is carried between calls.
func (c *Client) Complete(ctx context.Context, system string, user string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return "", errors.New("user content is required")
	}

	log := clientLogger().With("operation", "complete")
	startedAt := time.Now()
	log.Debug("completion request started", "model", c.model, "content_length", len(user))

	response, err := c.api.Chat.Completions.New(ctx, osdk.ChatCompletionNewParams{
		Model: osdk.ChatModel(c.model),
		Messages: []osdk.ChatCompletionMessageParamUnion{
			osdk.SystemMessage(system),
			osdk.UserMessage(user),
		},
	})
	if err != nil {
		log.Debug("completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", err
	}

	text, err := firstChoiceText(response)
	if err != nil {
		log.Debug("completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", err
	}
	log.Debug("completion request completed", "duration_ms", time.Since(startedAt).Milliseconds(), "response_length", len(text))

	return text, nil
}

// DescribeImage issues one multimodal completion asking for a description
// of the given image bytes, passed inline as a base64 data URL.
func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image bytes are required")
	}

	log := clientLogger().With("operation", "describe_image")
	startedAt := time.Now()
	log.Debug("completion request started", "model", c.model, "image_bytes", len(image))

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	parts := []osdk.ChatCompletionContentPartUnionParam{
		{OfText: &osdk.ChatCompletionContentPartTextParam{Text: prompt}},
		{OfImageURL: &osdk.ChatCompletionContentPartImageParam{
			ImageURL: osdk.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
		}},
	}

	response, err := c.api.Chat.Completions.New(ctx, osdk.ChatCompletionNewParams{
		Model: osdk.ChatModel(c.model),
		Messages: []osdk.ChatCompletionMessageParamUnion{
			{OfUser: &osdk.ChatCompletionUserMessageParam{
				Content: osdk.ChatCompletionUserMessageParamContentUnion{OfArrayOfContentParts: parts},
			}},
		},
	})
	if err != nil {
		log.Debug("completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", err
	}

	text, err := firstChoiceText(response)
	if err != nil {
		log.Debug("completion request failed", "duration_ms", time.Since(startedAt).Milliseconds(), "error", err)
		return "", err
	}
	log.Debug("completion request completed", "duration_ms", time.Since(startedAt).Milliseconds(), "response_length", len(text))

	return text, nil
}

func firstChoiceText(response *osdk.ChatCompletion) (string, error) {
	if response == nil || len(response.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("completion returned no text")
	}

	return text, nil
}

func clientLogger() *slog.Logger {
	return slog.Default().With("component", "completion")
}
