package text

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workshop/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	Temperature  float32
	HTTPClient   *http.Client
	OnWarning    func(reason, detail string)
}

// OpenAI calls the chat completions API in JSON mode.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

const (
	openAIDefaultTimeout     = 30 * time.Second
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultOpenAITemperature = 0.7
)

var openAIModelAliases = map[string]string{
	"gpt4o-mini":   "gpt-4o-mini",
	"gpt4omini":    "gpt-4o-mini",
	"gpt-4o":       "gpt-4o",
	"gpt4o":        "gpt-4o",
	"gpt-3.5":      "gpt-3.5-turbo",
	"gpt3.5":       "gpt-3.5-turbo",
	"gpt-35-turbo": "gpt-3.5-turbo",
}

func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: openAIDefaultTimeout}
	}
	model, reason := normalizeOpenAIModel(opts.Model)
	if reason != "" && opts.OnWarning != nil {
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", opts.Model, model))
	}
	temp := opts.Temperature
	if temp <= 0 {
		temp = defaultOpenAITemperature
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model, temperature: temp}, nil
}

func (o *OpenAI) Name() string { return openAIProviderName }

func (o *OpenAI) Suggest(ctx context.Context, req Request) (*domain.TextOverride, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		return nil, domain.NewProviderError(openAIProviderName, "chat_completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewProviderError(openAIProviderName, "chat_completion", errors.New("no choices returned"))
	}
	out, err := parseOverride(openAIProviderName, resp.Choices[0].Message.Content)
	if err != nil {
		return nil, domain.NewProviderError(openAIProviderName, "decode", err)
	}
	return out, nil
}

// normalizeOpenAIModel resolves aliases. The reason is "alias" when an alias
// was rewritten and empty otherwise.
func normalizeOpenAIModel(input string) (string, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return defaultOpenAIModel, ""
	}
	key := strings.ToLower(strings.Join(strings.Fields(trimmed), "-"))
	if resolved, ok := openAIModelAliases[key]; ok {
		if resolved == trimmed {
			return resolved, ""
		}
		return resolved, "alias"
	}
	return trimmed, ""
}
