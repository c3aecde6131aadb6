package text

import (
	"context"
	"net/http"
	"strings"
	"time"

	"workshop/internal/domain"

	"google.golang.org/genai"
)

type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	HTTPClient  *http.Client
}

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

const (
	geminiDefaultTimeout     = 30 * time.Second
	defaultGeminiModel       = "gemini-2.0-flash"
	defaultGeminiTemperature = 0.7
)

func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: geminiDefaultTimeout}
	}
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, domain.NewProviderError(geminiProviderName, "init", err)
	}
	temp := opts.Temperature
	if temp <= 0 {
		temp = defaultGeminiTemperature
	}
	return &Gemini{
		client:      client,
		model:       coalesce(opts.Model, defaultGeminiModel),
		temperature: temp,
	}, nil
}

func (g *Gemini) Name() string { return geminiProviderName }

func (g *Gemini) Suggest(ctx context.Context, req Request) (*domain.TextOverride, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(g.temperature),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), config)
	if err != nil {
		return nil, domain.NewProviderError(geminiProviderName, "generate_content", err)
	}
	out, err := parseOverride(geminiProviderName, resp.Text())
	if err != nil {
		return nil, domain.NewProviderError(geminiProviderName, "decode", err)
	}
	return out, nil
}
