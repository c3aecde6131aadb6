// Package text asks an external language model for a recommendation and
// turns its answer into a domain.TextOverride.
package text

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"workshop/internal/domain"
)

const (
	openAIProviderName = "openai"
	geminiProviderName = "gemini"
)

// ErrMissingAPIKey indicates a provider configured without credentials.
var ErrMissingAPIKey = errors.New("text: api key is required")

// Request is the input for a provider call. Dimensions are in centimeters.
type Request struct {
	Config       domain.ConfigurationRequest
	DimensionsCm domain.Dimensions3D
	Family       domain.ShapeFamily
}

// Provider produces structured recommendation overrides. Implementations
// return a *domain.ExternalProviderError on failure.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, req Request) (*domain.TextOverride, error)
}

type costPayload struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Average float64 `json:"average"`
}

type durationPayload struct {
	MinDays float64 `json:"min_days"`
	MaxDays float64 `json:"max_days"`
	AvgDays float64 `json:"avg_days"`
}

type productPayload struct {
	Name       string  `json:"name"`
	BasePrice  float64 `json:"base_price"`
	Similarity float64 `json:"similarity"`
}

type overridePayload struct {
	Text             string           `json:"text"`
	Cost             *costPayload     `json:"cost"`
	Duration         *durationPayload `json:"duration"`
	Layout           *domain.Layout   `json:"layout"`
	SimilarProducts  []productPayload `json:"similar_products"`
	FabricationSteps []string         `json:"fabrication_steps"`
}

// parseOverride reads a model answer. JSON objects map field by field; any
// other non-empty answer becomes the recommendation text.
func parseOverride(provider, raw string) (*domain.TextOverride, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("empty response")
	}
	out := &domain.TextOverride{Provider: provider}
	fragment := extractJSONFragment(trimmed)
	if !strings.HasPrefix(fragment, "{") {
		out.Text = trimmed
		return out, nil
	}
	var p overridePayload
	if err := json.Unmarshal([]byte(fragment), &p); err != nil {
		out.Text = trimmed
		return out, nil
	}
	out.Text = strings.TrimSpace(p.Text)
	if p.Cost != nil {
		out.Cost = &domain.CostEstimate{
			Minimum: roundInt(p.Cost.Minimum),
			Maximum: roundInt(p.Cost.Maximum),
			Average: roundInt(p.Cost.Average),
		}
	}
	if p.Duration != nil {
		out.Duration = &domain.DurationEstimate{
			MinDays: int(roundInt(p.Duration.MinDays)),
			MaxDays: int(roundInt(p.Duration.MaxDays)),
			AvgDays: int(roundInt(p.Duration.AvgDays)),
		}
	}
	if p.Layout != nil {
		l := *p.Layout
		l.ShapeFamily = domain.ShapeFamily(strings.ToLower(strings.TrimSpace(string(l.ShapeFamily))))
		out.Layout = &l
	}
	for _, sp := range p.SimilarProducts {
		out.SimilarProducts = append(out.SimilarProducts, domain.ProductSuggestion{
			Name:       strings.TrimSpace(sp.Name),
			BasePrice:  roundInt(sp.BasePrice),
			Similarity: int(roundInt(sp.Similarity)),
		})
	}
	out.FabricationSteps = p.FabricationSteps
	return out, nil
}

func roundInt(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

func extractJSONFragment(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
