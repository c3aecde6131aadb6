package text

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"workshop/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func kitchenRequest() Request {
	return Request{
		Config: domain.ConfigurationRequest{
			FurnitureType: "Kitchen",
			Material:      domain.NewMultiValue("Wood"),
			Color:         domain.NewMultiValue("White"),
			Style:         "Modern",
			Description:   "<b>Open</b> shelving near the window",
			Locale:        "es",
			Specification: domain.Specification{DoorCount: 6, DrawerCount: 3},
		},
		DimensionsCm: domain.Dimensions3D{Length: 300, Width: 60, Height: 220, Unit: domain.UnitCentimeter},
		Family:       domain.ShapeKitchenSet,
	}
}

func TestParseOverride(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		raw := "```json\n{\"text\":\" Solid plan \",\"cost\":{\"minimum\":800.4,\"maximum\":1200,\"average\":1000},\"duration\":{\"min_days\":10,\"max_days\":20,\"avg_days\":15},\"similar_products\":[{\"name\":\"Oak Kitchen\",\"base_price\":900,\"similarity\":80}],\"fabrication_steps\":[\"cut\",\"assemble\"],\"layout\":{\"shape_family\":\"KITCHEN_SET\",\"bounding_cm\":{\"length\":300,\"width\":60,\"height\":220}}}\n```"
		out, err := parseOverride("openai", raw)
		if err != nil {
			t.Fatalf("parseOverride: %v", err)
		}
		if out.Text != "Solid plan" {
			t.Fatalf("text = %q", out.Text)
		}
		if out.Cost == nil || out.Cost.Minimum != 800 || out.Cost.Average != 1000 {
			t.Fatalf("cost = %+v", out.Cost)
		}
		if out.Duration == nil || out.Duration.AvgDays != 15 {
			t.Fatalf("duration = %+v", out.Duration)
		}
		if len(out.SimilarProducts) != 1 || out.SimilarProducts[0].Similarity != 80 {
			t.Fatalf("products = %+v", out.SimilarProducts)
		}
		if out.Layout == nil || out.Layout.ShapeFamily != domain.ShapeKitchenSet {
			t.Fatalf("layout = %+v", out.Layout)
		}
		if len(out.FabricationSteps) != 2 {
			t.Fatalf("steps = %v", out.FabricationSteps)
		}
	})
	t.Run("plain text", func(t *testing.T) {
		out, err := parseOverride("gemini", "Use oak and brass handles.")
		if err != nil {
			t.Fatalf("parseOverride: %v", err)
		}
		if out.Text != "Use oak and brass handles." || out.Cost != nil || out.Provider != "gemini" {
			t.Fatalf("unexpected override %+v", out)
		}
	})
	t.Run("empty", func(t *testing.T) {
		if _, err := parseOverride("gemini", "  "); err == nil {
			t.Fatalf("expected error for empty response")
		}
	})
}

func TestBuildPromptSanitizesDescription(t *testing.T) {
	prompt := BuildPrompt(kitchenRequest())
	for _, want := range []string{"Type: Kitchen", "Dimensions: 300x60x220 cm", "Doors: 6, drawers: 3", "Open shelving near the window", `locale "es"`} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "<b>") {
		t.Fatalf("prompt kept markup:\n%s", prompt)
	}
}

func TestOpenAISuggest(t *testing.T) {
	var gotAuth, gotPath string
	provider, err := NewOpenAI(OpenAIOptions{
		APIKey:  "sk-test",
		BaseURL: "https://llm.test/v1",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			return jsonResponse(http.StatusOK, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"text\":\"Modern kitchen plan\"}"},"finish_reason":"stop"}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	out, err := provider.Suggest(context.Background(), kitchenRequest())
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if out.Text != "Modern kitchen plan" || out.Provider != "openai" {
		t.Fatalf("override = %+v", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestOpenAISuggestWrapsTransportError(t *testing.T) {
	provider, err := NewOpenAI(OpenAIOptions{
		APIKey: "sk-test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	_, err = provider.Suggest(context.Background(), kitchenRequest())
	var perr *domain.ExternalProviderError
	if !errors.As(err, &perr) || perr.Provider != "openai" {
		t.Fatalf("err = %v, want provider error", err)
	}
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(OpenAIOptions{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	cases := []struct {
		input, model, reason string
	}{
		{"", "gpt-4o-mini", ""},
		{"gpt-4o-mini", "gpt-4o-mini", ""},
		{"GPT 3.5", "gpt-3.5-turbo", "alias"},
		{"gpt-4.1", "gpt-4.1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			model, reason := normalizeOpenAIModel(tc.input)
			if model != tc.model || reason != tc.reason {
				t.Fatalf("normalizeOpenAIModel(%q) = %q,%q want %q,%q", tc.input, model, reason, tc.model, tc.reason)
			}
		})
	}
}

func TestGeminiSuggest(t *testing.T) {
	var gotKey string
	provider, err := NewGemini(context.Background(), GeminiOptions{
		APIKey:  "g-test",
		BaseURL: "https://gemini.test/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotKey = r.Header.Get("x-goog-api-key")
			return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"text\":\"Wardrobe plan\",\"duration\":{\"min_days\":5,\"max_days\":9,\"avg_days\":7}}"}]}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	out, err := provider.Suggest(context.Background(), kitchenRequest())
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if out.Text != "Wardrobe plan" || out.Duration == nil || out.Duration.MaxDays != 9 {
		t.Fatalf("override = %+v", out)
	}
	if gotKey != "g-test" {
		t.Fatalf("api key header = %q", gotKey)
	}
}

func TestGeminiSuggestWrapsStatusError(t *testing.T) {
	provider, err := NewGemini(context.Background(), GeminiOptions{
		APIKey:  "g-test",
		BaseURL: "https://gemini.test/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"error":{"code":500,"message":"overloaded","status":"INTERNAL"}}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	_, err = provider.Suggest(context.Background(), kitchenRequest())
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want provider failure", err)
	}
}
