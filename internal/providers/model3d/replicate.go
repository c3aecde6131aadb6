// Package model3d asks a Replicate text-to-3D model (Shap-E and similar) for
// a GLB mesh of a configured piece.
package model3d

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"workshop/internal/domain"
)

const (
	providerName   = "replicate"
	defaultBaseURL = "https://api.replicate.com/v1"
	pollInterval   = 2 * time.Second
)

// Request is the configured piece to model. DimensionsCm is already
// converted.
type Request struct {
	Config       domain.ConfigurationRequest
	DimensionsCm domain.Dimensions3D
	Family       domain.ShapeFamily
}

// Options configures the Replicate client. Version is the model version id,
// for example "cjwbw/shap-e:<hash>".
type Options struct {
	APIToken   string
	BaseURL    string
	Version    string
	HTTPClient *http.Client
}

// Client creates predictions and waits for their output.
type Client struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	poll       time.Duration
}

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	Format            string  `json:"format"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// New returns a client, or an error when the token or version is missing.
func New(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.APIToken)
	version := strings.TrimSpace(opts.Version)
	if token == "" || version == "" {
		return nil, errors.New("model3d: api token and model version are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{token: token, baseURL: baseURL, version: version, httpClient: httpClient, poll: pollInterval}, nil
}

// Name identifies the provider in errors and metrics.
func (c *Client) Name() string { return providerName }

// Generate runs one prediction and returns the mesh URL. Every failure is a
// *domain.ExternalProviderError; callers fall back to the parametric layout.
func (c *Client) Generate(ctx context.Context, req Request) (*domain.ExternalModel, error) {
	body, err := json.Marshal(predictionRequest{
		Version: c.version,
		Input: predictionInput{
			Prompt:            BuildPrompt(req),
			GuidanceScale:     7,
			NumInferenceSteps: 50,
			Format:            "glb",
		},
	})
	if err != nil {
		return nil, domain.NewProviderError(providerName, "generate", fmt.Errorf("encode request: %w", err))
	}
	pred, err := c.call(ctx, http.MethodPost, c.baseURL+"/predictions", body)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "generate", err)
	}
	for !terminal(pred.Status) {
		if pred.URLs.Get == "" {
			return nil, domain.NewProviderError(providerName, "generate", fmt.Errorf("prediction %s is %s without a status url", pred.ID, pred.Status))
		}
		select {
		case <-ctx.Done():
			return nil, domain.NewProviderError(providerName, "generate", ctx.Err())
		case <-time.After(c.poll):
		}
		if pred, err = c.call(ctx, http.MethodGet, pred.URLs.Get, nil); err != nil {
			return nil, domain.NewProviderError(providerName, "generate", err)
		}
	}
	if pred.Status != "succeeded" {
		return nil, domain.NewProviderError(providerName, "generate", fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error))
	}
	url := meshURL(pred.Output)
	if url == "" {
		return nil, domain.NewProviderError(providerName, "generate", errors.New("prediction returned no mesh url"))
	}
	return &domain.ExternalModel{Format: domain.ModelFormatGLTFURL, URL: url, Provider: providerName}, nil
}

func (c *Client) call(ctx context.Context, method, url string, body []byte) (*prediction, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "wait")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &pred, nil
}

func terminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// meshURL picks the first .glb or .gltf URL from a list output, or accepts a
// single string output as is.
func meshURL(output json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(output, &list); err == nil {
		for _, u := range list {
			lower := strings.ToLower(strings.TrimSpace(u))
			if strings.HasSuffix(lower, ".glb") || strings.HasSuffix(lower, ".gltf") {
				return strings.TrimSpace(u)
			}
		}
		return ""
	}
	var single string
	if err := json.Unmarshal(output, &single); err == nil {
		single = strings.TrimSpace(single)
		if strings.HasPrefix(single, "http://") || strings.HasPrefix(single, "https://") {
			return single
		}
	}
	return ""
}

// BuildPrompt describes the piece for a text-to-3D model.
func BuildPrompt(req Request) string {
	c := req.Config
	d := req.DimensionsCm
	kind := strings.TrimSpace(c.FurnitureType)
	if kind == "" {
		kind = "custom"
	}
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s furniture in %s style, material %s, color %s, dimensions %sx%sx%s cm.",
		kind, c.Style, c.Material.Primary, c.Color.Primary, num(d.Length), num(d.Width), num(d.Height))
	fmt.Fprintf(sb, " Doors: %d, drawers: %d.", c.Specification.DoorCount, c.Specification.DrawerCount)
	sb.WriteString(" Realistic 3D model suitable for fabrication, GLB format.")
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
