// Package horde is a client for the Stable Horde asynchronous text-to-image API.
package horde

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workshop/internal/domain"
	"workshop/internal/infra"
)

const providerName = "stablehorde"

// AnonymousKey is the shared key Stable Horde accepts for unauthenticated use.
const AnonymousKey = "0000000000"

// Options configures the Stable Horde client.
type Options struct {
	APIKey         string
	BaseURL        string
	ClientAgent    string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to Stable Horde.
type Client struct {
	apiKey      string
	baseURL     string
	clientAgent string
	model       string
	httpClient  *http.Client
	logger      *infra.Logger
}

// Submission is the accepted job returned by Submit.
type Submission struct {
	ID    string
	Kudos float64
}

type generationParams struct {
	SamplerName string  `json:"sampler_name"`
	CfgScale    float64 `json:"cfg_scale"`
	Height      int     `json:"height"`
	Width       int     `json:"width"`
	Steps       int     `json:"steps"`
	N           int     `json:"n"`
}

type generationRequest struct {
	Prompt         string           `json:"prompt"`
	Params         generationParams `json:"params"`
	NSFW           bool             `json:"nsfw"`
	CensorNSFW     bool             `json:"censor_nsfw"`
	TrustedWorkers bool             `json:"trusted_workers"`
	Models         []string         `json:"models"`
}

type submitResponse struct {
	ID      string  `json:"id"`
	Kudos   float64 `json:"kudos"`
	Message string  `json:"message"`
}

type statusResponse struct {
	Done          bool  `json:"done"`
	Faulted       bool  `json:"faulted"`
	Processing    int   `json:"processing"`
	Waiting       int   `json:"waiting"`
	QueuePosition int   `json:"queue_position"`
	WaitTime      int   `json:"wait_time"`
	IsPossible    *bool `json:"is_possible"`
	Generations   []struct {
		Img string `json:"img"`
	} `json:"generations"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewClient constructs a client with defaults for every unset option.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://stablehorde.net/api/v2"
	}
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		apiKey = AnonymousKey
	}
	agent := strings.TrimSpace(opts.ClientAgent)
	if agent == "" {
		agent = "workshop:1.0:unknown"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "stable_diffusion"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		clientAgent: agent,
		model:       model,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Name identifies the provider in errors and metrics.
func (c *Client) Name() string {
	return providerName
}

// Submit enqueues one 768x512 render for prompt.
func (c *Client) Submit(ctx context.Context, prompt string) (*Submission, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.NewProviderError(providerName, "submit", errors.New("prompt is required"))
	}
	payload := generationRequest{
		Prompt: prompt,
		Params: generationParams{
			SamplerName: "k_euler_a",
			CfgScale:    7,
			Height:      512,
			Width:       768,
			Steps:       30,
			N:           1,
		},
		CensorNSFW: true,
		Models:     []string{c.model},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "submit", fmt.Errorf("encode request: %w", err))
	}
	raw, status, err := c.do(ctx, http.MethodPost, "/generate/async", body)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "submit", err)
	}
	if status >= 300 {
		return nil, domain.NewProviderError(providerName, "submit", statusError(status, raw))
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, domain.NewProviderError(providerName, "submit", fmt.Errorf("decode response: %w", err))
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return nil, domain.NewProviderError(providerName, "submit", errors.New("empty job id"))
	}
	c.logger.Debug().
		Str("job_id", decoded.ID).
		Float64("kudos", decoded.Kudos).
		Msg("horde: submitted render")
	return &Submission{ID: decoded.ID, Kudos: decoded.Kudos}, nil
}

// Status reads the job state. Unknown ids return *domain.JobNotFoundError.
func (c *Client) Status(ctx context.Context, jobID string) (*domain.ImageStatus, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, &domain.JobNotFoundError{JobID: jobID}
	}
	raw, status, err := c.do(ctx, http.MethodGet, "/generate/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, domain.NewProviderError(providerName, "status", err)
	}
	if status == http.StatusNotFound {
		return nil, &domain.JobNotFoundError{JobID: jobID}
	}
	if status >= 300 {
		return nil, domain.NewProviderError(providerName, "status", statusError(status, raw))
	}
	var decoded statusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, domain.NewProviderError(providerName, "status", fmt.Errorf("decode response: %w", err))
	}
	return mapStatus(jobID, decoded), nil
}

// Fetch returns the bytes and content type behind an image reference.
// Inline data URLs are decoded locally.
func (c *Client) Fetch(ctx context.Context, ref domain.ImageReference) ([]byte, string, error) {
	if ref.Inline {
		return decodeDataURL(ref.URL)
	}
	parsed, err := url.Parse(strings.TrimSpace(ref.URL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("horde: invalid image url: %s", ref.URL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("horde: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("horde: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("horde: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("horde: read image: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "image/webp"
	}
	return data, format, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Client-Agent", c.clientAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func statusError(status int, raw []byte) error {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
		return fmt.Errorf("status %d: %s", status, detail.Message)
	}
	return fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(raw)))
}

func mapStatus(jobID string, resp statusResponse) *domain.ImageStatus {
	out := &domain.ImageStatus{
		JobID:         jobID,
		QueuePosition: resp.QueuePosition,
		WaitSeconds:   resp.WaitTime,
	}
	impossible := resp.IsPossible != nil && !*resp.IsPossible
	switch {
	case resp.Faulted || impossible:
		out.State = domain.ImageJobFailed
	case resp.Done && firstImage(resp) != "":
		out.State = domain.ImageJobDone
		out.Image = imageReference(firstImage(resp))
	case resp.Done:
		out.State = domain.ImageJobFailed
	case resp.Processing > 0:
		out.State = domain.ImageJobProcessing
	case resp.Waiting > 0 || resp.QueuePosition > 0:
		out.State = domain.ImageJobQueued
	default:
		out.State = domain.ImageJobSubmitted
	}
	out.Done = out.State == domain.ImageJobDone
	return out
}

func firstImage(resp statusResponse) string {
	for _, g := range resp.Generations {
		if img := strings.TrimSpace(g.Img); img != "" {
			return img
		}
	}
	return ""
}

func imageReference(img string) *domain.ImageReference {
	lower := strings.ToLower(img)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &domain.ImageReference{URL: img}
	}
	return &domain.ImageReference{URL: "data:image/webp;base64," + img, Inline: true}
}

func decodeDataURL(ref string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, "", errors.New("horde: not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("horde: malformed data url")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("horde: decode inline image: %w", err)
	}
	return data, mime, nil
}
