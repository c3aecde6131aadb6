package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"workshop/internal/imagegen"
	"workshop/internal/infra"
)

func TestNewTextProvider(t *testing.T) {
	logger := zerolog.Nop()
	cases := []struct {
		name     string
		cfg      infra.ProvidersConfig
		wantName string
		wantErr  bool
	}{
		{name: "none", cfg: infra.ProvidersConfig{TextProvider: infra.TextProviderNone}},
		{name: "empty", cfg: infra.ProvidersConfig{}},
		{name: "openai", cfg: infra.ProvidersConfig{TextProvider: infra.TextProviderOpenAI, OpenAIAPIKey: "sk-test"}, wantName: "openai"},
		{name: "gemini", cfg: infra.ProvidersConfig{TextProvider: infra.TextProviderGemini, GeminiAPIKey: "g-test"}, wantName: "gemini"},
		{name: "openai without key", cfg: infra.ProvidersConfig{TextProvider: infra.TextProviderOpenAI}, wantErr: true},
		{name: "unknown", cfg: infra.ProvidersConfig{TextProvider: "claude"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewTextProvider(context.Background(), tc.cfg, &logger)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTextProvider: %v", err)
			}
			if tc.wantName == "" {
				if p != nil {
					t.Fatalf("expected no provider, got %s", p.Name())
				}
				return
			}
			if p == nil || p.Name() != tc.wantName {
				t.Fatalf("provider = %v, want %s", p, tc.wantName)
			}
		})
	}
}

func TestNewStatusCacheWithoutRedis(t *testing.T) {
	logger := zerolog.Nop()
	if _, ok := NewStatusCache("", &logger).(*imagegen.MemoryStatusCache); !ok {
		t.Fatalf("expected memory cache without REDIS_ADDR")
	}
}

func TestLoadCatalog(t *testing.T) {
	if c, err := LoadCatalog(""); err != nil || c == nil {
		t.Fatalf("default catalog = %v, %v", c, err)
	}
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("default_rate_per_m3: [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for malformed catalog")
	}
}

func TestBuildWithoutImages(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &infra.Config{Providers: infra.ProvidersConfig{TextProvider: infra.TextProviderNone}}
	e, err := Build(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer e.Close()
	if e.Coordinator == nil || e.Estimator == nil {
		t.Fatalf("engine not wired: %+v", e)
	}
	if e.Horde != nil || e.Images != nil {
		t.Fatalf("images should be disabled")
	}
}

func TestBuildWithImages(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &infra.Config{Providers: infra.ProvidersConfig{ImagesEnabled: true}}
	e, err := Build(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer e.Close()
	if e.Horde == nil || e.Images == nil {
		t.Fatalf("images should be wired")
	}
}

func TestNewModelProvider(t *testing.T) {
	p, err := NewModelProvider(infra.ProvidersConfig{ReplicateAPIToken: "r8"})
	if err != nil || p != nil {
		t.Fatalf("without version: provider = %v, err = %v", p, err)
	}
	p, err = NewModelProvider(infra.ProvidersConfig{ReplicateAPIToken: "r8", Replicate3DVersion: "shap-e:1"})
	if err != nil || p == nil || p.Name() != "replicate" {
		t.Fatalf("provider = %v, err = %v", p, err)
	}
}
