package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Text provider names accepted by TEXT_PROVIDER.
const (
	TextProviderNone   = "none"
	TextProviderOpenAI = "openai"
	TextProviderGemini = "gemini"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	DBSlowQuery        time.Duration
	RedisAddr          string
	StoragePath        string
	StorageBaseURL     string
	GeoIPDBPath        string
	PricingCatalogPath string
	CORSOrigins        []string
	TrustProxy         bool
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	ReconcileInterval  time.Duration
	ReconcileBatch     int
	Providers          ProvidersConfig
}

// ProvidersConfig selects and configures the external providers. It is
// handed to the bootstrap explicitly; nothing else reads provider settings
// from the environment.
type ProvidersConfig struct {
	TextProvider     string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	OpenAIOrg        string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	ImagesEnabled    bool
	HordeAPIKey      string
	HordeBaseURL     string
	HordeClientAgent string
	TextTimeout      time.Duration
	ImageTimeout     time.Duration
	ImageStatusTTL   time.Duration
	// Text-to-3D meshes for layout-only requests; enabled when both the
	// token and the model version are set.
	ReplicateAPIToken  string
	ReplicateBaseURL   string
	Replicate3DVersion string
	Model3DTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		DBSlowQuery:        getEnvDuration("DB_SLOW_QUERY", 250*time.Millisecond),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		PricingCatalogPath: os.Getenv("PRICING_CATALOG_PATH"),
		CORSOrigins:        getEnvList("CORS_ALLOWED_ORIGINS"),
		TrustProxy:         getEnvBool("TRUST_PROXY_HEADERS", false),
		HTTPReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		HTTPIdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		ReconcileInterval:  getEnvDuration("RECONCILE_INTERVAL", 15*time.Second),
		ReconcileBatch:     getEnvInt("RECONCILE_BATCH", 20),
		Providers: ProvidersConfig{
			TextProvider:     strings.ToLower(getEnv("TEXT_PROVIDER", TextProviderNone)),
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
			OpenAIOrg:        os.Getenv("OPENAI_ORG"),
			GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
			ImagesEnabled:    getEnvBool("IMAGES_ENABLED", true),
			HordeAPIKey:      os.Getenv("STABLE_HORDE_API_KEY"),
			HordeBaseURL:     getEnv("STABLE_HORDE_BASE_URL", "https://stablehorde.net/api/v2"),
			HordeClientAgent: getEnv("STABLE_HORDE_CLIENT_AGENT", "workshop:1.0:ops@example.com"),
			TextTimeout:      getEnvDuration("TEXT_PROVIDER_TIMEOUT", 20*time.Second),
			ImageTimeout:     getEnvDuration("IMAGE_PROVIDER_TIMEOUT", 10*time.Second),
			ImageStatusTTL:   getEnvDuration("IMAGE_STATUS_TTL", time.Hour),

			ReplicateAPIToken:  os.Getenv("REPLICATE_API_TOKEN"),
			ReplicateBaseURL:   getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
			Replicate3DVersion: os.Getenv("REPLICATE_3D_MODEL_VERSION"),
			Model3DTimeout:     getEnvDuration("MODEL3D_TIMEOUT", 45*time.Second),
		},
	}

	switch cfg.Providers.TextProvider {
	case TextProviderNone, TextProviderOpenAI, TextProviderGemini:
	default:
		return nil, fmt.Errorf("TEXT_PROVIDER %q is not supported", cfg.Providers.TextProvider)
	}
	if cfg.Providers.TextProvider == TextProviderOpenAI && cfg.Providers.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required when TEXT_PROVIDER=openai")
	}
	if cfg.Providers.TextProvider == TextProviderGemini && cfg.Providers.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when TEXT_PROVIDER=gemini")
	}
	if _, err := url.Parse(cfg.StorageBaseURL); err != nil {
		return nil, fmt.Errorf("STORAGE_BASE_URL: %w", err)
	}

	return cfg, nil
}

// Model3DEnabled reports whether the text-to-3D provider is configured.
func (p ProvidersConfig) Model3DEnabled() bool {
	return p.ReplicateAPIToken != "" && p.Replicate3DVersion != ""
}

// PersistenceEnabled reports whether a database is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
