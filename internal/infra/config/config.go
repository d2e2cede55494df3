package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	FAQ       FAQConfig       `yaml:"faq"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Storage   StorageConfig   `yaml:"storage"`
	Admin     AdminConfig     `yaml:"admin"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// FAQConfig controls retrieval behavior.
type FAQConfig struct {
	SimilarityThreshold float64      `yaml:"similarityThreshold"`
	TopTrending         int          `yaml:"topTrending"`
	FallbackAnswer      string       `yaml:"fallbackAnswer"`
	OperatorContact     string       `yaml:"operatorContact"`
	Valkey              ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the trending counters.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// EmbeddingConfig contains embedding provider settings.
type EmbeddingConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
	// Dim is the vector dimension of the offline deterministic embedder used
	// when no API key is configured.
	Dim int `yaml:"dim"`
}

// StorageConfig selects the persistence backends.
type StorageConfig struct {
	FilePath        string         `yaml:"filePath"`
	QueryLogPath    string         `yaml:"queryLogPath"`
	FeedbackLogPath string         `yaml:"feedbackLogPath"`
	MaxImportBytes  int64          `yaml:"maxImportBytes"`
	Postgres        PostgresConfig `yaml:"postgres"`
	Archive         ArchiveConfig  `yaml:"archive"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig configures the S3-compatible document archive.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSsl"`
}

// AdminConfig gates the mutating endpoints behind a shared password.
type AdminConfig struct {
	Enabled      bool   `yaml:"enabled"`
	PasswordHash string `yaml:"passwordHash"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_TOP_TRENDING"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopTrending = parsed
		}
	}
	if v := os.Getenv("FAQ_FALLBACK_ANSWER"); v != "" {
		cfg.FAQ.FallbackAnswer = v
	}
	if v := os.Getenv("FAQ_OPERATOR_CONTACT"); v != "" {
		cfg.FAQ.OperatorContact = v
	}
	if v := os.Getenv("FAQ_VALKEY_ENABLED"); v != "" {
		cfg.FAQ.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("FAQ_VALKEY_ADDR"); v != "" {
		cfg.FAQ.Valkey.Addr = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("STORAGE_FILE_PATH"); v != "" {
		cfg.Storage.FilePath = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("STORAGE_QUERY_LOG_PATH"); v != "" {
		cfg.Storage.QueryLogPath = v
	}
	if v := os.Getenv("STORAGE_FEEDBACK_LOG_PATH"); v != "" {
		cfg.Storage.FeedbackLogPath = v
	}
	if v := os.Getenv("ADMIN_ENABLED"); v != "" {
		cfg.Admin.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		FAQ: FAQConfig{
			SimilarityThreshold: 0.50,
			TopTrending:         5,
			FallbackAnswer:      "Sorry, I don't have an answer for that yet.",
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-3-small",
			Dim:   32,
		},
		Storage: StorageConfig{
			FilePath:        "data/faqs.json",
			QueryLogPath:    "logs/queries.jsonl",
			FeedbackLogPath: "logs/feedback.jsonl",
			MaxImportBytes:  5 << 20,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold > 1 {
		return errors.New("faq.similarityThreshold must be within [0,1]")
	}
	if c.FAQ.TopTrending < 0 {
		return errors.New("faq.topTrending cannot be negative")
	}
	if c.FAQ.FallbackAnswer == "" {
		return errors.New("faq.fallbackAnswer cannot be empty")
	}
	if c.FAQ.Valkey.Enabled && strings.TrimSpace(c.FAQ.Valkey.Addr) == "" {
		return errors.New("faq.valkey.addr cannot be empty when valkey is enabled")
	}
	if strings.TrimSpace(c.Embedding.Model) == "" {
		return errors.New("embedding.model cannot be empty")
	}
	if strings.TrimSpace(c.Storage.FilePath) == "" && strings.TrimSpace(c.Storage.Postgres.DSN) == "" {
		return errors.New("storage requires filePath or postgres.dsn")
	}
	if c.Storage.Archive.Enabled {
		if strings.TrimSpace(c.Storage.Archive.Endpoint) == "" {
			return errors.New("storage.archive.endpoint cannot be empty when archive is enabled")
		}
		if strings.TrimSpace(c.Storage.Archive.Bucket) == "" {
			return errors.New("storage.archive.bucket cannot be empty when archive is enabled")
		}
	}
	if c.Admin.Enabled && strings.TrimSpace(c.Admin.PasswordHash) == "" {
		return errors.New("admin.passwordHash cannot be empty when admin endpoints are enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
