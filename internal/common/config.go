package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	LLM        LLMConfig        `yaml:"llm"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Invoice    InvoiceConfig    `yaml:"invoice"`
}

// DatabaseConfig holds database-related configuration.
// DSN is either a postgres:// URL or a SQLite file path.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// CatalogConfig selects where products are read from.
type CatalogConfig struct {
	Source    string        `yaml:"source"` // "xlsx" or "sql"
	XLSXPath  string        `yaml:"xlsx_path"`
	Sheet     string        `yaml:"sheet"`
	RedisAddr string        `yaml:"redis_addr"` // empty disables the snapshot cache
	CacheKey  string        `yaml:"cache_key"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// LLMConfig holds completion-service configuration
type LLMConfig struct {
	Provider      string        `yaml:"provider"` // none, openai, gemini, http
	Model         string        `yaml:"model"`    // empty picks the provider default
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	Temperature   float32       `yaml:"temperature"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// ExtractionConfig holds tier acceptance thresholds.
type ExtractionConfig struct {
	HighQuality        float64 `yaml:"high_quality"`
	AIAccept           float64 `yaml:"ai_accept"`
	MinMessageLength   int     `yaml:"min_message_length"`
	EmergencyScanLimit int     `yaml:"emergency_scan_limit"`
}

// InvoiceConfig controls invoice numbering.
type InvoiceConfig struct {
	Prefix    string `yaml:"prefix"`
	Width     int    `yaml:"width"`
	Generator string `yaml:"generator"` // "db" or "snowflake"
	NodeID    int64  `yaml:"node_id"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             "orders.db",
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{
			GRPCAddr:    ":8080",
			MetricsAddr: ":9090",
		},
		Catalog: CatalogConfig{
			Source:   "sql",
			CacheKey: "orders:catalog",
			CacheTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:      "none",
			Temperature:   0.1,
			Timeout:       30 * time.Second,
			RatePerSecond: 3,
			Burst:         5,
		},
		Extraction: ExtractionConfig{
			HighQuality:        constants.HighQualityScore,
			AIAccept:           constants.AIAcceptScore,
			MinMessageLength:   constants.MinMessageLength,
			EmergencyScanLimit: constants.EmergencyScanLimit,
		},
		Invoice: InvoiceConfig{
			Prefix:    "WKY",
			Width:     5,
			Generator: "db",
			NodeID:    1,
		},
	}
}

// LoadConfig layers defaults, an optional YAML file, then environment variables.
// A missing file at path is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse %s", path), err)
			}
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	d := &c.Database
	d.DSN = getEnv("DB_URL", d.DSN)
	d.MaxConns = getEnvAsInt32("DB_MAX_CONNS", d.MaxConns)
	d.MinConns = getEnvAsInt32("DB_MIN_CONNS", d.MinConns)
	d.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", d.MaxConnLifetime)
	d.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", d.MaxConnIdleTime)
	d.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", d.DialTimeout)
	d.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", d.StatementTimeout)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.MetricsAddr = getEnv("METRICS_ADDR", c.Server.MetricsAddr)

	c.Catalog.Source = getEnv("CATALOG_SOURCE", c.Catalog.Source)
	c.Catalog.XLSXPath = getEnv("CATALOG_XLSX", c.Catalog.XLSXPath)
	c.Catalog.Sheet = getEnv("CATALOG_SHEET", c.Catalog.Sheet)
	c.Catalog.RedisAddr = getEnv("REDIS_ADDR", c.Catalog.RedisAddr)
	c.Catalog.CacheTTL = getEnvAsDuration("CATALOG_CACHE_TTL", c.Catalog.CacheTTL)

	l := &c.LLM
	l.Provider = getEnv("LLM_PROVIDER", l.Provider)
	l.Model = getEnv("LLM_MODEL", l.Model)
	l.APIKey = getEnv("LLM_API_KEY", l.APIKey)
	switch l.Provider {
	case "openai":
		l.APIKey = getEnv("OPENAI_API_KEY", l.APIKey)
	case "gemini":
		l.APIKey = getEnv("GEMINI_API_KEY", l.APIKey)
	}
	l.BaseURL = getEnv("LLM_BASE_URL", l.BaseURL)
	l.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", l.Temperature)
	l.Timeout = getEnvAsDuration("LLM_TIMEOUT", l.Timeout)
	l.RatePerSecond = getEnvAsFloat64("LLM_RATE_PER_SECOND", l.RatePerSecond)
	l.Burst = getEnvAsInt("LLM_BURST", l.Burst)

	c.Invoice.Prefix = getEnv("INVOICE_PREFIX", c.Invoice.Prefix)
	c.Invoice.Generator = getEnv("INVOICE_GENERATOR", c.Invoice.Generator)
	c.Invoice.NodeID = int64(getEnvAsInt("INVOICE_NODE_ID", int(c.Invoice.NodeID)))
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	switch c.Catalog.Source {
	case "sql":
	case "xlsx":
		if c.Catalog.XLSXPath == "" {
			return NewAppError("CONFIG_ERROR", "CATALOG_XLSX is required for xlsx catalogs", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown catalog source %q", c.Catalog.Source), ErrInvalidInput)
	}
	switch c.LLM.Provider {
	case "", "none":
	case "openai", "gemini":
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "LLM_API_KEY is required for provider "+c.LLM.Provider, ErrInvalidInput)
		}
	case "http":
		if c.LLM.BaseURL == "" {
			return NewAppError("CONFIG_ERROR", "LLM_BASE_URL is required for the http provider", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown llm provider %q", c.LLM.Provider), ErrInvalidInput)
	}
	e := c.Extraction
	if e.AIAccept <= 0 || e.HighQuality > 1 || e.AIAccept > e.HighQuality {
		return NewAppError("CONFIG_ERROR", "extraction thresholds must satisfy 0 < ai_accept <= high_quality <= 1", ErrInvalidInput)
	}
	switch c.Invoice.Generator {
	case "db", "snowflake":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown invoice generator %q", c.Invoice.Generator), ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
