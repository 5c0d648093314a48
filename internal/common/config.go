package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Storage   StorageConfig
	Provider  ProviderConfig
	QRScan    QRScanConfig
	RateLimit RateLimitConfig
	Batch     BatchConfig
}

// StorageConfig holds object-store configuration
type StorageConfig struct {
	Backend   string // "local" or "s3"
	LocalDir  string
	PublicURL string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ProviderConfig holds extraction-provider configuration.
// Set once at startup; read-only thereafter.
type ProviderConfig struct {
	Name        string // "openai" or "gemini"
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// QRScanConfig holds the fallback scanning service configuration
type QRScanConfig struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
}

// RateLimitConfig holds per-caller throttling configuration
type RateLimitConfig struct {
	DeleteLimit int
	Window      time.Duration
}

// BatchConfig holds directory-processing configuration
type BatchConfig struct {
	Workers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			LocalDir:  getEnv("STORAGE_LOCAL_DIR", "./data/receipts"),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", "receipts"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			UseSSL:    getEnvAsBool("S3_USE_SSL", true),
		},
		Provider: ProviderConfig{
			Name:        getEnv("EXTRACTION_PROVIDER", "openai"),
			APIKey:      getEnv("EXTRACTION_API_KEY", ""),
			Model:       getEnv("EXTRACTION_MODEL", ""),
			Temperature: getEnvAsFloat32("EXTRACTION_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("EXTRACTION_MAX_TOKENS", 2000),
			Timeout:     getEnvAsDuration("EXTRACTION_TIMEOUT", 45*time.Second),
		},
		QRScan: QRScanConfig{
			Endpoint: getEnv("QRSCAN_ENDPOINT", ""),
			Username: getEnv("QRSCAN_USERNAME", ""),
			Password: getEnv("QRSCAN_PASSWORD", ""),
			Timeout:  getEnvAsDuration("QRSCAN_TIMEOUT", 20*time.Second),
		},
		RateLimit: RateLimitConfig{
			DeleteLimit: getEnvAsInt("DELETE_RATE_LIMIT", 5),
			Window:      getEnvAsDuration("DELETE_RATE_WINDOW", time.Minute),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
		},
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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
	if c.Provider.APIKey == "" {
		return NewAppError(KindValidation, "EXTRACTION_API_KEY is required", nil)
	}
	if c.Storage.Backend != "local" && c.Storage.Backend != "s3" {
		return NewAppError(KindValidation, "STORAGE_BACKEND must be local or s3", nil)
	}
	if c.Storage.Backend == "s3" && c.Storage.Endpoint == "" {
		return NewAppError(KindValidation, "S3_ENDPOINT is required for the s3 backend", nil)
	}
	return nil
}
