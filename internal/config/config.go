package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
	"github.com/kevin07696/promptpay-service/pkg/emvqr"
	"github.com/kevin07696/promptpay-service/pkg/promptpay"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Logger      LoggerConfig
	QR          QRConfig
	Merchant    MerchantProfile
	RateLimit   RateLimitConfig
}

// ServerConfig holds HTTP, gRPC and metrics listener configuration
type ServerConfig struct {
	HTTPPort        int
	GRPCPort        int
	MetricsPort     int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// QRConfig holds the image rendering parameters handed to the renderer
type QRConfig struct {
	ErrorCorrection string // low, medium, high, highest
	Size            int    // pixel square
}

// RateLimitConfig holds the per-IP limiter settings
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// MerchantProfile carries the payload values that do not travel with a
// request. It can be overridden from a YAML file (QR_PROFILE_FILE).
type MerchantProfile struct {
	MerchantAccountTag   string `mapstructure:"merchant_account_tag"`
	PresentedType        string `mapstructure:"presented_type"`
	MerchantCategoryCode string `mapstructure:"merchant_category_code"`
	MerchantCity         string `mapstructure:"merchant_city"`
	PostalCode           string `mapstructure:"postal_code"`
	CountryCode          string `mapstructure:"country_code"`
	Currency             string `mapstructure:"currency"`
	PointOfInitiation    string `mapstructure:"point_of_initiation"`

	// Optional tag 64 values
	LanguagePreference string `mapstructure:"language_preference"`
	AlternateName      string `mapstructure:"alternate_name"`
	AlternateCity      string `mapstructure:"alternate_city"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	def := DefaultProfile()
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			HTTPPort:        getEnvAsInt("HTTP_PORT", 8080),
			GRPCPort:        getEnvAsInt("GRPC_PORT", 50051),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		QR: QRConfig{
			ErrorCorrection: getEnv("QR_ERROR_CORRECTION", "low"),
			Size:            getEnvAsInt("QR_SIZE", 320),
		},
		Merchant: MerchantProfile{
			MerchantAccountTag:   getEnv("QR_MERCHANT_ACCOUNT_TAG", def.MerchantAccountTag),
			PresentedType:        getEnv("QR_PRESENTED_TYPE", def.PresentedType),
			MerchantCategoryCode: getEnv("QR_MERCHANT_CATEGORY_CODE", def.MerchantCategoryCode),
			MerchantCity:         getEnv("QR_MERCHANT_CITY", def.MerchantCity),
			PostalCode:           getEnv("QR_POSTAL_CODE", def.PostalCode),
			CountryCode:          getEnv("QR_COUNTRY_CODE", def.CountryCode),
			Currency:             getEnv("QR_CURRENCY", def.Currency),
			PointOfInitiation:    getEnv("QR_POINT_OF_INITIATION", def.PointOfInitiation),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	if path := getEnv("QR_PROFILE_FILE", ""); path != "" {
		if err := LoadProfile(path, &cfg.Merchant); err != nil {
			return nil, fmt.Errorf("failed to load merchant profile: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultProfile returns the profile used when nothing is configured.
func DefaultProfile() MerchantProfile {
	return MerchantProfile{
		MerchantAccountTag:   string(promptpay.DefaultMerchantAccountTag),
		PresentedType:        "customer",
		MerchantCategoryCode: "5311",
		MerchantCity:         "Bangkok",
		PostalCode:           "10240",
		CountryCode:          promptpay.CountryThailand,
		Currency:             promptpay.CurrencyBaht,
		PointOfInitiation:    "static",
	}
}

// LoadProfile merges a YAML merchant profile over p. Keys missing from the
// file keep their current value.
func LoadProfile(path string, p *MerchantProfile) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(p)
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	if _, err := ports.ParseErrorCorrection(c.QR.ErrorCorrection); err != nil {
		return err
	}
	if c.QR.Size <= 0 {
		return fmt.Errorf("QR_SIZE must be positive, got %d", c.QR.Size)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return c.Merchant.Validate()
}

// Validate checks the profile values that are not re-checked by the encoder
func (p *MerchantProfile) Validate() error {
	if !emvqr.TagID(p.MerchantAccountTag).IsMerchantAccountInformation() {
		return fmt.Errorf("merchant account tag must be 02-51, got %q", p.MerchantAccountTag)
	}
	if _, err := promptpay.ParsePresentedType(p.PresentedType); err != nil {
		return err
	}
	if _, err := emvqr.ParsePointOfInitiation(p.PointOfInitiation); err != nil {
		return fmt.Errorf("invalid point of initiation %q", p.PointOfInitiation)
	}
	if p.AlternateName != "" && p.LanguagePreference == "" {
		return fmt.Errorf("language_preference is required with alternate_name")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
