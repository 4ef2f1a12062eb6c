package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "low", cfg.QR.ErrorCorrection)
	assert.Equal(t, 320, cfg.QR.Size)
	assert.Equal(t, DefaultProfile(), cfg.Merchant)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("QR_SIZE", "512")
	t.Setenv("QR_ERROR_CORRECTION", "HIGH")
	t.Setenv("QR_PRESENTED_TYPE", "merchant")
	t.Setenv("QR_MERCHANT_ACCOUNT_TAG", "30")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 512, cfg.QR.Size)
	assert.Equal(t, "merchant", cfg.Merchant.PresentedType)
	assert.Equal(t, "30", cfg.Merchant.MerchantAccountTag)
	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)

	ec, err := ports.ParseErrorCorrection(cfg.QR.ErrorCorrection)
	require.NoError(t, err)
	assert.Equal(t, ports.ErrorCorrectionHigh, ec)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "tag_out_of_range", key: "QR_MERCHANT_ACCOUNT_TAG", value: "52"},
		{name: "unknown_presented_type", key: "QR_PRESENTED_TYPE", value: "kiosk"},
		{name: "unknown_error_correction", key: "QR_ERROR_CORRECTION", value: "ultra"},
		{name: "negative_size", key: "QR_SIZE", value: "-1"},
		{name: "unknown_point_of_initiation", key: "QR_POINT_OF_INITIATION", value: "13"},
		{name: "missing_profile_file", key: "QR_PROFILE_FILE", value: "/nonexistent/profile.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := LoadFromEnv()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := `merchant_city: Chiang Mai
postal_code: "50000"
point_of_initiation: dynamic
language_preference: TH
alternate_name: ร้านค้า
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("QR_PROFILE_FILE", path)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Chiang Mai", cfg.Merchant.MerchantCity)
	assert.Equal(t, "50000", cfg.Merchant.PostalCode)
	assert.Equal(t, "dynamic", cfg.Merchant.PointOfInitiation)
	assert.Equal(t, "TH", cfg.Merchant.LanguagePreference)
	assert.Equal(t, "ร้านค้า", cfg.Merchant.AlternateName)
	// Untouched keys keep the env/default value.
	assert.Equal(t, "5311", cfg.Merchant.MerchantCategoryCode)
	assert.Equal(t, "764", cfg.Merchant.Currency)
}

func TestMerchantProfile_Validate(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())

	p.AlternateName = "x"
	assert.Error(t, p.Validate())

	p.LanguagePreference = "TH"
	assert.NoError(t, p.Validate())
}
