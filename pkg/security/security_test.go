package security

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
)

func TestMaskDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		keep  int
		want  string
	}{
		{name: "mobile", input: "0809729900", keep: 4, want: "******9900"},
		{name: "shorter_than_keep", input: "123", keep: 4, want: "***"},
		{name: "exact_keep", input: "1234", keep: 4, want: "****"},
		{name: "empty", input: "", keep: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskDigits(tt.input, tt.keep))
		})
	}
}

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLogger(zap.New(core)).Named("qrcode")

	boom := errors.New("boom")
	adapter.Info("rendered", ports.String("level", "low"), ports.Int("size", 320))
	adapter.Error("failed", ports.Err(boom), ports.Duration("duration", time.Second))
	adapter.Warn("warn")
	adapter.Debug("debug")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "qrcode", entries[0].LoggerName)
	assert.Equal(t, "low", entries[0].ContextMap()["level"])
	assert.Equal(t, int64(320), entries[0].ContextMap()["size"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, time.Second, entries[1].ContextMap()["duration"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMaskedMobile(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("request", MaskedMobile("mobile", "0809729900"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "******9900", logs.All()[0].ContextMap()["mobile"])
}

func TestNewZapLogger_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		NewZapLogger(nil).Info("noop")
	})
}
