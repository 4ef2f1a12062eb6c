package qrcode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
	"github.com/kevin07696/promptpay-service/internal/testutil/mocks"
	"github.com/kevin07696/promptpay-service/pkg/security"
)

func TestProbe(t *testing.T) {
	t.Run("unprobed_is_unhealthy", func(t *testing.T) {
		p := NewProbe(newTestRenderer(t), security.NewZapLogger(zaptest.NewLogger(t)))
		assert.ErrorIs(t, p.Check(context.Background()), errNotProbed)
	})

	t.Run("real_renderer_healthy", func(t *testing.T) {
		p := NewProbe(newTestRenderer(t), security.NewZapLogger(zaptest.NewLogger(t)))
		p.Run(context.Background())
		assert.NoError(t, p.Check(context.Background()))
	})

	t.Run("failure_then_recovery", func(t *testing.T) {
		renderer := mocks.NewMockRenderer(nil)
		renderer.SetResult(nil, errors.New("broken"))
		logger := mocks.NewMockLogger()
		p := NewProbe(renderer, logger)

		p.Run(context.Background())
		assert.EqualError(t, p.Check(context.Background()), "broken")

		warns := logger.Calls("warn")
		require.Len(t, warns, 1)
		assert.Equal(t, "Renderer probe failed", warns[0].Message)

		renderer.SetResult(nil, nil)
		p.Run(context.Background())
		assert.Error(t, p.Check(context.Background()), "empty image is unhealthy")

		renderer.SetResult([]byte("png"), nil)
		p.Run(context.Background())
		assert.NoError(t, p.Check(context.Background()))

		// Check never renders.
		_ = p.Check(context.Background())
		assert.Equal(t, 3, renderer.CallCount())

		calls := renderer.Calls()
		assert.Equal(t, probeContent, calls[0].Content)
		assert.Equal(t, ports.ErrorCorrectionLow, calls[0].Level)
		assert.Equal(t, probeSize, calls[0].Size)
	})
}
