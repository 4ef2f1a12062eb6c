// Package qrcode renders payload text into PNG images with skip2/go-qrcode.
package qrcode

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	goqrcode "github.com/skip2/go-qrcode"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/promptpay-service/pkg/errors"
)

// MaxSize bounds the requested pixel size.
const MaxSize = 4096

// Renderer implements ports.QRRenderer
type Renderer struct {
	logger ports.Logger
}

// NewRenderer creates a renderer that reports through logger
func NewRenderer(logger ports.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render encodes content as a size x size PNG. The rasterizer itself cannot
// be interrupted, so ctx is only checked before it starts.
func (r *Renderer) Render(ctx context.Context, content string, level ports.ErrorCorrection, size int) ([]byte, error) {
	if content == "" {
		return nil, pkgerrors.NewValidationError("content", "content is required")
	}
	if size <= 0 || size > MaxSize {
		return nil, pkgerrors.NewValidationError("size", fmt.Sprintf("size must be between 1 and %d", MaxSize))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	png, err := goqrcode.Encode(content, recoveryLevel(level), size)
	if err != nil {
		r.logger.Error("QR encoding failed",
			ports.String("level", level.String()),
			ports.Int("size", size),
			ports.Err(err))
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	r.logger.Debug("QR code rendered",
		ports.String("level", level.String()),
		ports.Int("size", size),
		ports.Int("bytes", len(png)),
		ports.Duration("duration", time.Since(start)))

	return png, nil
}

func recoveryLevel(level ports.ErrorCorrection) goqrcode.RecoveryLevel {
	switch level {
	case ports.ErrorCorrectionMedium:
		return goqrcode.Medium
	case ports.ErrorCorrectionHigh:
		return goqrcode.High
	case ports.ErrorCorrectionHighest:
		return goqrcode.Highest
	default:
		return goqrcode.Low
	}
}

// EncodeBase64 is the transport encoding used for image response bodies.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
