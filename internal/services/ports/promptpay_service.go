package ports

import (
	"context"

	"github.com/kevin07696/promptpay-service/internal/domain"
)

// PromptPayService is the business logic behind the QR endpoints
type PromptPayService interface {
	// GenerateQRCode builds the payload and renders it as a PNG
	GenerateQRCode(ctx context.Context, req *domain.QRCodeRequest) (*domain.QRCodeResult, error)

	// BuildPayload builds the payload text only
	BuildPayload(ctx context.Context, req *domain.QRCodeRequest) (*domain.QRCodeResult, error)

	// Verify decodes a payload text and checks its checksum
	Verify(ctx context.Context, payload string) (*domain.VerificationResult, error)
}
