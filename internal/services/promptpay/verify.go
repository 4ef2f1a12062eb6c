package promptpay

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/promptpay-service/internal/domain"
	"github.com/kevin07696/promptpay-service/pkg/emvqr"
	"github.com/kevin07696/promptpay-service/pkg/observability"
)

// Verification result labels
const (
	verifyValid            = "valid"
	verifyChecksumMismatch = "checksum_mismatch"
	verifyMalformed        = "malformed"
)

// Verify decodes a payload text and checks its trailing checksum. A payload
// that fails either check is reported as invalid, not as an error; only an
// empty payload is rejected.
func (s *Service) Verify(ctx context.Context, payload string) (*domain.VerificationResult, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "payload is required").
			WithDetail("field", "payload")
	}
	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err)
	}

	entries, err := emvqr.Verify(payload)
	result := &domain.VerificationResult{
		Valid:  err == nil,
		Fields: verifiedFields(entries),
	}

	switch {
	case err == nil:
		observability.RecordVerification(verifyValid)
	case errors.Is(err, emvqr.ErrChecksumMismatch):
		observability.RecordVerification(verifyChecksumMismatch)
		result.Reason = err.Error()
	default:
		observability.RecordVerification(verifyMalformed)
		result.Reason = err.Error()
	}

	s.logger.Debug("Payload verified",
		zap.Bool("valid", result.Valid),
		zap.Int("fields", len(result.Fields)),
	)
	return result, nil
}

func verifiedFields(entries []emvqr.Entry) []domain.VerifiedField {
	fields := make([]domain.VerifiedField, 0, len(entries))
	for _, e := range entries {
		f := domain.VerifiedField{
			ID:     e.ID.String(),
			Length: e.Length,
			Value:  e.Value,
		}
		if e.ID.IsTemplate() {
			if children, err := emvqr.Decode(e.Value); err == nil {
				f.Children = verifiedFields(children)
			}
		}
		fields = append(fields, f)
	}
	return fields
}
