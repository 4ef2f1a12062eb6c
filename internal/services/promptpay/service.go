// Package promptpay turns payment requests into PromptPay QR payloads and
// images using the configured merchant profile.
package promptpay

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/promptpay-service/internal/adapters/ports"
	"github.com/kevin07696/promptpay-service/internal/adapters/qrcode"
	"github.com/kevin07696/promptpay-service/internal/config"
	"github.com/kevin07696/promptpay-service/internal/domain"
	svcports "github.com/kevin07696/promptpay-service/internal/services/ports"
	"github.com/kevin07696/promptpay-service/pkg/emvqr"
	"github.com/kevin07696/promptpay-service/pkg/observability"
	scheme "github.com/kevin07696/promptpay-service/pkg/promptpay"
	"github.com/kevin07696/promptpay-service/pkg/resilience"
	"github.com/kevin07696/promptpay-service/pkg/security"
)

// Metric status labels
const (
	statusSuccess      = "success"
	statusInvalid      = "invalid"
	statusRenderFailed = "render_failed"
	statusTimeout      = "timeout"
	statusError        = "error"

	outputPayload = "payload"
	outputImage   = "image"
)

// Service builds payloads and renders them. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	profile   config.MerchantProfile
	tag       emvqr.TagID
	presented scheme.PresentedType
	point     emvqr.PointOfInitiation
	level     ports.ErrorCorrection
	size      int

	renderer ports.QRRenderer
	timeouts *resilience.TimeoutConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewService parses the profile and image settings once so request handling
// never fails on configuration.
func NewService(
	profile config.MerchantProfile,
	qr config.QRConfig,
	renderer ports.QRRenderer,
	timeouts *resilience.TimeoutConfig,
	logger *zap.Logger,
) (*Service, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid merchant profile: %w", err)
	}
	presented, err := scheme.ParsePresentedType(profile.PresentedType)
	if err != nil {
		return nil, err
	}
	point, err := emvqr.ParsePointOfInitiation(profile.PointOfInitiation)
	if err != nil {
		return nil, err
	}
	level, err := ports.ParseErrorCorrection(qr.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	if qr.Size <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", qr.Size)
	}
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}

	return &Service{
		profile:   profile,
		tag:       emvqr.TagID(profile.MerchantAccountTag),
		presented: presented,
		point:     point,
		level:     level,
		size:      qr.Size,
		renderer:  renderer,
		timeouts:  timeouts,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// BuildPayload returns the TLV text and checksum for req without rendering
// an image.
func (s *Service) BuildPayload(ctx context.Context, req *domain.QRCodeRequest) (*domain.QRCodeResult, error) {
	result, err := s.build(ctx, req)
	s.record(outputPayload, req, result, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PromptPay payload built",
		zap.String("id", result.ID),
		security.MaskedMobile("mobile_number", req.MobileNumber),
		zap.String("amount", req.FormattedAmount()),
		zap.String("checksum", result.Checksum),
	)
	return result, nil
}

// GenerateQRCode builds the payload and renders it as a PNG with its
// base64 transport encoding.
func (s *Service) GenerateQRCode(ctx context.Context, req *domain.QRCodeRequest) (*domain.QRCodeResult, error) {
	ctx, cancel := s.timeouts.ServiceContext(ctx)
	defer cancel()

	result, err := s.build(ctx, req)
	if err == nil {
		err = s.render(ctx, result)
	}
	s.record(outputImage, req, result, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PromptPay QR code generated",
		zap.String("id", result.ID),
		security.MaskedMobile("mobile_number", req.MobileNumber),
		zap.String("amount", req.FormattedAmount()),
		zap.Int("png_bytes", len(result.PNG)),
	)
	return result, nil
}

func (s *Service) build(ctx context.Context, req *domain.QRCodeRequest) (*domain.QRCodeResult, error) {
	if req == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err)
	}

	p, err := s.newPayload(req)
	if err != nil {
		return nil, s.payloadError(err)
	}
	text, err := p.BuildStrict()
	if err != nil {
		return nil, s.payloadError(err)
	}

	return &domain.QRCodeResult{
		ID:        uuid.New().String(),
		Payload:   text,
		Checksum:  p.Checksum(),
		CreatedAt: s.now().UTC(),
	}, nil
}

// newPayload maps the request and merchant profile onto the payload slots.
func (s *Service) newPayload(req *domain.QRCodeRequest) (*emvqr.Payload, error) {
	account := scheme.NewCreditTransfer(s.presented)
	if err := account.SetMobileNumber(req.MobileNumber); err != nil {
		return nil, &emvqr.FieldError{Tag: s.tag, Err: err}
	}

	p := emvqr.NewPayload()
	steps := []func() error{
		func() error { return p.SetPayloadFormatIndicator(emvqr.PayloadFormatIndicator) },
		func() error { return p.SetPointOfInitiation(s.point) },
		func() error { return p.SetMerchantAccountInformation(s.tag, account) },
		func() error { return p.SetMerchantCategoryCode(s.profile.MerchantCategoryCode) },
		func() error { return p.SetTransactionCurrency(s.profile.Currency) },
		func() error { return p.SetTransactionAmount(req.FormattedAmount()) },
		func() error { return p.SetCountryCode(s.profile.CountryCode) },
		func() error { return p.SetMerchantName(req.MerchantName) },
		func() error { return p.SetMerchantCity(s.profile.MerchantCity) },
	}
	if s.profile.PostalCode != "" {
		steps = append(steps, func() error { return p.SetPostalCode(s.profile.PostalCode) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if req.Reference != "" || req.BillNumber != "" {
		data := emvqr.NewAdditionalData()
		if req.BillNumber != "" {
			if err := data.SetBillNumber(req.BillNumber); err != nil {
				return nil, &emvqr.FieldError{Tag: emvqr.TagAdditionalDataFieldTemplate, Err: err}
			}
		}
		if req.Reference != "" {
			if err := data.SetReferenceLabel(req.Reference); err != nil {
				return nil, &emvqr.FieldError{Tag: emvqr.TagAdditionalDataFieldTemplate, Err: err}
			}
		}
		p.SetAdditionalData(data)
	}

	if s.profile.LanguagePreference != "" {
		lang, err := s.languageTemplate()
		if err != nil {
			return nil, &emvqr.FieldError{Tag: emvqr.TagMerchantInformationLanguage, Err: err}
		}
		p.SetLanguageTemplate(lang)
	}

	return p, nil
}

func (s *Service) languageTemplate() (*emvqr.LanguageTemplate, error) {
	lang, err := emvqr.NewLanguageTemplate(s.profile.LanguagePreference)
	if err != nil {
		return nil, err
	}
	if s.profile.AlternateName != "" {
		if err := lang.SetMerchantName(s.profile.AlternateName); err != nil {
			return nil, err
		}
	}
	if s.profile.AlternateCity != "" {
		if err := lang.SetMerchantCity(s.profile.AlternateCity); err != nil {
			return nil, err
		}
	}
	return lang, nil
}

// render runs the rasterizer under the render timeout. The rasterizer does
// not observe ctx, so the wait is abandoned when the deadline passes.
func (s *Service) render(ctx context.Context, result *domain.QRCodeResult) error {
	ctx, cancel := s.timeouts.RenderContext(ctx)
	defer cancel()

	type rendered struct {
		png []byte
		err error
	}
	done := make(chan rendered, 1)

	start := time.Now()
	go func() {
		png, err := s.renderer.Render(ctx, result.Payload, s.level, s.size)
		done <- rendered{png: png, err: err}
	}()

	var out rendered
	select {
	case out = <-done:
	case <-ctx.Done():
		return timeoutError(ctx.Err())
	}
	observability.RecordRender(s.level.String(), time.Since(start).Seconds())

	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) || errors.Is(out.err, context.Canceled) {
			return timeoutError(out.err)
		}
		s.logger.Error("QR rendering failed",
			zap.String("id", result.ID),
			zap.Error(out.err),
		)
		return domain.WrapError(domain.ErrorCodeQRRenderFailed, "qr code rendering failed", out.err)
	}

	result.PNG = out.png
	result.ImageBase64 = qrcode.EncodeBase64(out.png)
	return nil
}

// payloadError classifies an encoder failure. Anything the caller could fix
// is a validation failure; the rest points at the configured profile.
func (s *Service) payloadError(err error) error {
	if emvqr.IsClientError(err) {
		s.logger.Warn("Rejected payment data", zap.Error(err))
		return domain.WrapError(domain.ErrorCodeValidationFailed, "invalid payment data", err)
	}
	s.logger.Error("Payload build failed", zap.Error(err))
	return domain.WrapError(domain.ErrorCodeInternalError, "payload build failed", err)
}

func timeoutError(err error) error {
	return domain.WrapError(domain.ErrorCodeRequestTimeout, "request timed out", err)
}

func (s *Service) record(output string, req *domain.QRCodeRequest, result *domain.QRCodeResult, err error) {
	amount, length := decimal.Zero, 0
	if err == nil {
		amount = req.TransactionAmount
		length = utf8.RuneCountInString(result.Payload)
	}
	observability.RecordPayload(s.presented.String(), output, statusFor(err), s.profile.Currency, amount, length)
}

func statusFor(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case domain.IsValidationError(err):
		return statusInvalid
	case domain.IsRenderError(err):
		return statusRenderFailed
	case domain.IsTimeoutError(err):
		return statusTimeout
	default:
		return statusError
	}
}

var _ svcports.PromptPayService = (*Service)(nil)
