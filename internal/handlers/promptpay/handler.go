// Package promptpay exposes the QR service over HTTP.
package promptpay

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevin07696/promptpay-service/internal/domain"
	"github.com/kevin07696/promptpay-service/internal/services/ports"
	"github.com/kevin07696/promptpay-service/pkg/encoding"
	"github.com/kevin07696/promptpay-service/pkg/middleware"
)

// maxBodyBytes bounds request bodies; payload texts are a few hundred bytes.
const maxBodyBytes = 16 << 10

// Handler serves the PromptPay QR endpoints
type Handler struct {
	service ports.PromptPayService
	logger  *zap.Logger
}

// NewHandler creates a new PromptPay handler
func NewHandler(service ports.PromptPayService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AppendRoutes mounts the endpoints on r
func (h *Handler) AppendRoutes(r chi.Router) {
	r.Route("/promptpay", func(r chi.Router) {
		r.Post("/qrcode", h.generateQRCode)
		r.Post("/payload", h.buildPayload)
	})
	r.Post("/emvqr/verify", h.verify)
}

// PayloadResponse is the body of POST /promptpay/payload
type PayloadResponse struct {
	ID       string `json:"id"`
	Payload  string `json:"payload"`
	Checksum string `json:"checksum"`
}

// VerifyRequest is the body of POST /emvqr/verify
type VerifyRequest struct {
	Payload string `json:"payload"`
}

// generateQRCode answers with the base64 encoded PNG
func (h *Handler) generateQRCode(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.GenerateQRCode(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Transfer-Encoding", "base64")
	w.Header().Set("X-QR-Checksum", result.Checksum)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.ImageBase64)
}

func (h *Handler) buildPayload(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.BuildPayload(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	_ = encoding.WriteJSON(w, http.StatusOK, PayloadResponse{
		ID:       result.ID,
		Payload:  result.Payload,
		Checksum: result.Checksum,
	})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Invalid verify request body", zap.Error(err))
		_ = encoding.WriteError(w, http.StatusBadRequest, "bad request")
		return
	}

	result, err := h.service.Verify(r.Context(), req.Payload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	_ = encoding.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*domain.QRCodeRequest, bool) {
	var req domain.QRCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Invalid request body",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		_ = encoding.WriteError(w, http.StatusBadRequest, "bad request")
		return nil, false
	}
	return &req, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps a service error to a short category. Internal
// detail only goes to the log.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("code", string(domain.GetErrorCode(err))),
		zap.Error(err),
	}

	switch {
	case domain.IsValidationError(err):
		h.logger.Info("Request rejected", fields...)
		_ = encoding.WriteError(w, http.StatusBadRequest, "bad request")
	case domain.IsTimeoutError(err):
		h.logger.Warn("Request timed out", fields...)
		_ = encoding.WriteError(w, http.StatusGatewayTimeout, "timeout")
	default:
		h.logger.Error("Request failed", fields...)
		_ = encoding.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
