package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestDomainErrors_Sentinels tests the predefined domain errors
func TestDomainErrors_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		code     ErrorCode
		contains string
	}{
		{name: "validation_failed", err: ErrValidationFailed, code: ErrorCodeValidationFailed, contains: "validation failed"},
		{name: "amount_invalid", err: ErrValidationAmountInvalid, code: ErrorCodeValidationAmountInvalid, contains: "invalid amount"},
		{name: "missing_field", err: ErrValidationMissingField, code: ErrorCodeValidationMissingField, contains: "required field missing"},
		{name: "render_failed", err: ErrQRRenderFailed, code: ErrorCodeQRRenderFailed, contains: "qr code rendering failed"},
		{name: "timeout", err: ErrRequestTimeout, code: ErrorCodeRequestTimeout, contains: "request timed out"},
		{name: "internal", err: ErrInternalError, code: ErrorCodeInternalError, contains: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if !strings.Contains(strings.ToLower(tt.err.Error()), tt.contains) {
				t.Errorf("error message %q does not contain %q", tt.err.Error(), tt.contains)
			}
			if !strings.HasPrefix(tt.err.Error(), string(tt.code)+": ") {
				t.Errorf("error message %q does not start with its code", tt.err.Error())
			}
		})
	}
}

// TestDomainErrors_Classification tests the IsXxx helpers through wrapping
func TestDomainErrors_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		timeout    bool
		render     bool
	}{
		{name: "validation_failed", err: NewDomainError(ErrorCodeValidationFailed, "bad"), validation: true},
		{name: "amount_invalid", err: NewDomainError(ErrorCodeValidationAmountInvalid, "bad"), validation: true},
		{name: "missing_field", err: NewDomainError(ErrorCodeValidationMissingField, "bad"), validation: true},
		{name: "wrapped_validation", err: fmt.Errorf("handler: %w", NewDomainError(ErrorCodeValidationFailed, "bad")), validation: true},
		{name: "timeout", err: WrapError(ErrorCodeRequestTimeout, "slow", errors.New("deadline")), timeout: true},
		{name: "render", err: WrapError(ErrorCodeQRRenderFailed, "render", errors.New("too long")), render: true},
		{name: "internal", err: NewDomainError(ErrorCodeInternalError, "oops")},
		{name: "plain_error", err: errors.New("plain")},
		{name: "nil_error", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError = %v, want %v", got, tt.validation)
			}
			if got := IsTimeoutError(tt.err); got != tt.timeout {
				t.Errorf("IsTimeoutError = %v, want %v", got, tt.timeout)
			}
			if got := IsRenderError(tt.err); got != tt.render {
				t.Errorf("IsRenderError = %v, want %v", got, tt.render)
			}
		})
	}
}

func TestDomainError_WrapAndDetails(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(ErrorCodeQRRenderFailed, "render", cause).
		WithDetail("size", 320).
		WithDetail("level", "low")

	if err.Error() != "QR_RENDER_FAILED: render: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Details["size"] != 320 || err.Details["level"] != "low" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if !IsDomainError(err, ErrorCodeQRRenderFailed) || IsDomainError(err, ErrorCodeInternalError) {
		t.Error("IsDomainError did not match the code")
	}
	if GetErrorCode(cause) != "" {
		t.Error("plain errors have no code")
	}

	// WithDetail on a literal without a map allocates one.
	bare := &DomainError{Code: ErrorCodeInternalError, Message: "x"}
	bare.WithDetail("k", "v")
	if bare.Details["k"] != "v" {
		t.Error("WithDetail did not allocate details")
	}
}
