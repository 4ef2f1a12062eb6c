package emvqr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/kevin07696/promptpay-service/pkg/errors"
)

// Sentinel errors returned (wrapped) by the encoder and decoder.
var (
	ErrEmptyValue             = errors.New("value is empty")
	ErrInvalidValue           = errors.New("value contains characters not allowed for its type")
	ErrLengthExceeded         = errors.New("value exceeds declared maximum length")
	ErrInvalidTag             = errors.New("tag id must be two decimal digits")
	ErrTagOutOfRange          = errors.New("tag id outside allowed range")
	ErrPayloadFormatIndicator = errors.New("payload format indicator value not allowed")
	ErrMissingMandatory       = errors.New("mandatory field not set")

	ErrMalformedPayload = errors.New("malformed payload")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// FieldError ties an encoding failure to the tag that produced it.
// Nested templates produce chains such as "tag 29: tag 01: ...".
type FieldError struct {
	Tag TagID
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag %s: %v", e.Tag, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(tag TagID, err error) error {
	return &FieldError{Tag: tag, Err: err}
}

// invalid builds the construction-time error for a typed value.
func invalid(kind Kind, message string, err error) error {
	return pkgerrors.WrapValidationError(kind.String(), message, err)
}

// IsClientError reports whether err was caused by caller-supplied data
// (charset, emptiness, length, tag range, scheme guard, missing field)
// rather than by a defect.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyValue),
		errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrLengthExceeded),
		errors.Is(err, ErrInvalidTag),
		errors.Is(err, ErrTagOutOfRange),
		errors.Is(err, ErrPayloadFormatIndicator),
		errors.Is(err, ErrMissingMandatory),
		errors.Is(err, ErrMalformedPayload),
		errors.Is(err, ErrChecksumMismatch):
		return true
	}
	return pkgerrors.IsValidationError(err)
}
