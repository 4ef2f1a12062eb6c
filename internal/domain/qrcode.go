package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/promptpay-service/pkg/security"
)

// MaxAmountScale is the number of fraction digits a baht amount may carry.
const MaxAmountScale = 2

// QRCodeRequest is one PromptPay payment request. Only the transaction
// specific values travel with the request; merchant category, city, postal
// code and the rest come from the configured merchant profile.
type QRCodeRequest struct {
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	MobileNumber      string          `json:"mobile_number"`
	MerchantName      string          `json:"merchant_name"`

	// Optional
	Reference  string `json:"reference,omitempty"`
	BillNumber string `json:"bill_number,omitempty"`
}

// Validate checks request level rules. Charset and length rules of the
// individual fields are enforced by the payload encoder.
func (r *QRCodeRequest) Validate() error {
	if !r.TransactionAmount.IsPositive() {
		return NewDomainError(ErrorCodeValidationAmountInvalid, "transaction_amount must be greater than zero").
			WithDetail("field", "transaction_amount")
	}
	if !r.TransactionAmount.Equal(r.TransactionAmount.Round(MaxAmountScale)) {
		return NewDomainError(ErrorCodeValidationAmountInvalid, "transaction_amount has more than 2 decimal places").
			WithDetail("field", "transaction_amount")
	}
	if r.MobileNumber == "" {
		return NewDomainError(ErrorCodeValidationMissingField, "mobile_number is required").
			WithDetail("field", "mobile_number")
	}
	if strings.TrimSpace(r.MerchantName) == "" {
		return NewDomainError(ErrorCodeValidationMissingField, "merchant_name is required").
			WithDetail("field", "merchant_name")
	}
	return nil
}

// FormattedAmount renders the amount the way it is written into tag 54:
// no exponent, no trailing zeros, e.g. 50 -> "50", 12.50 -> "12.5".
func (r *QRCodeRequest) FormattedAmount() string {
	return r.TransactionAmount.String()
}

// MaskedMobileNumber keeps the last four digits for logging.
func (r *QRCodeRequest) MaskedMobileNumber() string {
	return security.MaskDigits(r.MobileNumber, 4)
}

// QRCodeResult is what one successful generation produces.
type QRCodeResult struct {
	ID        string    `json:"id"`
	Payload   string    `json:"payload"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`

	// PNG holds the raw image; ImageBase64 its transport encoding. Both are
	// empty when only the payload was requested.
	PNG         []byte `json:"-"`
	ImageBase64 string `json:"-"`
}

// VerifiedField is one decoded data object. Template values are decoded one
// level further into Children when they parse as TLV.
type VerifiedField struct {
	ID       string          `json:"id"`
	Length   int             `json:"length"`
	Value    string          `json:"value"`
	Children []VerifiedField `json:"children,omitempty"`
}

// VerificationResult reports whether a payload text is well formed and its
// checksum matches.
type VerificationResult struct {
	Valid  bool            `json:"valid"`
	Fields []VerifiedField `json:"fields"`
	Reason string          `json:"reason,omitempty"`
}
