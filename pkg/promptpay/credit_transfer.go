// Package promptpay implements the PromptPay credit transfer merchant
// account information template carried in EMV QR tags 02-51.
package promptpay

import (
	"fmt"
	"unicode/utf8"

	"github.com/kevin07696/promptpay-service/pkg/emvqr"
)

// Scheme constants for Thailand.
const (
	CurrencyBaht    = "764"
	CountryThailand = "TH"
	LanguageThai    = "TH"

	// DefaultMerchantAccountTag is where PromptPay credit transfer lives.
	DefaultMerchantAccountTag emvqr.TagID = "29"
)

// Credit transfer sub tags.
const (
	TagAID         emvqr.TagID = "00"
	TagMobile      emvqr.TagID = "01"
	TagNationalID  emvqr.TagID = "02"
	TagEWalletID   emvqr.TagID = "03"
	TagBankAccount emvqr.TagID = "04"
	TagOTA         emvqr.TagID = "05"
)

const (
	maxLenAID         = 16
	maxLenMobile      = 13
	maxLenNationalID  = 13
	maxLenEWalletID   = 15
	maxLenBankAccount = 43
	maxLenOTA         = 10
)

// Application ids selecting the presented type.
const (
	AIDMerchantPresented = "A000000677010111"
	AIDCustomerPresented = "A000000677010114"
)

// PresentedType selects which application id the template carries.
type PresentedType int

const (
	MerchantPresented PresentedType = iota
	CustomerPresented
)

// AID returns the application id constant for t.
func (t PresentedType) AID() string {
	if t == CustomerPresented {
		return AIDCustomerPresented
	}
	return AIDMerchantPresented
}

func (t PresentedType) String() string {
	if t == CustomerPresented {
		return "customer"
	}
	return "merchant"
}

// ParsePresentedType accepts "merchant" or "customer".
func ParsePresentedType(s string) (PresentedType, error) {
	switch s {
	case "merchant":
		return MerchantPresented, nil
	case "customer":
		return CustomerPresented, nil
	}
	return 0, fmt.Errorf("unknown presented type %q", s)
}

// CreditTransfer is the PromptPay credit transfer template. Its value is the
// concatenation of the set sub fields in the order AID, mobile, national id,
// e-wallet id, bank account; the one-time (OTA) sub field follows only when
// the template carries the customer presented AID.
type CreditTransfer struct {
	aid         *emvqr.Field
	mobile      *emvqr.Field
	nationalID  *emvqr.Field
	eWalletID   *emvqr.Field
	bankAccount *emvqr.Field
	ota         *emvqr.Field
}

// NewCreditTransfer creates a template carrying the AID for t.
func NewCreditTransfer(t PresentedType) *CreditTransfer {
	c := &CreditTransfer{}
	c.SetPresentedType(t)
	return c
}

// SetPresentedType replaces the AID sub field.
func (c *CreditTransfer) SetPresentedType(t PresentedType) {
	// Both AID constants are valid alphanumeric strings.
	v, _ := emvqr.NewAlphanumericSpecial(t.AID())
	c.aid = emvqr.NewField(TagAID, v, maxLenAID)
}

// PresentedType reports the presented type of the current AID.
func (c *CreditTransfer) PresentedType() PresentedType {
	if c.customerPresented() {
		return CustomerPresented
	}
	return MerchantPresented
}

func numeric(id emvqr.TagID, s string, maxLen int) (*emvqr.Field, error) {
	v, err := emvqr.NewNumeric(s)
	if err != nil {
		return nil, &emvqr.FieldError{Tag: id, Err: err}
	}
	if v.Len() > maxLen {
		return nil, &emvqr.FieldError{
			Tag: id,
			Err: fmt.Errorf("%w: %d > %d", emvqr.ErrLengthExceeded, v.Len(), maxLen),
		}
	}
	return emvqr.NewField(id, v, maxLen), nil
}

func (c *CreditTransfer) SetMobileNumber(s string) error {
	f, err := numeric(TagMobile, s, maxLenMobile)
	if err != nil {
		return err
	}
	c.mobile = f
	return nil
}

func (c *CreditTransfer) SetNationalID(s string) error {
	f, err := numeric(TagNationalID, s, maxLenNationalID)
	if err != nil {
		return err
	}
	c.nationalID = f
	return nil
}

func (c *CreditTransfer) SetEWalletID(s string) error {
	f, err := numeric(TagEWalletID, s, maxLenEWalletID)
	if err != nil {
		return err
	}
	c.eWalletID = f
	return nil
}

func (c *CreditTransfer) SetBankAccount(s string) error {
	f, err := numeric(TagBankAccount, s, maxLenBankAccount)
	if err != nil {
		return err
	}
	c.bankAccount = f
	return nil
}

// SetOTA sets the one-time value. It is rendered only under the customer
// presented AID.
func (c *CreditTransfer) SetOTA(s string) error {
	f, err := numeric(TagOTA, s, maxLenOTA)
	if err != nil {
		return err
	}
	c.ota = f
	return nil
}

func (c *CreditTransfer) customerPresented() bool {
	return c.aid != nil && c.aid.Value.String() == AIDCustomerPresented
}

func (c *CreditTransfer) Render() (string, error) {
	seg := emvqr.NewSegment(c.aid, c.mobile, c.nationalID, c.eWalletID, c.bankAccount)
	if c.customerPresented() {
		seg.Add(c.ota)
	}
	return seg.Render()
}

func (c *CreditTransfer) Len() int {
	s, err := c.Render()
	if err != nil {
		return 0
	}
	return utf8.RuneCountInString(s)
}

func (c *CreditTransfer) Valid() bool {
	s, err := c.Render()
	return err == nil && s != ""
}

func (c *CreditTransfer) String() string {
	s, _ := c.Render()
	return s
}

func (c *CreditTransfer) Kind() emvqr.Kind {
	return emvqr.KindTemplate
}
