package emvqr

import (
	"fmt"
	"slices"
)

// PayloadFormatIndicator is the value the PromptPay profile writes into tag 00.
const PayloadFormatIndicator = "02"

// rejectedPayloadFormatIndicator is well formed but refused by the scheme profile.
const rejectedPayloadFormatIndicator = "01"

// Declared maximum lengths of the top level data objects.
const (
	maxLenPayloadFormatIndicator     = 2
	maxLenPointOfInitiation          = 2
	maxLenMerchantAccountInformation = 99
	maxLenMerchantCategoryCode       = 4
	maxLenTransactionCurrency        = 3
	maxLenTransactionAmount          = 14
	maxLenTipOrConvenienceIndicator  = 2
	maxLenConvenienceFeeFixed        = 13
	maxLenConvenienceFeePercentage   = 5
	maxLenCountryCode                = 2
	maxLenMerchantName               = 25
	maxLenMerchantCity               = 15
	maxLenPostalCode                 = 10
	maxLenTemplate                   = 99
	maxLenRFU                        = 99
)

// PointOfInitiation tells whether the QR code is reused (static) or
// generated for a single transaction (dynamic).
type PointOfInitiation int

const (
	StaticPoint PointOfInitiation = iota
	DynamicPoint
)

// Code returns the tag 01 value.
func (p PointOfInitiation) Code() string {
	if p == StaticPoint {
		return "11"
	}
	return "12"
}

func (p PointOfInitiation) String() string {
	if p == StaticPoint {
		return "static"
	}
	return "dynamic"
}

// ParsePointOfInitiation accepts "static"/"11" and "dynamic"/"12".
func ParsePointOfInitiation(s string) (PointOfInitiation, error) {
	switch s {
	case "static", "11":
		return StaticPoint, nil
	case "dynamic", "12":
		return DynamicPoint, nil
	}
	return 0, fieldError(TagPointOfInitiationMethod, fmt.Errorf("%w: %q", ErrInvalidValue, s))
}

// Payload holds one slot per top level data object. Setters may be called in
// any order and overwrite their own slot; Build renders the slots in
// canonical order and appends the checksum.
type Payload struct {
	payloadFormatIndicator     *Field
	pointOfInitiation          *Field
	merchantAccountInformation []*Field // ascending by tag
	merchantCategoryCode       *Field
	transactionCurrency        *Field
	transactionAmount          *Field
	tipOrConvenienceIndicator  *Field
	convenienceFeeFixed        *Field
	convenienceFeePercentage   *Field
	countryCode                *Field
	merchantName               *Field
	merchantCity               *Field
	postalCode                 *Field
	additionalData             *Field
	languageTemplate           *Field
	rfu                        []*Field // ascending by tag
	unreserved                 []*Field // ascending by tag
	crc                        *Field
}

// NewPayload creates an empty payload.
func NewPayload() *Payload {
	return &Payload{}
}

func numericField(id TagID, s string, maxLen int) (*Field, error) {
	v, err := NewNumeric(s)
	if err != nil {
		return nil, fieldError(id, err)
	}
	if v.Len() > maxLen {
		return nil, fieldError(id, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, v.Len(), maxLen))
	}
	return NewField(id, v, maxLen), nil
}

func alphanumericField(id TagID, s string, maxLen int) (*Field, error) {
	v, err := NewAlphanumericSpecial(s)
	if err != nil {
		return nil, fieldError(id, err)
	}
	if v.Len() > maxLen {
		return nil, fieldError(id, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, v.Len(), maxLen))
	}
	return NewField(id, v, maxLen), nil
}

// SetPayloadFormatIndicator sets tag 00. "01" is refused even though it is
// a well formed two digit value.
func (p *Payload) SetPayloadFormatIndicator(s string) error {
	if s == "" {
		return fieldError(TagPayloadFormatIndicator, ErrEmptyValue)
	}
	if s == rejectedPayloadFormatIndicator {
		return fieldError(TagPayloadFormatIndicator, ErrPayloadFormatIndicator)
	}
	f, err := numericField(TagPayloadFormatIndicator, s, maxLenPayloadFormatIndicator)
	if err != nil {
		return err
	}
	p.payloadFormatIndicator = f
	return nil
}

func (p *Payload) SetPointOfInitiation(point PointOfInitiation) error {
	f, err := numericField(TagPointOfInitiationMethod, point.Code(), maxLenPointOfInitiation)
	if err != nil {
		return err
	}
	p.pointOfInitiation = f
	return nil
}

// SetMerchantAccountInformation stores the value of one merchant account
// information tag (02-51). Entries render in ascending tag order. Plain
// numeric values are stored as alphanumeric so the outer length is their
// actual length rather than 99.
func (p *Payload) SetMerchantAccountInformation(id TagID, value Value) error {
	if !id.IsMerchantAccountInformation() {
		return fieldError(id, ErrTagOutOfRange)
	}
	if value == nil {
		return fieldError(id, ErrEmptyValue)
	}
	if value.Kind() == KindNumeric {
		v, err := NewAlphanumericSpecial(value.String())
		if err != nil {
			return fieldError(id, err)
		}
		value = v
	}
	p.merchantAccountInformation = setOrdered(p.merchantAccountInformation,
		NewField(id, value, maxLenMerchantAccountInformation))
	return nil
}

// MerchantAccountInformation returns the value stored under id, or nil.
func (p *Payload) MerchantAccountInformation(id TagID) Value {
	i, found := slices.BinarySearchFunc(p.merchantAccountInformation, id, compareFieldID)
	if !found {
		return nil
	}
	return p.merchantAccountInformation[i].Value
}

func (p *Payload) SetMerchantCategoryCode(s string) error {
	f, err := numericField(TagMerchantCategoryCode, s, maxLenMerchantCategoryCode)
	if err != nil {
		return err
	}
	p.merchantCategoryCode = f
	return nil
}

// SetTransactionCurrency takes the ISO 4217 numeric code, e.g. "764".
func (p *Payload) SetTransactionCurrency(s string) error {
	f, err := numericField(TagTransactionCurrency, s, maxLenTransactionCurrency)
	if err != nil {
		return err
	}
	p.transactionCurrency = f
	return nil
}

func (p *Payload) SetTransactionAmount(s string) error {
	f, err := alphanumericField(TagTransactionAmount, s, maxLenTransactionAmount)
	if err != nil {
		return err
	}
	p.transactionAmount = f
	return nil
}

// SetTipOrConvenienceIndicator takes "01" (prompt for tip), "02" (fixed fee)
// or "03" (percentage fee).
func (p *Payload) SetTipOrConvenienceIndicator(s string) error {
	f, err := numericField(TagTipOrConvenienceIndicator, s, maxLenTipOrConvenienceIndicator)
	if err != nil {
		return err
	}
	p.tipOrConvenienceIndicator = f
	return nil
}

func (p *Payload) SetConvenienceFeeFixed(s string) error {
	f, err := alphanumericField(TagConvenienceFeeFixed, s, maxLenConvenienceFeeFixed)
	if err != nil {
		return err
	}
	p.convenienceFeeFixed = f
	return nil
}

func (p *Payload) SetConvenienceFeePercentage(s string) error {
	f, err := alphanumericField(TagConvenienceFeePercentage, s, maxLenConvenienceFeePercentage)
	if err != nil {
		return err
	}
	p.convenienceFeePercentage = f
	return nil
}

// SetCountryCode takes the ISO 3166-1 alpha 2 code, e.g. "TH".
func (p *Payload) SetCountryCode(s string) error {
	f, err := alphanumericField(TagCountryCode, s, maxLenCountryCode)
	if err != nil {
		return err
	}
	p.countryCode = f
	return nil
}

func (p *Payload) SetMerchantName(s string) error {
	f, err := alphanumericField(TagMerchantName, s, maxLenMerchantName)
	if err != nil {
		return err
	}
	p.merchantName = f
	return nil
}

func (p *Payload) SetMerchantCity(s string) error {
	f, err := alphanumericField(TagMerchantCity, s, maxLenMerchantCity)
	if err != nil {
		return err
	}
	p.merchantCity = f
	return nil
}

func (p *Payload) SetPostalCode(s string) error {
	f, err := alphanumericField(TagPostalCode, s, maxLenPostalCode)
	if err != nil {
		return err
	}
	p.postalCode = f
	return nil
}

func (p *Payload) SetAdditionalData(a *AdditionalData) {
	if a == nil {
		p.additionalData = nil
		return
	}
	p.additionalData = NewField(TagAdditionalDataFieldTemplate, a, maxLenTemplate)
}

func (p *Payload) SetLanguageTemplate(l *LanguageTemplate) {
	if l == nil {
		p.languageTemplate = nil
		return
	}
	p.languageTemplate = NewField(TagMerchantInformationLanguage, l, maxLenTemplate)
}

// SetRFU stores a free text data object reserved for future use (65-79).
func (p *Payload) SetRFU(id TagID, s string) error {
	if !id.IsBetween(TagRFUFrom, TagRFUTo) {
		return fieldError(id, ErrTagOutOfRange)
	}
	v, err := NewText(s)
	if err != nil {
		return fieldError(id, err)
	}
	p.rfu = setOrdered(p.rfu, NewField(id, v, maxLenRFU))
	return nil
}

// SetUnreserved stores an unreserved template (80-99).
func (p *Payload) SetUnreserved(id TagID, value Value) error {
	if !id.IsBetween(TagUnreservedFrom, TagUnreservedTo) {
		return fieldError(id, ErrTagOutOfRange)
	}
	if value == nil {
		return fieldError(id, ErrEmptyValue)
	}
	p.unreserved = setOrdered(p.unreserved, NewField(id, value, maxLenTemplate))
	return nil
}

// CheckMandatory returns ErrMissingMandatory, wrapped with the tag id, for
// the first scheme mandatory data object that is not set.
func (p *Payload) CheckMandatory() error {
	if p.payloadFormatIndicator == nil {
		return fieldError(TagPayloadFormatIndicator, ErrMissingMandatory)
	}
	if len(p.merchantAccountInformation) == 0 {
		return fieldError(TagMerchantAccountInformationFrom, ErrMissingMandatory)
	}
	required := []struct {
		id    TagID
		field *Field
	}{
		{TagMerchantCategoryCode, p.merchantCategoryCode},
		{TagTransactionCurrency, p.transactionCurrency},
		{TagCountryCode, p.countryCode},
		{TagMerchantName, p.merchantName},
		{TagMerchantCity, p.merchantCity},
	}
	for _, r := range required {
		if r.field == nil {
			return fieldError(r.id, ErrMissingMandatory)
		}
	}
	return nil
}

// segment lists the set slots in canonical order, without the checksum.
func (p *Payload) segment() *Segment {
	s := NewSegment(p.payloadFormatIndicator, p.pointOfInitiation)
	s.Add(p.merchantAccountInformation...)
	s.Add(
		p.merchantCategoryCode,
		p.transactionCurrency,
		p.transactionAmount,
		p.tipOrConvenienceIndicator,
		p.convenienceFeeFixed,
		p.convenienceFeePercentage,
		p.countryCode,
		p.merchantName,
		p.merchantCity,
		p.postalCode,
		p.additionalData,
		p.languageTemplate,
	)
	s.Add(p.rfu...)
	s.Add(p.unreserved...)
	return s
}

// Build renders the payload and appends the checksum field.
//
// Build is lenient: slots that were never set are skipped, mandatory or not.
// Callers that need scheme conformance use BuildStrict.
func (p *Payload) Build() (string, error) {
	seg := p.segment()
	body, err := seg.Render()
	if err != nil {
		return "", err
	}

	sum := FormatChecksum(Checksum([]byte(body + checksumHeader())))
	v, err := NewAlphanumericSpecial(sum)
	if err != nil {
		return "", fieldError(TagCRC, err)
	}
	p.crc = NewField(TagCRC, v, crcLength)

	return seg.Add(p.crc).Render()
}

// BuildStrict is CheckMandatory followed by Build.
func (p *Payload) BuildStrict() (string, error) {
	if err := p.CheckMandatory(); err != nil {
		return "", err
	}
	return p.Build()
}

// Checksum returns the checksum computed by the last successful Build.
func (p *Payload) Checksum() string {
	if p.crc == nil {
		return ""
	}
	return p.crc.Value.String()
}

func setOrdered(fields []*Field, f *Field) []*Field {
	i, found := slices.BinarySearchFunc(fields, f.ID, compareFieldID)
	if found {
		fields[i] = f
		return fields
	}
	return slices.Insert(fields, i, f)
}
