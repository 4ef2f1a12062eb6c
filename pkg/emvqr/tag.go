// Package emvqr encodes EMV merchant-presented QR payloads: a flat text of
// tag(2) + length(2) + value segments terminated by a CRC-16 checksum field.
//
// The package is pure computation. A Payload is populated through setters,
// rendered once by Build and then discarded; nothing is shared between
// payloads, so concurrent requests simply use independent instances.
package emvqr

import "strconv"

// TagID is a two character decimal data object id, "00" through "99".
type TagID string

// Top level data objects.
const (
	TagPayloadFormatIndicator         TagID = "00" // (M)
	TagPointOfInitiationMethod        TagID = "01" // (O)
	TagMerchantAccountInformationFrom TagID = "02" // (M) 02-51
	TagMerchantAccountInformationTo   TagID = "51"
	TagMerchantCategoryCode           TagID = "52" // (M)
	TagTransactionCurrency            TagID = "53" // (M)
	TagTransactionAmount              TagID = "54" // (C)
	TagTipOrConvenienceIndicator      TagID = "55" // (O)
	TagConvenienceFeeFixed            TagID = "56" // (C)
	TagConvenienceFeePercentage       TagID = "57" // (C)
	TagCountryCode                    TagID = "58" // (M)
	TagMerchantName                   TagID = "59" // (M)
	TagMerchantCity                   TagID = "60" // (M)
	TagPostalCode                     TagID = "61" // (O)
	TagAdditionalDataFieldTemplate    TagID = "62" // (O)
	TagCRC                            TagID = "63" // (M)
	TagMerchantInformationLanguage    TagID = "64" // (O)
	TagRFUFrom                        TagID = "65" // (O) 65-79 RFU for EMVCo
	TagRFUTo                          TagID = "79"
	TagUnreservedFrom                 TagID = "80" // (O) 80-99 unreserved templates
	TagUnreservedTo                   TagID = "99"
)

// Merchant account information template (02-51) and unreserved template
// (80-99) sub ids.
const (
	SubTagGloballyUniqueIdentifier TagID = "00"
	SubTagNetworkSpecificFrom      TagID = "01"
	SubTagNetworkSpecificTo        TagID = "99"
)

// Additional data field template (62) sub ids.
const (
	AdditionalTagBillNumber           TagID = "01"
	AdditionalTagMobileNumber         TagID = "02"
	AdditionalTagStoreLabel           TagID = "03"
	AdditionalTagLoyaltyNumber        TagID = "04"
	AdditionalTagReferenceLabel       TagID = "05"
	AdditionalTagCustomerLabel        TagID = "06"
	AdditionalTagTerminalLabel        TagID = "07"
	AdditionalTagPurposeOfTransaction TagID = "08"
	AdditionalTagConsumerDataRequest  TagID = "09"
	AdditionalTagRFUFrom              TagID = "10"
	AdditionalTagRFUTo                TagID = "49"
	AdditionalTagPaymentSystemFrom    TagID = "50"
	AdditionalTagPaymentSystemTo      TagID = "99"
)

// Merchant information language template (64) sub ids.
const (
	LanguageTagPreference   TagID = "00" // (M)
	LanguageTagMerchantName TagID = "01" // (M)
	LanguageTagMerchantCity TagID = "02" // (O)
	LanguageTagRFUFrom      TagID = "03"
	LanguageTagRFUTo        TagID = "99"
)

// crcLength is the fixed length of the checksum value.
const crcLength = 4

// ParseTagID validates that s is exactly two decimal digits.
func ParseTagID(s string) (TagID, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return "", fieldError(TagID(s), ErrInvalidTag)
	}
	return TagID(s), nil
}

// Int returns the numeric value of the tag, and false when the tag is not
// two decimal digits.
func (t TagID) Int() (int, bool) {
	if _, err := ParseTagID(string(t)); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(string(t))
	return n, err == nil
}

// IsBetween reports whether t lies in the inclusive range [start, end].
// Malformed ids are never in range.
func (t TagID) IsBetween(start, end TagID) bool {
	n, ok := t.Int()
	if !ok {
		return false
	}
	lo, ok := start.Int()
	if !ok {
		return false
	}
	hi, ok := end.Int()
	if !ok {
		return false
	}
	return n >= lo && n <= hi
}

func (t TagID) String() string {
	return string(t)
}

// IsMerchantAccountInformation reports whether t is in 02-51.
func (t TagID) IsMerchantAccountInformation() bool {
	return t.IsBetween(TagMerchantAccountInformationFrom, TagMerchantAccountInformationTo)
}

// IsTemplate reports whether the top level object t carries nested TLV data
// (merchant account information, 62, 64 and the unreserved range).
func (t TagID) IsTemplate() bool {
	return t.IsMerchantAccountInformation() ||
		t == TagAdditionalDataFieldTemplate ||
		t == TagMerchantInformationLanguage ||
		t.IsBetween(TagUnreservedFrom, TagUnreservedTo)
}
