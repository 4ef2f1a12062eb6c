package emvqr

// Maximum lengths of the additional data field template (62) sub fields.
const (
	maxLenAdditionalLabel       = 25
	maxLenConsumerDataRequest   = 3
	maxLenPaymentSystemTemplate = 99
)

// AdditionalData is the additional data field template (tag 62).
type AdditionalData struct {
	Template
}

// NewAdditionalData creates an empty additional data template.
func NewAdditionalData() *AdditionalData {
	return &AdditionalData{}
}

func (a *AdditionalData) setLabel(id TagID, value string, maxLen int) error {
	v, err := NewAlphanumericSpecial(value)
	if err != nil {
		return fieldError(id, err)
	}
	a.Set(NewField(id, v, maxLen))
	return nil
}

func (a *AdditionalData) SetBillNumber(v string) error {
	return a.setLabel(AdditionalTagBillNumber, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetMobileNumber(v string) error {
	return a.setLabel(AdditionalTagMobileNumber, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetStoreLabel(v string) error {
	return a.setLabel(AdditionalTagStoreLabel, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetLoyaltyNumber(v string) error {
	return a.setLabel(AdditionalTagLoyaltyNumber, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetReferenceLabel(v string) error {
	return a.setLabel(AdditionalTagReferenceLabel, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetCustomerLabel(v string) error {
	return a.setLabel(AdditionalTagCustomerLabel, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetTerminalLabel(v string) error {
	return a.setLabel(AdditionalTagTerminalLabel, v, maxLenAdditionalLabel)
}

func (a *AdditionalData) SetPurposeOfTransaction(v string) error {
	return a.setLabel(AdditionalTagPurposeOfTransaction, v, maxLenAdditionalLabel)
}

// SetConsumerDataRequest takes any combination of "A" (address),
// "M" (mobile) and "E" (email).
func (a *AdditionalData) SetConsumerDataRequest(v string) error {
	return a.setLabel(AdditionalTagConsumerDataRequest, v, maxLenConsumerDataRequest)
}

// SetPaymentSystemTemplate stores a payment system specific template (50-99).
func (a *AdditionalData) SetPaymentSystemTemplate(id TagID, v Value) error {
	if !id.IsBetween(AdditionalTagPaymentSystemFrom, AdditionalTagPaymentSystemTo) {
		return fieldError(id, ErrTagOutOfRange)
	}
	a.Set(NewField(id, v, maxLenPaymentSystemTemplate))
	return nil
}
