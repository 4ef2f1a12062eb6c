package emvqr

const (
	maxLenLanguagePreference = 2
	maxLenAlternateName      = 25
	maxLenAlternateCity      = 15
)

// LanguageTemplate is the merchant information language template (tag 64):
// merchant name and city in an alternate language.
type LanguageTemplate struct {
	Template
}

// NewLanguageTemplate creates a template for the given ISO 639 two letter
// language preference, e.g. "TH".
func NewLanguageTemplate(preference string) (*LanguageTemplate, error) {
	v, err := NewAlphanumericSpecial(preference)
	if err != nil {
		return nil, fieldError(LanguageTagPreference, err)
	}
	l := &LanguageTemplate{}
	l.Set(NewField(LanguageTagPreference, v, maxLenLanguagePreference))
	return l, nil
}

// SetMerchantName sets the alternate-language merchant name. Any UTF-8
// text is accepted.
func (l *LanguageTemplate) SetMerchantName(name string) error {
	v, err := NewText(name)
	if err != nil {
		return fieldError(LanguageTagMerchantName, err)
	}
	l.Set(NewField(LanguageTagMerchantName, v, maxLenAlternateName))
	return nil
}

func (l *LanguageTemplate) SetMerchantCity(city string) error {
	v, err := NewText(city)
	if err != nil {
		return fieldError(LanguageTagMerchantCity, err)
	}
	l.Set(NewField(LanguageTagMerchantCity, v, maxLenAlternateCity))
	return nil
}

// Render fails with ErrMissingMandatory unless both the preference and the
// merchant name are set.
func (l *LanguageTemplate) Render() (string, error) {
	for _, id := range []TagID{LanguageTagPreference, LanguageTagMerchantName} {
		if l.Field(id) == nil {
			return "", fieldError(id, ErrMissingMandatory)
		}
	}
	return l.Template.Render()
}

func (l *LanguageTemplate) Len() int {
	s, err := l.Render()
	if err != nil {
		return 0
	}
	return len([]rune(s))
}

func (l *LanguageTemplate) Valid() bool {
	_, err := l.Render()
	return err == nil
}

func (l *LanguageTemplate) String() string {
	s, _ := l.Render()
	return s
}
