package emvqr

import (
	"regexp"
	"unicode/utf8"
)

// Kind discriminates the value variants. It decides how a Field renders
// its length: numeric values are fixed width, everything else is variable.
type Kind int

const (
	KindNumeric Kind = iota + 1
	KindAlphanumericSpecial
	KindText
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindAlphanumericSpecial:
		return "alpha_numeric"
	case KindText:
		return "str"
	case KindTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Value is anything that can be embedded as the value of a TLV field,
// including nested templates.
type Value interface {
	// Len is the character (rune) count of String.
	Len() int
	Valid() bool
	String() string
	Kind() Kind
}

// Composite is a Value whose text is itself a rendered TLV segment. Field
// uses Render so that nested failures surface with their own tag ids.
type Composite interface {
	Value
	Render() (string, error)
}

var (
	numericPattern             = regexp.MustCompile(`^[0-9]+$`)
	alphanumericSpecialPattern = regexp.MustCompile(`^[0-9a-zA-Z\s.!?\-]+$`)
)

// Numeric holds a non-empty string of decimal digits.
type Numeric struct {
	s string
}

// NewNumeric validates s as digits only.
func NewNumeric(s string) (Numeric, error) {
	if s == "" {
		return Numeric{}, invalid(KindNumeric, "value is empty", ErrEmptyValue)
	}
	n := Numeric{s: s}
	if !n.Valid() {
		return Numeric{}, invalid(KindNumeric, "only digits 0-9 are allowed", ErrInvalidValue)
	}
	return n, nil
}

func (n Numeric) Len() int       { return utf8.RuneCountInString(n.s) }
func (n Numeric) Valid() bool    { return numericPattern.MatchString(n.s) }
func (n Numeric) String() string { return n.s }
func (n Numeric) Kind() Kind     { return KindNumeric }

// AlphanumericSpecial holds digits, ASCII letters, whitespace and the
// punctuation . ! ? -
type AlphanumericSpecial struct {
	s string
}

// NewAlphanumericSpecial validates s against the alphanumeric-special set.
func NewAlphanumericSpecial(s string) (AlphanumericSpecial, error) {
	if s == "" {
		return AlphanumericSpecial{}, invalid(KindAlphanumericSpecial, "value is empty", ErrEmptyValue)
	}
	a := AlphanumericSpecial{s: s}
	if !a.Valid() {
		return AlphanumericSpecial{}, invalid(KindAlphanumericSpecial,
			"only letters, digits, whitespace and . ! ? - are allowed", ErrInvalidValue)
	}
	return a, nil
}

func (a AlphanumericSpecial) Len() int       { return utf8.RuneCountInString(a.s) }
func (a AlphanumericSpecial) Valid() bool    { return alphanumericSpecialPattern.MatchString(a.s) }
func (a AlphanumericSpecial) String() string { return a.s }
func (a AlphanumericSpecial) Kind() Kind     { return KindAlphanumericSpecial }

// Text holds any non-empty UTF-8 string.
type Text struct {
	s string
}

// NewText validates s as UTF-8.
func NewText(s string) (Text, error) {
	if s == "" {
		return Text{}, invalid(KindText, "value is empty", ErrEmptyValue)
	}
	t := Text{s: s}
	if !t.Valid() {
		return Text{}, invalid(KindText, "value is not valid UTF-8", ErrInvalidValue)
	}
	return t, nil
}

func (t Text) Len() int       { return utf8.RuneCountInString(t.s) }
func (t Text) Valid() bool    { return t.s != "" && utf8.ValidString(t.s) }
func (t Text) String() string { return t.s }
func (t Text) Kind() Kind     { return KindText }
