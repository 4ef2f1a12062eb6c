package emvqr

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Template is a nested TLV value: its text is the rendered segment of its
// child fields, kept in ascending tag order. It is used for the unreserved
// templates and as the building block of the additional data and language
// templates.
type Template struct {
	fields []*Field
}

// NewTemplate creates an empty template.
func NewTemplate() *Template {
	return &Template{}
}

// Set stores f, replacing any child with the same tag id.
func (t *Template) Set(f *Field) {
	if f == nil {
		return
	}
	t.fields = setOrdered(t.fields, f)
}

// Field returns the child with the given id, or nil.
func (t *Template) Field(id TagID) *Field {
	i, found := slices.BinarySearchFunc(t.fields, id, compareFieldID)
	if !found {
		return nil
	}
	return t.fields[i]
}

// Fields returns the children in render order.
func (t *Template) Fields() []*Field {
	return t.fields
}

func (t *Template) Render() (string, error) {
	return NewSegment(t.fields...).Render()
}

func (t *Template) Len() int {
	s, err := t.Render()
	if err != nil {
		return 0
	}
	return utf8.RuneCountInString(s)
}

func (t *Template) Valid() bool {
	s, err := t.Render()
	return err == nil && s != ""
}

func (t *Template) String() string {
	s, _ := t.Render()
	return s
}

func (t *Template) Kind() Kind {
	return KindTemplate
}

func compareFieldID(f *Field, id TagID) int {
	return strings.Compare(string(f.ID), string(id))
}

// NewUnreservedTemplate creates a template for tags 80-99 carrying the
// globally unique identifier of its owner in sub tag 00.
func NewUnreservedTemplate(gui string) (*Template, error) {
	v, err := NewAlphanumericSpecial(gui)
	if err != nil {
		return nil, fieldError(SubTagGloballyUniqueIdentifier, err)
	}
	t := NewTemplate()
	t.Set(NewField(SubTagGloballyUniqueIdentifier, v, 32))
	return t, nil
}

// SetContextSpecific stores a context specific sub field (01-99) of an
// unreserved template.
func (t *Template) SetContextSpecific(id TagID, value string, maxLen int) error {
	if !id.IsBetween(SubTagNetworkSpecificFrom, SubTagNetworkSpecificTo) {
		return fieldError(id, ErrTagOutOfRange)
	}
	v, err := NewText(value)
	if err != nil {
		return fieldError(id, err)
	}
	t.Set(NewField(id, v, maxLen))
	return nil
}
