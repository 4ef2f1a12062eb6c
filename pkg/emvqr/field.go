package emvqr

import (
	"fmt"
	"strings"
)

// maxRenderedLength is the largest length the two digit length field can carry.
const maxRenderedLength = 99

// Field binds a tag id, a typed value and the declared maximum length of the
// data object.
type Field struct {
	ID     TagID
	Value  Value
	MaxLen int
}

// NewField creates a field. Validation happens at Render time.
func NewField(id TagID, value Value, maxLen int) *Field {
	return &Field{
		ID:     id,
		Value:  value,
		MaxLen: maxLen,
	}
}

// Render returns the on-wire form: tag id, two digit length, value.
//
// Numeric values are fixed width: the length digits are MaxLen and the value
// is left padded with zeros to MaxLen. All other kinds render their actual
// character count and use MaxLen only as an upper bound.
func (f *Field) Render() (string, error) {
	if f.Value == nil {
		return "", fieldError(f.ID, ErrEmptyValue)
	}

	text := f.Value.String()
	if c, ok := f.Value.(Composite); ok {
		rendered, err := c.Render()
		if err != nil {
			return "", fieldError(f.ID, err)
		}
		text = rendered
	} else if text != "" && !f.Value.Valid() {
		return "", fieldError(f.ID, ErrInvalidValue)
	}
	if text == "" {
		return "", fieldError(f.ID, ErrEmptyValue)
	}

	length := f.Value.Len()
	if length > f.MaxLen {
		return "", fieldError(f.ID, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, length, f.MaxLen))
	}

	if f.Value.Kind() == KindNumeric {
		if f.MaxLen > maxRenderedLength {
			return "", fieldError(f.ID, fmt.Errorf("%w: declared %d", ErrLengthExceeded, f.MaxLen))
		}
		return fmt.Sprintf("%s%02d%s%s", f.ID, f.MaxLen, strings.Repeat("0", f.MaxLen-length), text), nil
	}

	if length > maxRenderedLength {
		return "", fieldError(f.ID, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, length, maxRenderedLength))
	}
	return fmt.Sprintf("%s%02d%s", f.ID, length, text), nil
}
