package emvqr

import "strings"

// Segment concatenates rendered fields in the order they were added.
// It imposes no ordering of its own; nil fields (unset optional slots) are
// skipped.
type Segment struct {
	fields []*Field
}

// NewSegment creates a segment holding the given fields.
func NewSegment(fields ...*Field) *Segment {
	s := &Segment{fields: make([]*Field, 0, len(fields))}
	return s.Add(fields...)
}

// Add appends fields and returns the segment for chaining.
func (s *Segment) Add(fields ...*Field) *Segment {
	for _, f := range fields {
		if f != nil {
			s.fields = append(s.fields, f)
		}
	}
	return s
}

// Fields returns the fields that will be rendered.
func (s *Segment) Fields() []*Field {
	return s.fields
}

// Render renders every field and concatenates the results. The first
// failure aborts rendering and no partial text is returned.
func (s *Segment) Render() (string, error) {
	var b strings.Builder
	for _, f := range s.fields {
		rendered, err := f.Render()
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}
