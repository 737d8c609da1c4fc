package metaform

import "fmt"

// CoordinateKind tags the variant held by a Coordinate.
type CoordinateKind int

const (
	// KindNone means nothing is selected.
	KindNone CoordinateKind = iota
	// KindSection targets a whole section.
	KindSection
	// KindField targets a single field inside a section.
	KindField
)

func (k CoordinateKind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindField:
		return "field"
	default:
		return "none"
	}
}

// Coordinate identifies what the property panel is currently editing. The zero
// value is NoSelection. Construct values through NoSelection, SectionAt and
// FieldAt so partially set coordinates cannot exist.
type Coordinate struct {
	kind    CoordinateKind
	section int
	field   int
}

// NoSelection returns the empty coordinate.
func NoSelection() Coordinate {
	return Coordinate{}
}

// SectionAt selects the section at index s.
func SectionAt(s int) Coordinate {
	return Coordinate{kind: KindSection, section: s}
}

// FieldAt selects field f inside section s.
func FieldAt(s, f int) Coordinate {
	return Coordinate{kind: KindField, section: s, field: f}
}

// Kind returns the variant tag.
func (c Coordinate) Kind() CoordinateKind {
	return c.kind
}

// Section returns the section index for section and field coordinates.
func (c Coordinate) Section() (int, bool) {
	if c.kind == KindNone {
		return 0, false
	}
	return c.section, true
}

// Field returns the field index for field coordinates.
func (c Coordinate) Field() (int, bool) {
	if c.kind != KindField {
		return 0, false
	}
	return c.field, true
}

// Within reports whether c addresses an existing section or field of doc.
// NoSelection is always within.
func (c Coordinate) Within(doc Document) bool {
	switch c.kind {
	case KindSection:
		_, ok := doc.Section(c.section)
		return ok
	case KindField:
		_, ok := doc.Field(c.section, c.field)
		return ok
	default:
		return true
	}
}

func (c Coordinate) String() string {
	switch c.kind {
	case KindSection:
		return fmt.Sprintf("section(%d)", c.section)
	case KindField:
		return fmt.Sprintf("field(%d,%d)", c.section, c.field)
	default:
		return "none"
	}
}

// coordinateJSON is the wire shape used by the HTTP surface: absent indexes
// mean "not selected".
type coordinateJSON struct {
	Section *int `json:"section,omitempty"`
	Field   *int `json:"field,omitempty"`
}

// MarshalJSON encodes the coordinate as {"section":s,"field":f} with absent
// members omitted.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	var out coordinateJSON
	if s, ok := c.Section(); ok {
		out.Section = &s
	}
	if f, ok := c.Field(); ok {
		out.Field = &f
	}
	return marshalJSON(out)
}

// UnmarshalJSON decodes the wire shape. A field index without a section index
// is rejected.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var in coordinateJSON
	if err := unmarshalJSON(data, &in); err != nil {
		return err
	}
	switch {
	case in.Section == nil && in.Field == nil:
		*c = NoSelection()
	case in.Section != nil && in.Field == nil:
		*c = SectionAt(*in.Section)
	case in.Section != nil && in.Field != nil:
		*c = FieldAt(*in.Section, *in.Field)
	default:
		return fmt.Errorf("metaform: coordinate has a field index without a section index")
	}
	return nil
}
