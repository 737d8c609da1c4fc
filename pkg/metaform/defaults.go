package metaform

const (
	defaultSectionTitle = "Section"
	defaultOptionName   = "option"
	defaultOptionText   = "Option"
)

// CreateEmptySection returns the section appended by "add section".
func CreateEmptySection() Section {
	return Section{Title: defaultSectionTitle, Fields: []Field{}}
}

// NewField returns the default shape for a field of type t as materialised
// when it is dropped from the palette. Name and title both start as the type
// string; choice types are seeded with a single option.
func NewField(t FieldType) Field {
	field := Field{
		Name:  string(t),
		Title: string(t),
		Type:  t,
	}
	if t.IsChoice() {
		field.Options = []FieldOption{{Name: defaultOptionName, Text: defaultOptionText}}
	}
	return field
}
