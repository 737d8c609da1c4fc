package metaform

// FieldType enumerates the field kinds a Metaform can hold.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEmail     FieldType = "email"
	FieldTypeURL       FieldType = "url"
	FieldTypeMemo      FieldType = "memo"
	FieldTypeDate      FieldType = "date"
	FieldTypeDateTime  FieldType = "date-time"
	FieldTypeTime      FieldType = "time"
	FieldTypeSelect    FieldType = "select"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeChecklist FieldType = "checklist"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeSlider    FieldType = "slider"
	FieldTypeHTML      FieldType = "html"
	FieldTypeFiles     FieldType = "files"
	FieldTypeTable     FieldType = "table"
	FieldTypeSubmit    FieldType = "submit"
	FieldTypeHidden    FieldType = "hidden"
)

var fieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeEmail,
	FieldTypeURL,
	FieldTypeMemo,
	FieldTypeDate,
	FieldTypeDateTime,
	FieldTypeTime,
	FieldTypeSelect,
	FieldTypeRadio,
	FieldTypeChecklist,
	FieldTypeBoolean,
	FieldTypeSlider,
	FieldTypeHTML,
	FieldTypeFiles,
	FieldTypeTable,
	FieldTypeSubmit,
	FieldTypeHidden,
}

// FieldTypes returns every known field type in palette order. The returned
// slice is a copy.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), fieldTypes...)
}

// Valid reports whether t is part of the enumeration.
func (t FieldType) Valid() bool {
	for _, known := range fieldTypes {
		if known == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether fields of this type carry an options list.
func (t FieldType) IsChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

func (t FieldType) String() string {
	return string(t)
}

// FieldOption is a single entry of a choice field.
type FieldOption struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Field is a single input definition. Name is the machine identifier used by
// replies; it is derived from the section and field titles and is not
// guaranteed to be unique across a document.
type Field struct {
	Name        string        `json:"name" yaml:"name"`
	Type        FieldType     `json:"type" yaml:"type"`
	Title       string        `json:"title,omitempty" yaml:"title,omitempty"`
	Required    bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
	HTML        string        `json:"html,omitempty" yaml:"html,omitempty"`
	Placeholder string        `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Min         *float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64      `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64      `json:"step,omitempty" yaml:"step,omitempty"`
}

// Section is a titled group of fields.
type Section struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Document is the root Metaform value. Sections may be empty and titles are
// display-only, so duplicates are allowed.
type Document struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// FieldCount returns the number of fields across every section.
func FieldCount(doc Document) int {
	total := 0
	for _, section := range doc.Sections {
		total += len(section.Fields)
	}
	return total
}

// Section returns the section at index s.
func (d Document) Section(s int) (Section, bool) {
	if s < 0 || s >= len(d.Sections) {
		return Section{}, false
	}
	return d.Sections[s], true
}

// Field returns the field at (s, f).
func (d Document) Field(s, f int) (Field, bool) {
	section, ok := d.Section(s)
	if !ok || f < 0 || f >= len(section.Fields) {
		return Field{}, false
	}
	return section.Fields[f], true
}
