// Package importer seeds Metaform documents from OpenAPI operations so a new
// form can start from an existing API contract instead of an empty canvas.
// Top-level scalar properties of the request body land in the first section;
// every nested object property gets a section of its own.
package importer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

const (
	orderExtension  = "x-formgen-order"
	widgetExtension = "x-formgen-widget"
	memoThreshold   = 255
)

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("importer: operation not found")

type options struct {
	submit       bool
	submitTitle  string
	sectionTitle string
	validate     bool
}

// Option configures FromOpenAPI.
type Option func(*options)

// WithoutSubmit skips the trailing submit field.
func WithoutSubmit() Option {
	return func(o *options) { o.submit = false }
}

// WithSubmitTitle sets the label of the trailing submit field.
func WithSubmitTitle(title string) Option {
	return func(o *options) {
		if strings.TrimSpace(title) != "" {
			o.submitTitle = title
		}
	}
}

// WithSectionTitle overrides the title of the first section, which defaults
// to the operation summary.
func WithSectionTitle(title string) Option {
	return func(o *options) { o.sectionTitle = title }
}

// WithValidation validates the OpenAPI document before importing.
func WithValidation() Option {
	return func(o *options) { o.validate = true }
}

// FromOpenAPI builds a Metaform document from the request body of the
// operation identified by operationID.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string, opts ...Option) (metaform.Document, error) {
	cfg := options{submit: true, submitTitle: "Submit"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := ctx.Err(); err != nil {
		return metaform.Document{}, err
	}
	if len(raw) == 0 {
		return metaform.Document{}, errors.New("importer: openapi document is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return metaform.Document{}, errors.New("importer: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return metaform.Document{}, fmt.Errorf("importer: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return metaform.Document{}, fmt.Errorf("importer: validate: %w", err)
		}
	}

	op := findOperation(spec, operationID)
	if op == nil {
		return metaform.Document{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(op.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return metaform.Document{}, fmt.Errorf("importer: operation %s has no request body properties", operationID)
	}

	title := cfg.sectionTitle
	if title == "" {
		title = firstNonEmpty(op.Summary, schema.Title, humanize(operationID))
	}

	doc := metaform.Document{ID: operationID, Title: firstNonEmpty(op.Summary, humanize(operationID))}
	main := metaform.Section{Title: title, Fields: []metaform.Field{}}
	var nested []metaform.Section

	required := stringSet(schema.Required)
	for _, name := range orderedProperties(schema.Properties) {
		prop := schema.Properties[name].Value
		if prop == nil {
			continue
		}
		if isObject(prop) && len(prop.Properties) > 0 {
			nested = append(nested, objectSection(name, prop))
			continue
		}
		main.Fields = append(main.Fields, convertField(name, prop, required[name]))
	}

	if len(main.Fields) > 0 || len(nested) == 0 {
		doc.Sections = append(doc.Sections, main)
	}
	doc.Sections = append(doc.Sections, nested...)

	if cfg.submit {
		last := len(doc.Sections) - 1
		doc.Sections[last].Fields = append(doc.Sections[last].Fields, metaform.Field{
			Name:  "submit",
			Type:  metaform.FieldTypeSubmit,
			Title: cfg.submitTitle,
		})
	}
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if id == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func objectSection(name string, schema *openapi3.Schema) metaform.Section {
	section := metaform.Section{
		Title:  firstNonEmpty(schema.Title, humanize(name)),
		Fields: []metaform.Field{},
	}
	required := stringSet(schema.Required)
	for _, child := range orderedProperties(schema.Properties) {
		prop := schema.Properties[child].Value
		if prop == nil {
			continue
		}
		field := convertField(child, prop, required[child])
		field.Name = metaform.Slugify(section.Title, field.Title)
		section.Fields = append(section.Fields, field)
	}
	return section
}

func convertField(name string, schema *openapi3.Schema, required bool) metaform.Field {
	field := metaform.Field{
		Name:     name,
		Title:    firstNonEmpty(schema.Title, humanize(name)),
		Type:     fieldType(schema),
		Required: required,
	}
	if field.Type.IsChoice() || field.Type == metaform.FieldTypeChecklist {
		field.Options = enumOptions(schema)
	}
	if field.Type == metaform.FieldTypeNumber || field.Type == metaform.FieldTypeSlider {
		field.Min = cloneFloat(schema.Min)
		field.Max = cloneFloat(schema.Max)
		if schema.MultipleOf != nil {
			field.Step = cloneFloat(schema.MultipleOf)
		}
	}
	if schema.Description != "" && field.Type != metaform.FieldTypeBoolean {
		field.Placeholder = schema.Description
	}
	return field
}

func fieldType(schema *openapi3.Schema) metaform.FieldType {
	if widget, ok := schema.Extensions[widgetExtension].(string); ok {
		if t := metaform.FieldType(strings.TrimSpace(widget)); t.Valid() {
			return t
		}
	}

	switch {
	case schema.Type.Is(openapi3.TypeBoolean):
		return metaform.FieldTypeBoolean
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		if len(schema.Enum) > 0 {
			return metaform.FieldTypeSelect
		}
		return metaform.FieldTypeNumber
	case schema.Type.Is(openapi3.TypeArray):
		if schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0 {
			return metaform.FieldTypeChecklist
		}
		if schema.Items != nil && schema.Items.Value != nil && schema.Items.Value.Format == "binary" {
			return metaform.FieldTypeFiles
		}
		return metaform.FieldTypeTable
	}

	if len(schema.Enum) > 0 {
		return metaform.FieldTypeSelect
	}
	switch strings.ToLower(schema.Format) {
	case "email":
		return metaform.FieldTypeEmail
	case "uri", "url":
		return metaform.FieldTypeURL
	case "date":
		return metaform.FieldTypeDate
	case "date-time":
		return metaform.FieldTypeDateTime
	case "time":
		return metaform.FieldTypeTime
	case "binary":
		return metaform.FieldTypeFiles
	case "html":
		return metaform.FieldTypeHTML
	}
	if schema.MaxLength != nil && *schema.MaxLength > memoThreshold {
		return metaform.FieldTypeMemo
	}
	return metaform.FieldTypeText
}

func enumOptions(schema *openapi3.Schema) []metaform.FieldOption {
	values := schema.Enum
	if len(values) == 0 && schema.Items != nil && schema.Items.Value != nil {
		values = schema.Items.Value.Enum
	}
	out := make([]metaform.FieldOption, 0, len(values))
	for _, value := range values {
		name := fmt.Sprint(value)
		out = append(out, metaform.FieldOption{Name: name, Text: humanize(name)})
	}
	return out
}

// orderedProperties sorts by x-formgen-order first, then by name.
func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return math.MaxFloat64
		}
		switch v := ref.Value.Extensions[orderExtension].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
		return math.MaxFloat64
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func isObject(schema *openapi3.Schema) bool {
	return schema.Type.Is(openapi3.TypeObject) || (schema.Type == nil && len(schema.Properties) > 0)
}

func stringSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
