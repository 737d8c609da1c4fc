package metaform

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		htmlPolicy = bluemonday.UGCPolicy()
	})
	return htmlPolicy
}

// SanitizeHTML strips unsafe markup from the content of an html field.
func SanitizeHTML(raw string) string {
	if raw == "" {
		return ""
	}
	return policy().Sanitize(raw)
}

// SanitizeField returns field with its HTML payload sanitised. Fields whose
// content is already clean are returned as is.
func SanitizeField(field Field) Field {
	if field.HTML == "" {
		return field
	}
	clean := SanitizeHTML(field.HTML)
	if clean == field.HTML {
		return field
	}
	out := field
	out.HTML = clean
	return out
}

// SanitizeDocument applies SanitizeField to every field and returns a document
// sharing every section that did not change.
func SanitizeDocument(doc Document) Document {
	var out *Document
	for s, section := range doc.Sections {
		var fields []Field
		for f, field := range section.Fields {
			clean := SanitizeField(field)
			if clean.HTML == field.HTML {
				continue
			}
			if fields == nil {
				fields = append([]Field(nil), section.Fields...)
			}
			fields[f] = clean
		}
		if fields == nil {
			continue
		}
		if out == nil {
			copied := withSections(doc)
			out = &copied
		}
		out.Sections[s].Fields = fields
	}
	if out == nil {
		return doc
	}
	return *out
}
