// Package i18n provides localized message catalogs for domain error codes.
package i18n

import (
	"strings"
	"text/template"
)

// Code mirrors the error code string type without importing internal/errors.
type Code = string

// Catalog holds localized message templates keyed by error code.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog locale identifier.
func (c *Catalog) Locale() string {
	if c == nil {
		return ""
	}
	return c.locale
}

// Format renders the message for code, substituting {{.Key}} metadata values.
// Unknown codes fall back to a generic message so callers always get text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	if c == nil {
		return genericMessage
	}
	raw, ok := c.messages[code]
	if !ok {
		return genericMessage
	}
	if len(metadata) == 0 || !strings.Contains(raw, "{{") {
		return raw
	}
	tmpl, err := template.New(code).Parse(raw)
	if err != nil {
		return raw
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return raw
	}
	return sb.String()
}

const genericMessage = "An unexpected error occurred"

// GetCatalog returns the catalog for the requested locale, defaulting to en-US.
func GetCatalog(locale string) *Catalog {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en-us", "en", "":
		return enUSCatalog
	default:
		return enUSCatalog
	}
}
