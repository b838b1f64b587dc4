// Package i18n provides locale catalogs for user-facing error messages.
package i18n

import (
	"strings"
	"text/template"
)

// Code mirrors the machine-readable error code as a raw string.
type Code = string

// Catalog holds localized message templates keyed by error code.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog locale identifier.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for a code with the given metadata.
// Unknown codes fall back to a generic message so callers always get text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	message, ok := c.messages[code]
	if !ok {
		return "An unexpected error occurred"
	}
	if len(metadata) == 0 || !strings.Contains(message, "{{") {
		return message
	}

	tmpl, err := template.New(code).Parse(message)
	if err != nil {
		return message
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, metadata); err != nil {
		return message
	}
	return out.String()
}

// GetCatalog returns the catalog for a locale, defaulting to en-US.
func GetCatalog(locale string) *Catalog {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en-us", "en", "":
		return enUSCatalog
	default:
		return enUSCatalog
	}
}
