package extract

import (
	"strings"
	"unicode"

	"meetupsync/internal/text"
)

// Default organizational strings. These are configuration, not universal
// logic: other deployments override them via the config file.
const (
	DefaultOrgPrefix   = "Women Coding Community"
	DefaultAboutMarker = "About Women Coding Community"
)

// DescriptionFormatter reduces a raw event description to its display
// copy. Prefix is the organization name stripped from the front of a
// description; Marker is the boilerplate heading after which everything
// is dropped.
type DescriptionFormatter struct {
	Prefix string
	Marker string
}

// NewDescriptionFormatter returns a formatter with the default
// organizational strings.
func NewDescriptionFormatter() DescriptionFormatter {
	return DescriptionFormatter{
		Prefix: DefaultOrgPrefix,
		Marker: DefaultAboutMarker,
	}
}

// Format sanitizes and trims the raw text, then applies one of two paths:
// text starting with the organizational prefix has exactly that prefix
// stripped and the remainder left-trimmed, skipping truncation entirely;
// any other text is cut at the first occurrence of the boilerplate marker
// and trimmed. Empty input yields "".
func (f DescriptionFormatter) Format(raw string) string {
	full := strings.TrimSpace(text.Sanitize(raw))

	if f.Prefix != "" && strings.HasPrefix(full, f.Prefix) {
		return strings.TrimLeftFunc(full[len(f.Prefix):], unicode.IsSpace)
	}

	description := full
	if f.Marker != "" {
		if i := strings.Index(full, f.Marker); i >= 0 {
			description = full[:i]
		}
	}
	return strings.TrimSpace(description)
}
