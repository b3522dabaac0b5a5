// Package text scrubs markdown-flavored free text from calendar feeds
// down to plain display strings.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// [label](url) -> label
	markdownLink = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	// Runs of emphasis markers are deleted entirely, not spaced.
	emphasisRun = regexp.MustCompile("[*_~`]+")
)

// rightSingleQuote is the one non-ASCII character allowed through: meetup
// descriptions use it as an apostrophe and it survives NFKD unchanged.
const rightSingleQuote = '’'

const allowedPunct = `.,;:!?'"-()`

// Sanitize strips markdown link and emphasis syntax, applies Unicode
// compatibility decomposition, and drops every character outside the
// allow-list (ASCII letters, digits, whitespace, basic punctuation and
// the right single quote). Accented letters keep their base letter and
// lose the combining mark; emoji and other symbols disappear.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = markdownLink.ReplaceAllString(s, "$1")
	s = emphasisRun.ReplaceAllString(s, "")
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	case r == rightSingleQuote:
		return true
	}
	return strings.ContainsRune(allowedPunct, r)
}

// CleanName scrubs a captured host or speaker name: emphasis markers go
// first, then surrounding whitespace, then a trailing markdown link is
// reduced to its label. Text after a pipe separator is profile metadata
// and is discarded.
func CleanName(s string) string {
	s = emphasisRun.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = markdownLink.ReplaceAllString(s, "$1")
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
