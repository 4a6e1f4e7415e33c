package extract

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	allSpaceRe  = regexp.MustCompile(`\s+`)
	lineSpaceRe = regexp.MustCompile(`[ \t\r\f\v]+`)
	multiNLRe   = regexp.MustCompile(`\n{3,}`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	brRe        = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	blockEndRe  = regexp.MustCompile(`(?i)</(?:p|div|li|ul|ol|h[1-6]|tr|table|section|article|blockquote|dd|dt)>`)

	angleReplacer = strings.NewReplacer("<", " ", ">", " ")
)

// CleanText collapses all whitespace runs (including non-breaking spaces) to
// single spaces and trims the result. Applied uniformly to every extracted
// field value.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = allSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// HTMLToText converts an HTML fragment to readable plain text. Block-level
// closing tags and <br> become newlines before tags are stripped, so
// paragraph structure survives; runs of three or more newlines collapse to
// exactly two.
func HTMLToText(raw string) string {
	s := brRe.ReplaceAllString(raw, "\n")
	s = blockEndRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	// entities can decode back into angle brackets
	s = angleReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(lineSpaceRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = multiNLRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate caps s at max bytes without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
