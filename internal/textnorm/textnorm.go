// Package textnorm prepares posting text for matching and persistence.
// Raw board HTML must never reach the detector or a stored description.
package textnorm

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// decode passes are capped; UnescapeString reaches a fixed point long
// before this on any real input.
const maxDecodePasses = 10

// DecodeEntities resolves numeric and named HTML entities until the text
// stops changing, so double-encoded input like &amp;lt; fully decodes.
func DecodeEntities(text string) string {
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(text)
		if next == text {
			return text
		}
		text = next
	}
	return text
}

// StripHTML drops tags, comments and script/style bodies, collapses
// whitespace runs to single spaces and trims the result. Input that is
// not valid HTML passes through as plain text.
func StripHTML(text string) string {
	if text == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	}
	doc.Find("script,style").Remove()

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(doc.Text(), " "))
}

// Normalize lowercases and trims text for substring matching.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CleanDescription applies the full pipeline in the required order:
// entities first, tags second.
func CleanDescription(raw string) string {
	return StripHTML(DecodeEntities(raw))
}
