// Package telegram implements the chat front-end: long-poll update
// handling, command and callback dispatch, per-user rate limiting, and
// HTML message formatting.
package telegram

import (
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	codePattern   = regexp.MustCompile("`(.*?)`")
)

// EscapeHTML escapes the characters Telegram's HTML parse mode treats
// specially. Ampersand first so tag escapes are not double-escaped.
func EscapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// FormatHTML converts the model's markdown-flavored output to Telegram
// HTML. Bold, italic, and inline code survive; everything else is
// escaped so stray angle brackets in course data cannot break parsing.
func FormatHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No information available."
	}

	text = boldPattern.ReplaceAllString(text, "<b>$1</b>")
	text = italicPattern.ReplaceAllString(text, "<i>$1</i>")
	text = codePattern.ReplaceAllString(text, "<code>$1</code>")

	text = EscapeHTML(text)

	// Restore the tags produced above.
	for _, tag := range []string{"b", "i", "code"} {
		text = strings.ReplaceAll(text, "&lt;"+tag+"&gt;", "<"+tag+">")
		text = strings.ReplaceAll(text, "&lt;/"+tag+"&gt;", "</"+tag+">")
	}

	return text
}
