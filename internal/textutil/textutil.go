// Package textutil holds the string helpers shared by the API and the CLI.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultSuffix is appended by Truncate when text is cut.
const DefaultSuffix = "..."

var (
	slugInvalid   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparator = regexp.MustCompile(`[-\s]+`)
)

// CapitalizeWords upper-cases the first letter of every run of letters and
// lower-cases the rest, so "john o'neil 2nd" becomes "John O'Neil 2Nd".
func CapitalizeWords(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prevLetter := false
	for _, r := range text {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// Slugify converts text to a lowercase, hyphen separated, URL friendly form.
func Slugify(text string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(text), "")
	slug = slugSeparator.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Truncate shortens text to at most maxLen runes using DefaultSuffix.
func Truncate(text string, maxLen int) string {
	return TruncateWithSuffix(text, maxLen, DefaultSuffix)
}

// TruncateWithSuffix shortens text to at most maxLen runes. When text is cut
// the result ends with suffix and is exactly maxLen runes long. If maxLen
// cannot even hold the suffix, the suffix itself is cut to maxLen.
func TruncateWithSuffix(text string, maxLen int, suffix string) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	suffixRunes := []rune(suffix)
	if len(suffixRunes) >= maxLen {
		return string(suffixRunes[:maxLen])
	}
	return string(runes[:maxLen-len(suffixRunes)]) + suffix
}
