package category

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases text, strips accents and joins words with dashes:
// "Science-Fiction & Fantastique" becomes "science-fiction-fantastique".
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		stripped = strings.ToLower(strings.TrimSpace(text))
	}

	slug := nonSlugChars.ReplaceAllString(stripped, "")
	slug = slugSeparator.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
