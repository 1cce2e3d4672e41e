package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Trailing or bracketed credit phrases: "feat. X", "(featuring X)",
	// "ft. X", "with X".
	featPattern = regexp.MustCompile(`\s*[(\[]?\s*(?:featuring|feat\.?|ft\.?|with)\s+[^)\]]*[)\]]?\s*$`)

	// Title parentheticals: "(Remastered)", "[Live]", "(2011 Mix)".
	parentheticalPattern = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

	// Title part suffixes: "Pt. 2", "Part II", ", Pt. 1".
	partPattern = regexp.MustCompile(`[,\s-]*\b(?:pt|part)\.?\s*[0-9ivx]+\s*$`)

	whitespacePattern = regexp.MustCompile(`\s+`)

	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", "‛", "'",
		"“", `"`, "”", `"`,
		"′", "'", "´", "'", "`", "'",
	)

	diacriticStripper = transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
)

// NormalizeArtist canonicalizes an artist name for comparison.
func NormalizeArtist(s string) string {
	return normalize(s, false)
}

// NormalizeTitle canonicalizes a track title for comparison. Beyond the
// artist rules it also drops parentheticals and part-number suffixes, so
// "Like A Rolling Stone (Remastered)" compares equal to "Like a Rolling
// Stone".
func NormalizeTitle(s string) string {
	return normalize(s, true)
}

func normalize(s string, title bool) string {
	s = strings.ToLower(s)
	s = quoteReplacer.Replace(s)
	s = foldDiacritics(s)

	if title {
		s = parentheticalPattern.ReplaceAllString(s, " ")
	}
	s = featPattern.ReplaceAllString(s, " ")
	if title {
		s = partPattern.ReplaceAllString(s, " ")
	}

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, ".", "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "the ")

	return s
}

// foldDiacritics strips combining marks so "Beyoncé" matches "Beyonce".
func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
