package cmudict

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var requoter = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Normalize turns a word into its dictionary key: lower-case, accents stripped, typographic
// apostrophes replaced by "'". For example "Café" and "CAFE" both become "cafe".
func Normalize(word string) string {
	word = strings.ToLower(requoter.Replace(word))
	if isASCII(word) {
		return word
	}
	// transform.Chain keeps internal buffers, so each call gets its own.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(stripAccents, word)
	if err != nil {
		return word
	}
	return result
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
