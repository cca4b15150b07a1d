package limerickhammer

import (
	"strings"
)

// strippedPunctuation is removed from a poem before it is split into words. Apostrophes are
// kept so contractions survive.
const strippedPunctuation = `",.!@#$%^&*()_+{}|:<>?/;][=-`

// clitics are split off the end of a word into their own token, e.g. "don't" becomes "do" "n't".
var clitics = []string{"n't", "'s", "'m", "'d", "'ll", "'re", "'ve"}

var requoter = strings.NewReplacer("’", "'", "‘", "'")

// Line is the words of one line of a poem.
type Line []string

// Tail returns the last word of the line without modifying it.
func (l Line) Tail() string {
	if len(l) == 0 {
		return ""
	}
	return l[len(l)-1]
}

// Poem is the non-blank lines of a text, in order.
type Poem []Line

// ParsePoem strips punctuation from text, splits it into lines and words, and drops lines which
// contain no words.
func ParsePoem(text string) Poem {
	stripped := stripPunctuation(requoter.Replace(text))
	var result Poem
	for _, raw := range strings.Split(stripped, "\n") {
		line := tokenize(raw)
		if len(line) == 0 {
			continue
		}
		result = append(result, line)
	}
	return result
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, s)
}

func tokenize(line string) Line {
	var result Line
	for _, field := range strings.Fields(line) {
		word := strings.Trim(field, "'`")
		if word == "" { // bare quote marks
			continue
		}
		result = append(result, splitClitic(word)...)
	}
	return result
}

func splitClitic(word string) []string {
	for _, clitic := range clitics {
		n := len(word) - len(clitic)
		if n > 0 && strings.EqualFold(word[n:], clitic) {
			return []string{word[:n], word[n:]}
		}
	}
	return []string{word}
}
