package limerickhammer

import (
	"fmt"

	"github.com/kalexmills/limerick-hammer/src/cmudict"
)

// LookupError is returned when a word whose pronunciation is required is missing from the
// dictionary.
type LookupError struct {
	Word string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no pronunciation known for %q", e.Word)
}

// Rhymes reports whether a and b rhyme. Every pronunciation of both words is reduced to its rhyme
// tail, the phones from its first vowel onwards. The words rhyme when two of those tails are
// identical, or when some tail ends with the shortest tail of the lot.
//
// Both words must be in the dictionary, otherwise a *LookupError is returned.
func (d *Detector) Rhymes(a, b string) (bool, error) {
	prons := make([]cmudict.Pronunciation, 0, 4)
	for _, word := range []string{a, b} {
		found, ok := d.dict.Lookup(word)
		if !ok {
			return false, &LookupError{Word: word}
		}
		prons = append(prons, found...)
	}

	tails := make([]cmudict.Pronunciation, len(prons))
	for i, pron := range prons {
		tails[i] = pron.RhymeTail()
	}
	return tailsRhyme(tails), nil
}

func tailsRhyme(tails []cmudict.Pronunciation) bool {
	seen := make(map[string]struct{}, len(tails))
	for _, tail := range tails {
		key := tail.String()
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}

	// ties are broken by phone order so the result doesn't depend on argument order.
	shortest := 0
	for i := 1; i < len(tails); i++ {
		if len(tails[i]) < len(tails[shortest]) ||
			len(tails[i]) == len(tails[shortest]) && tails[i].String() < tails[shortest].String() {
			shortest = i
		}
	}
	if len(tails[shortest]) == 0 { // an empty tail only matches another empty tail
		return false
	}
	for i, tail := range tails {
		if i != shortest && tail.HasSuffix(tails[shortest]) {
			return true
		}
	}
	return false
}
