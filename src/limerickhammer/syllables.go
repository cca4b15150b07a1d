package limerickhammer

import (
	"github.com/kalexmills/limerick-hammer/src/cmudict"
)

// PronunciationSource looks up the candidate pronunciations of a word. Lookups must be
// case-insensitive. *cmudict.Dictionary is the usual implementation.
type PronunciationSource interface {
	Lookup(word string) ([]cmudict.Pronunciation, bool)
}

// Detector classifies poems using the pronunciations from a PronunciationSource. A Detector holds
// no mutable state; it's safe for concurrent use as long as its source is.
type Detector struct {
	dict PronunciationSource
}

func NewDetector(dict PronunciationSource) *Detector {
	return &Detector{dict: dict}
}

// SyllableCount returns the number of syllables in word. Words with several pronunciations count
// as their shortest one. Unknown words count as a single syllable.
func (d *Detector) SyllableCount(word string) int {
	prons, ok := d.dict.Lookup(word)
	if !ok {
		return 1
	}
	best := prons[0].Syllables()
	for _, pron := range prons[1:] {
		if count := pron.Syllables(); count < best {
			best = count
		}
	}
	return best
}

// LineSyllableCount sums the syllables of every word in line.
func (d *Detector) LineSyllableCount(line Line) int {
	count := 0
	for _, word := range line {
		count += d.SyllableCount(word)
	}
	return count
}
