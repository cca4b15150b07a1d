package cmudict

import "strings"

// Phone is a single ARPAbet code as it appears in the CMU Pronouncing Dictionary. Vowel phones
// carry a trailing stress digit, e.g. "UW1".
type Phone string

// vowels is the closed set of vowel sounds. Each phone whose base is in this set is the nucleus of
// exactly one syllable.
var vowels = map[string]struct{}{
	"AA": {}, "AE": {}, "AH": {}, "AO": {}, "AW": {}, "AX": {}, "AY": {}, "EH": {},
	"ER": {}, "EY": {}, "IH": {}, "IY": {}, "OW": {}, "OY": {}, "UH": {}, "UW": {},
}

// Base returns the phone without its stress digit.
func (p Phone) Base() string {
	return strings.TrimRight(string(p), "0123456789")
}

// Stress returns the stress digit of a vowel phone, or -1 if the phone is unmarked.
func (p Phone) Stress() int {
	if len(p) == 0 {
		return -1
	}
	last := p[len(p)-1]
	if last < '0' || last > '9' {
		return -1
	}
	return int(last - '0')
}

func (p Phone) IsVowel() bool {
	_, ok := vowels[p.Base()]
	return ok
}

// Pronunciation is one candidate transcription of a word. Pronunciations handed out by a
// Dictionary are shared and must not be modified.
type Pronunciation []Phone

// Syllables counts the vowel phones in p.
func (p Pronunciation) Syllables() int {
	count := 0
	for _, phone := range p {
		if phone.IsVowel() {
			count++
		}
	}
	return count
}

// RhymeTail returns the suffix of p starting at its first vowel phone. It's empty if p has no
// vowels.
func (p Pronunciation) RhymeTail() Pronunciation {
	for i, phone := range p {
		if phone.IsVowel() {
			return p[i:]
		}
	}
	return Pronunciation{}
}

// Equal reports whether p and other hold the same phones in the same order.
func (p Pronunciation) Equal(other Pronunciation) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasSuffix reports whether p ends with suffix.
func (p Pronunciation) HasSuffix(suffix Pronunciation) bool {
	if len(suffix) > len(p) {
		return false
	}
	return p[len(p)-len(suffix):].Equal(suffix)
}

func (p Pronunciation) String() string {
	var sb strings.Builder
	for i, phone := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(phone))
	}
	return sb.String()
}

// ParsePronunciation splits a space-separated list of phones.
func ParsePronunciation(s string) Pronunciation {
	fields := strings.Fields(s)
	result := make(Pronunciation, 0, len(fields))
	for _, field := range fields {
		result = append(result, Phone(strings.ToUpper(field)))
	}
	return result
}
