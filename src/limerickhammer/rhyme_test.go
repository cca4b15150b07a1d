package limerickhammer

import (
	"errors"
	"strings"
	"testing"

	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRhymes(t *testing.T) {
	tests := []struct {
		a, b   string
		rhymes bool
	}{
		{"peru", "shoe", true},
		{"Peru", "TRUE", true},
		{"shoe", "true", true},
		{"night", "fright", true},
		{"beard", "feared", true},
		{"hen", "wren", true},
		{"flee", "flea", true},
		{"flue", "do", true},
		{"bright", "light", true},
		{"day", "way", true},
		{"cat", "hat", true},
		{"dog", "log", true},
		{"rhyme", "crime", true},
		{"door", "floor", true},
		{"four", "more", true},
		{"peru", "home", false},
		{"cat", "dog", false},
		{"night", "shoe", false},
		{"beard", "hen", false},
		{"fright", "flea", false},
		{"terrible", "syllable", false},
	}

	for _, tt := range tests {
		rhymes, err := detector.Rhymes(tt.a, tt.b)
		assert.NoError(t, err)
		assert.Equal(t, tt.rhymes, rhymes, "%s/%s", tt.a, tt.b)
	}
}

func TestRhymes_Self(t *testing.T) {
	for _, word := range cmudict.Default().Words() {
		rhymes, err := detector.Rhymes(word, word)
		assert.NoError(t, err)
		assert.True(t, rhymes, word)
	}
}

func TestRhymes_Symmetric(t *testing.T) {
	words := cmudict.Default().Words()
	for _, a := range words {
		for _, b := range words {
			ab, err := detector.Rhymes(a, b)
			require.NoError(t, err)
			ba, err := detector.Rhymes(b, a)
			require.NoError(t, err)
			if ab != ba {
				t.Errorf("Rhymes(%q, %q) = %t but Rhymes(%q, %q) = %t", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestRhymes_UnknownWord(t *testing.T) {
	_, err := detector.Rhymes("xyzzy", "shoe")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "xyzzy", lookupErr.Word)
	assert.EqualError(t, err, `no pronunciation known for "xyzzy"`)

	_, err = detector.Rhymes("shoe", "plugh")
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "plugh", lookupErr.Word)
}

// The heuristic is loose on purpose; these pin down its exact behaviour.
func TestRhymes_TailMatching(t *testing.T) {
	dict, err := cmudict.Load(strings.NewReader(`
MONO  M AA1 N OW0
STEREO  S T EH1 R IY0 OW0
RADIO  R EY1 D IY0 OW0
BANANA  B AH0 N AE1 N AH0
ANNA  AE1 N AH0
SAVANNAH  S AH0 V AE1 N AH0
SAVANNAH(2)  S AH0 V AE1 N AA0
HMM  HH M
SHH  SH
PSST  P S T
EITHER  IY1 DH ER0
EITHER(2)  AY1 DH ER0
NEITHER  N IY1 DH ER0
NEITHER(2)  N AY1 DH ER0
X  EH1 K S
AX  AE1 K S
AX(2)  AH0 K S
`))
	require.NoError(t, err)
	d := NewDetector(dict)

	tests := []struct {
		a, b   string
		rhymes bool
	}{
		// identical tails
		{"either", "neither", true},
		{"stereo", "radio", false},
		// the shortest tail is a suffix of another tail
		{"anna", "banana", true},
		{"banana", "anna", true},
		{"anna", "savannah", true},
		// equal length, different tails
		{"mono", "stereo", false},
		// a word without vowels has an empty tail, which only matches another empty tail
		{"hmm", "shh", true},
		{"hmm", "mono", false},
		{"mono", "psst", false},
		// both shortest tails have the same length; the result must not depend on argument order
		{"x", "ax", false},
		{"ax", "x", false},
	}
	for _, tt := range tests {
		rhymes, err := d.Rhymes(tt.a, tt.b)
		assert.NoError(t, err)
		assert.Equal(t, tt.rhymes, rhymes, "%s/%s", tt.a, tt.b)
	}
}

func TestRhymes_AnnotatedDictionary(t *testing.T) {
	dict, err := cmudict.Load(strings.NewReader("aaa T R IH2 P AH0 L EY1 # abbrev\nday D EY1\nnight N AY1 T # noun\n"))
	require.NoError(t, err)
	d := NewDetector(dict)

	rhymes, err := d.Rhymes("aaa", "day")
	assert.NoError(t, err)
	assert.True(t, rhymes)

	rhymes, err = d.Rhymes("night", "aaa")
	assert.NoError(t, err)
	assert.False(t, rhymes)
	assert.Equal(t, 3, d.SyllableCount("aaa"))
}
