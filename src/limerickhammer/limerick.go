package limerickhammer

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// LimerickLines is the number of non-blank lines in a limerick.
	LimerickLines = 5
	// MaxSyllableSpread is the largest allowed difference in syllables between two lines of the
	// same rhyme group.
	MaxSyllableSpread = 2
	// MinLineSyllables is the fewest syllables any line may have.
	MinLineSyllables = 4
)

// aLines and bLines index the lines of the two rhyme groups of an AABBA poem.
var (
	aLines = []int{0, 1, 4}
	bLines = []int{2, 3}
)

// ErrNotLimerick is wrapped by every error Check returns for a text that was evaluated and found
// not to be a limerick.
var ErrNotLimerick = errors.New("not a limerick")

func notLimerick(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotLimerick, fmt.Sprintf(format, args...))
}

// IsLimerick reports whether text is a limerick. An error is returned only when the text could
// not be evaluated, which happens when the pronunciation of a line's last word is unknown.
func (d *Detector) IsLimerick(text string) (bool, error) {
	err := d.Check(text)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotLimerick):
		return false, nil
	default:
		return false, err
	}
}

// Check returns nil if text is a limerick: five lines rhyming AABBA, where
//   - no two A lines differ in their number of syllables by more than two,
//   - the B lines differ in their number of syllables by no more than two,
//   - no B line has more syllables than any A line,
//   - no line has fewer than four syllables.
//
// Blank lines are ignored. When the text is not a limerick the returned error wraps
// ErrNotLimerick and explains which rule was broken. A *LookupError is returned if a line ends
// in a word with unknown pronunciation.
func (d *Detector) Check(text string) error {
	poem := ParsePoem(text)
	if len(poem) != LimerickLines {
		return notLimerick("expected %d lines, found %d", LimerickLines, len(poem))
	}
	a := pick(poem, aLines)
	b := pick(poem, bLines)

	pairs := [][2]Line{{a[0], a[1]}, {a[0], a[2]}, {a[1], a[2]}, {b[0], b[1]}}
	for _, pair := range pairs {
		ok, err := d.Rhymes(pair[0].Tail(), pair[1].Tail())
		if err != nil {
			return err
		}
		if !ok {
			return notLimerick("%q does not rhyme with %q", pair[0].Tail(), pair[1].Tail())
		}
	}

	aCounts := d.sortedCounts(a)
	if spread := aCounts[len(aCounts)-1] - aCounts[0]; spread > MaxSyllableSpread {
		return notLimerick("the A lines differ by %d syllables, at most %d are allowed", spread, MaxSyllableSpread)
	}
	bCounts := d.sortedCounts(b)
	if spread := bCounts[len(bCounts)-1] - bCounts[0]; spread > MaxSyllableSpread {
		return notLimerick("the B lines differ by %d syllables, at most %d are allowed", spread, MaxSyllableSpread)
	}
	if aCounts[0] < bCounts[len(bCounts)-1] {
		return notLimerick("an A line has %d syllables but a B line has %d", aCounts[0], bCounts[len(bCounts)-1])
	}
	if shortest := min(aCounts[0], bCounts[0]); shortest < MinLineSyllables {
		return notLimerick("a line has only %d syllables, at least %d are required", shortest, MinLineSyllables)
	}
	return nil
}

func pick(poem Poem, indices []int) []Line {
	result := make([]Line, len(indices))
	for i, idx := range indices {
		result[i] = poem[idx]
	}
	return result
}

func (d *Detector) sortedCounts(lines []Line) []int {
	result := make([]int, len(lines))
	for i, line := range lines {
		result[i] = d.LineSyllableCount(line)
	}
	sort.Ints(result)
	return result
}

// LineReport describes one line of an analyzed poem.
type LineReport struct {
	Words     Line
	Tail      string
	Syllables int
	// Group is 'A' or 'B' for the lines of a five line poem, and 0 otherwise.
	Group byte
}

// Analysis is a per-line breakdown of a poem, used for debugging and for explaining verdicts.
type Analysis struct {
	Lines []LineReport
	// Err is the result of Check.
	Err error
}

func (a Analysis) IsLimerick() bool {
	return a.Err == nil
}

func (a Analysis) String() string {
	s := ""
	for i, line := range a.Lines {
		group := "-"
		if line.Group != 0 {
			group = string(line.Group)
		}
		s += fmt.Sprintf("\t%d [%s] %2d syllables, tail %q: %v\n", i, group, line.Syllables, line.Tail, []string(line.Words))
	}
	if a.Err != nil {
		s += fmt.Sprintf("\tverdict: %v\n", a.Err)
	} else {
		s += "\tverdict: limerick\n"
	}
	return s
}

// Analyze breaks text down line by line and checks it.
func (d *Detector) Analyze(text string) Analysis {
	poem := ParsePoem(text)
	result := Analysis{Lines: make([]LineReport, len(poem)), Err: d.Check(text)}
	for i, line := range poem {
		result.Lines[i] = LineReport{
			Words:     line,
			Tail:      line.Tail(),
			Syllables: d.LineSyllableCount(line),
		}
	}
	if len(poem) == LimerickLines {
		for _, i := range aLines {
			result.Lines[i].Group = 'A'
		}
		for _, i := range bLines {
			result.Lines[i].Group = 'B'
		}
	}
	return result
}
