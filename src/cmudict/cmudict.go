package cmudict

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/kalexmills/limerick-hammer/src/fileutil"
)

//go:embed data/cmudict-subset.dict
var embeddedDict string

// Dictionary maps normalized words to their candidate pronunciations. A Dictionary is never
// modified after Load returns, so it's safe to share between goroutines.
type Dictionary struct {
	entries map[string][]Pronunciation
}

// Load parses a pronouncing dictionary in CMU format. Lines starting with ";;;" are comments,
// every other non-blank line is a word followed by its phones. Alternate pronunciations are
// written as WORD(2), WORD(3), etc. and are kept in file order.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: make(map[string][]Pronunciation)}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, ";;;") { // comment
			continue
		}
		word, pron, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("could not parse line %d: %w", lineNum, err)
		}
		d.entries[word] = append(d.entries[word], pron)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not read dictionary: %w", err)
	}
	return d, nil
}

// Open loads the dictionary stored at path. Files ending in .gz or .xz are decompressed.
func Open(path string) (*Dictionary, error) {
	f, err := fileutil.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// Default returns the dictionary embedded in the binary. It only covers a few hundred common
// words; use Open with a full copy of the CMU Pronouncing Dictionary for real traffic.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		d, err := Load(strings.NewReader(embeddedDict))
		if err != nil {
			panic(fmt.Errorf("could not load embedded dictionary: %w", err))
		}
		defaultDict = d
	})
	return defaultDict
}

// parseLine splits a line into its word and phones. Anything after a "#" following the word is an
// annotation, as in the cmusphinx distribution: "aaa T R IH2 P AH0 L EY1 # abbrev".
func parseLine(line string) (string, Pronunciation, error) {
	fields := strings.Fields(line)
	phones := fields[1:]
	for i, phone := range phones {
		if strings.HasPrefix(phone, "#") {
			phones = phones[:i]
			break
		}
	}
	if len(phones) == 0 {
		return "", nil, fmt.Errorf("missing pronunciation for %q", fields[0])
	}
	return Normalize(trimVariant(fields[0])), ParsePronunciation(strings.Join(phones, " ")), nil
}

// trimVariant removes the "(2)" marker of an alternate pronunciation.
func trimVariant(word string) string {
	if !strings.HasSuffix(word, ")") {
		return word
	}
	open := strings.LastIndexByte(word, '(')
	if open <= 0 {
		return word
	}
	for _, c := range word[open+1 : len(word)-1] {
		if c < '0' || c > '9' {
			return word
		}
	}
	return word[:open]
}

// Lookup returns every pronunciation of word. Lookups are case-insensitive.
func (d *Dictionary) Lookup(word string) ([]Pronunciation, bool) {
	result, ok := d.entries[Normalize(word)]
	return result, ok && len(result) > 0
}

func (d *Dictionary) Contains(word string) bool {
	_, ok := d.Lookup(word)
	return ok
}

// Len is the number of distinct words.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Words lists the dictionary's keys in sorted order.
func (d *Dictionary) Words() []string {
	result := make([]string, 0, len(d.entries))
	for word := range d.entries {
		result = append(result, word)
	}
	sort.Strings(result)
	return result
}
