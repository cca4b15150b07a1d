// Command dict-subset writes the entries of a CMU Pronouncing Dictionary for a list of words, in
// the dictionary's own format. It's used to regenerate the dictionary embedded in cmudict.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/fileutil"
)

type CLI struct {
	Dict    string `name:"dict" required:"" type:"path" help:"Full CMU Pronouncing Dictionary, optionally .gz or .xz compressed."`
	Words   string `name:"words" required:"" type:"path" help:"File listing the words to keep, separated by whitespace."`
	Outfile string `name:"outfile" short:"o" default:"-" help:"File to write the subset to, - for stdout."`
}

func (c *CLI) Run() error {
	dict, err := cmudict.Open(c.Dict)
	if err != nil {
		return err
	}
	in, err := fileutil.OpenReader(c.Words)
	if err != nil {
		return err
	}
	defer in.Close()
	words, err := readWords(in)
	if err != nil {
		return err
	}

	out, err := fileutil.CreateWriter(c.Outfile)
	if err != nil {
		return err
	}
	missing, err := writeSubset(out, dict, words)
	if err != nil {
		out.Close()
		return err
	}
	for _, word := range missing {
		log.Println("no pronunciation for", word)
	}
	return out.Close()
}

func readWords(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	for s.Scan() {
		seen[cmudict.Normalize(s.Text())] = struct{}{}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(seen))
	for word := range seen {
		words = append(words, word)
	}
	sort.Strings(words)
	return words, nil
}

// writeSubset writes every pronunciation of words found in dict and returns the words which
// weren't.
func writeSubset(w io.Writer, dict *cmudict.Dictionary, words []string) ([]string, error) {
	bw := bufio.NewWriter(w)
	var missing []string
	for _, word := range words {
		prons, ok := dict.Lookup(word)
		if !ok {
			missing = append(missing, word)
			continue
		}
		for i, pron := range prons {
			key := strings.ToUpper(word)
			if i > 0 {
				key = fmt.Sprintf("%s(%d)", key, i+1)
			}
			if _, err := fmt.Fprintf(bw, "%s  %s\n", key, pron); err != nil {
				return nil, err
			}
		}
	}
	return missing, bw.Flush()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Name("dict-subset"), kong.UsageOnError())
	ctx.FatalIfErrorf(ctx.Run())
}
