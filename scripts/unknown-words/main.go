// Command unknown-words lists the words of a chat log which are missing from the pronouncing
// dictionary, most frequent first. Words seen only once are left out.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/fileutil"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer"
)

type Datasource struct {
	lineParser func(string) string
}

var Unescaper = strings.NewReplacer("\\/", "/", "\\\"", "\"", "''''", "'", "''", "'")

var sources = map[string]Datasource{
	"wikipedia": {
		lineParser: func(s string) string {
			tokens := strings.Split(s, "+++$+++")
			if len(tokens) < 8 {
				return ""
			}
			cleaned := strings.TrimSpace(tokens[7]) // 7th index is the 'cleaned' content
			return Unescaper.Replace(cleaned)
		},
	},
	"gen-chat": {
		lineParser: func(s string) string {
			tokens := strings.Split(s, ",")
			if len(tokens) < 4 {
				return ""
			}
			return strings.Trim(tokens[3], " \"")
		},
	},
}

type CLI struct {
	Source string `name:"source" enum:"wikipedia,gen-chat" default:"gen-chat" help:"Format of the input file."`
	Dict   string `name:"dict" type:"path" help:"CMU Pronouncing Dictionary to use instead of the embedded one."`
	File   string `arg:"" type:"path" help:"Input file, optionally .gz or .xz compressed."`
}

func (c *CLI) Run() error {
	dict := cmudict.Default()
	if c.Dict != "" {
		var err error
		if dict, err = cmudict.Open(c.Dict); err != nil {
			return err
		}
	}
	f, err := fileutil.OpenReader(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	results, err := unknownWords(f, sources[c.Source], dict)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Println(r.word, r.count)
	}
	return nil
}

type result struct {
	word  string
	count int
}

func unknownWords(r io.Reader, source Datasource, dict *cmudict.Dictionary) ([]result, error) {
	counts := make(map[string]int)
	s := bufio.NewScanner(r)
	for s.Scan() {
		str := strings.TrimSpace(s.Text())
		if str == "" {
			continue
		}
		for _, line := range limerickhammer.ParsePoem(source.lineParser(str)) {
			for _, word := range line {
				if skip(word) || dict.Contains(word) {
					continue
				}
				counts[cmudict.Normalize(word)]++
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	var results []result
	for word, count := range counts {
		if count == 1 {
			continue // we don't care about one-offs.
		}
		results = append(results, result{word, count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].count != results[j].count {
			return results[i].count > results[j].count
		}
		return results[i].word < results[j].word
	})
	return results, nil
}

// skip reports whether word is markup or a link rather than something a person would say.
func skip(word string) bool {
	return strings.HasPrefix(word, "http") || strings.ContainsAny(word, "~`0123456789")
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Name("unknown-words"), kong.UsageOnError())
	if err := ctx.Run(); err != nil {
		fmt.Printf("encountered error: %v\n", err)
		os.Exit(1)
	}
}
