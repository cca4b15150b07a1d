// Command detector reads a poem and reports whether it is a limerick.
package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/fileutil"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer"
)

const separator = "-----------"

// CLI is the detector's command line. Files ending in .gz or .xz are (de)compressed.
type CLI struct {
	Infile  string `name:"infile" short:"i" default:"-" help:"File to read the poem from, - for stdin."`
	Outfile string `name:"outfile" short:"o" default:"-" help:"File to write the verdict to, - for stdout."`
	Debug   bool   `name:"debug" negatable:"" help:"Log a line by line breakdown of the poem."`
	Dict    string `name:"dict" env:"LIMERICK_HAMMER_DICTPATH" type:"path" help:"CMU Pronouncing Dictionary to use instead of the embedded one."`
}

func (c *CLI) Run() error {
	dict := cmudict.Default()
	if c.Dict != "" {
		var err error
		if dict, err = cmudict.Open(c.Dict); err != nil {
			return err
		}
	}

	in, err := fileutil.OpenReader(c.Infile)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fileutil.CreateWriter(c.Outfile)
	if err != nil {
		return err
	}
	if err := detect(limerickhammer.NewDetector(dict), in, out, c.Debug); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// detect writes the text read from in, a separator, and the verdict to out.
func detect(d *limerickhammer.Detector, in io.Reader, out io.Writer, debug bool) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("could not read poem: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if debug {
		log.Printf("analyzed poem:\n%v", d.Analyze(text))
	}
	isLimerick, err := d.IsLimerick(text)
	if err != nil {
		return err
	}
	verdict := "False"
	if isLimerick {
		verdict = "True"
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n%s\n", text, separator, verdict)
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("detector"),
		kong.Description("Decide whether a poem is a limerick."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
