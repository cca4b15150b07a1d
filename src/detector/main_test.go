package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/fileutil"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peru = "There once was a man from Peru\nWho dreamed he was eating his shoe\nHe woke in the night\nWith a terrible fright\nAnd found that his dream had come true"

var detector = limerickhammer.NewDetector(cmudict.Default())

func TestDetect(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"\n" + peru + "\n\n", peru + "\n-----------\nTrue\n"},
		{strings.Replace(peru, "true", "home", 1), strings.Replace(peru, "true", "home", 1) + "\n-----------\nFalse\n"},
		{"", "\n-----------\nFalse\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		require.NoError(t, detect(detector, strings.NewReader(tt.input), &out, false))
		assert.Equal(t, tt.expected, out.String())
	}
}

func TestDetect_UnknownWord(t *testing.T) {
	var out bytes.Buffer
	err := detect(detector, strings.NewReader(strings.Replace(peru, "true", "xyzzy", 1)), &out, true)

	var lookupErr *limerickhammer.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "xyzzy", lookupErr.Word)
	assert.Empty(t, out.String())
}

func TestCLI_Run(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "poem.txt.gz")
	outfile := filepath.Join(dir, "verdict.txt.xz")

	w, err := fileutil.CreateWriter(infile)
	require.NoError(t, err)
	_, err = w.Write([]byte(peru))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)
	_, err = parser.Parse([]string{"-i", infile, "-o", outfile, "--no-debug"})
	require.NoError(t, err)
	require.NoError(t, cli.Run())

	r, err := fileutil.OpenReader(outfile)
	require.NoError(t, err)
	defer r.Close()
	var got bytes.Buffer
	_, err = got.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, peru+"\n-----------\nTrue\n", got.String())
}

func TestCLI_CustomDictionary(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "tiny.dict")
	require.NoError(t, os.WriteFile(dict, []byte("SHOE  SH UW1\n"), 0o600))
	infile := filepath.Join(dir, "poem.txt")
	require.NoError(t, os.WriteFile(infile, []byte(peru), 0o600))

	cli := CLI{Infile: infile, Outfile: filepath.Join(dir, "out.txt"), Dict: dict}
	err := cli.Run()
	var lookupErr *limerickhammer.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "Peru", lookupErr.Word)
}

func TestCLI_MissingInput(t *testing.T) {
	cli := CLI{Infile: filepath.Join(t.TempDir(), "missing.txt"), Outfile: "-"}
	assert.Error(t, cli.Run())
}
