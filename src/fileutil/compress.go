// Package fileutil opens files for reading and writing, transparently handling gzip and xz
// compression based on the file extension. The path "-" stands for stdin or stdout.
package fileutil

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Compression identifies how a file's contents are encoded.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionXZ   Compression = "xz"
)

// DetectCompression picks the compression from the file extension.
func DetectCompression(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".xz"):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// OpenReader opens path for reading. The returned reader yields decompressed contents.
func OpenReader(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, DetectCompression(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return &stackedReader{Reader: r, closers: closersOf(r, f)}, nil
}

// NewReader wraps r with a decompressor.
func NewReader(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionXZ:
		return xz.NewReader(r)
	default:
		return r, nil
	}
}

// CreateWriter creates or truncates path for writing. Data written is compressed when path ends
// in .gz or .xz; Close must be called to flush it.
func CreateWriter(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, DetectCompression(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not create %s: %w", path, err)
	}
	return &stackedWriter{Writer: w, closers: closersOf(w, f)}, nil
}

// NewWriter wraps w with a compressor.
func NewWriter(w io.Writer, c Compression) (io.Writer, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionXZ:
		return xz.NewWriter(w)
	default:
		return w, nil
	}
}

// closersOf returns the closers to run, innermost first. wrapped is only included when it isn't
// the file itself.
func closersOf(wrapped interface{}, f *os.File) []io.Closer {
	var result []io.Closer
	if c, ok := wrapped.(io.Closer); ok && wrapped != interface{}(f) {
		result = append(result, c)
	}
	return append(result, f)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (r *stackedReader) Close() error {
	return closeAll(r.closers)
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (w *stackedWriter) Close() error {
	return closeAll(w.closers)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
