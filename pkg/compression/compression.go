// Package compression opens compiler artifacts that may be stored gzip or
// zstd compressed, and writes compressed output.
package compression

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Type represents the compression algorithm used.
type Type uint8

const (
	// TypeNone represents no compression.
	TypeNone Type = iota
	// TypeGzip is the format the compiler writes its report documents in.
	TypeGzip
	// TypeZstd is accepted for re-packed archives.
	TypeZstd
)

// String returns the name of the compression type.
func (t Type) String() string {
	switch t {
	case TypeGzip:
		return "gzip"
	case TypeZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect identifies the compression of data from its leading bytes.
func Detect(header []byte) Type {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return TypeGzip
	case bytes.HasPrefix(header, zstdMagic):
		return TypeZstd
	default:
		return TypeNone
	}
}

// TypeFromName guesses the compression from a file name extension.
func TypeFromName(name string) Type {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return TypeGzip
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return TypeZstd
	default:
		return TypeNone
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewReader sniffs r and returns a reader over the decompressed stream.
// Plain input is passed through. Closing the result does not close r.
func NewReader(r io.Reader) (io.ReadCloser, Type, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, TypeNone, fmt.Errorf("failed to read stream header: %w", err)
	}

	switch t := Detect(header); t {
	case TypeGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, t, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &readCloser{Reader: zr, close: zr.Close}, t, nil
	case TypeZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, t, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return &readCloser{Reader: zr, close: func() error { zr.Close(); return nil }}, t, nil
	default:
		return &readCloser{Reader: br}, TypeNone, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a compressor of type t. The caller must Close the
// result to flush it; w itself is not closed.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case TypeGzip:
		return gzip.NewWriter(w), nil
	case TypeZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

// Compress compresses data in one call.
func Compress(data []byte, t Type) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, t)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write %s data: %w", t, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s writer: %w", t, err)
	}
	return buf.Bytes(), nil
}
