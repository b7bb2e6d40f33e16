// Package ingest reads a symbol-day's raw message table and reference data
// (spec.md §6.1, §6.3) into the shapes S1/S2/S3 operate on.
package ingest

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// OpenCompressed opens filename for reading, transparently zstd-decompressing
// it if the name ends in ".zst" or ".zstd". Adapted from the teacher's
// MakeCompressedReader (compressed_io.go), generalized to return a single
// io.ReadCloser instead of a reader plus a separate closer func.
func OpenCompressed(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ".zst") && !strings.HasSuffix(filename, ".zstd") {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdReadCloser{zr: zr, f: f}, nil
}

type zstdReadCloser struct {
	zr *zstd.Decoder
	f  *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.zr.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.zr.Close()
	return z.f.Close()
}
