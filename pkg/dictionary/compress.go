package dictionary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdExt marks a zstd-compressed dictionary, e.g. words.txt.zst.
const zstdExt = ".zst"

// splitCompression strips a trailing .zst from filename and reports whether
// one was present.
func splitCompression(filename string) (string, bool) {
	if strings.EqualFold(filepath.Ext(filename), zstdExt) {
		return filename[:len(filename)-len(zstdExt)], true
	}
	return filename, false
}

type zstdReadCloser struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

// openDictionary opens filename for reading, decompressing it when the name
// ends in .zst.
func openDictionary(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", filename, err)
	}
	if _, compressed := splitCompression(filename); !compressed {
		return file, nil
	}
	dec, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to start zstd decoder for %s: %w", filename, err)
	}
	return &zstdReadCloser{Decoder: dec, file: file}, nil
}

type zstdWriteCloser struct {
	*zstd.Encoder
	file *os.File
}

func (z *zstdWriteCloser) Close() error {
	return errors.Join(z.Encoder.Close(), z.file.Close())
}

// createDictionary creates filename for writing, compressing its content
// when the name ends in .zst.
func createDictionary(filename string) (io.WriteCloser, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create dictionary %s: %w", filename, err)
	}
	if _, compressed := splitCompression(filename); !compressed {
		return file, nil
	}
	enc, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to start zstd encoder for %s: %w", filename, err)
	}
	return &zstdWriteCloser{Encoder: enc, file: file}, nil
}
