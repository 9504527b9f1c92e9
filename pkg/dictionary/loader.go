package dictionary

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ReadText parses word<TAB>weight lines into v. Blank lines and lines
// starting with '#' are skipped, and a lone integer on the first entry line
// is taken as an entry count header and ignored. The word is everything
// before the last tab, so words may contain spaces.
func ReadText(r io.Reader, source string, v *Vocabulary) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	seenEntry := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		tab := strings.LastIndexByte(line, '\t')
		if tab < 0 {
			if !seenEntry {
				if _, err := strconv.Atoi(trimmed); err == nil {
					seenEntry = true
					continue
				}
			}
			return fmt.Errorf("%s:%d: expected word<TAB>weight, got %q", source, lineNo, line)
		}
		seenEntry = true

		word := strings.TrimSpace(line[:tab])
		weight, err := strconv.ParseFloat(strings.TrimSpace(line[tab+1:]), 64)
		if err != nil {
			return fmt.Errorf("%s:%d: bad weight: %w", source, lineNo, err)
		}
		if err := v.Add(word, weight, fmt.Sprintf("%s:%d", source, lineNo)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}
	return nil
}

// ReadBinary parses the binary format into v: a little-endian int32 entry
// count, then per entry a uint16 byte length, the word bytes and a float64
// weight.
func ReadBinary(r io.Reader, source string, v *Vocabulary) error {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	if totalEntries < 0 || totalEntries > maxEntries {
		return fmt.Errorf("invalid entry count in %s: %d", source, totalEntries)
	}
	log.Debugf("Loading %s with %d entries", source, totalEntries)

	buf := make([]byte, 64)
	for i := 0; i < int(totalEntries); i++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return fmt.Errorf("failed to read word length of entry %d in %s: %w", i, source, err)
		}
		if cap(buf) < int(wordLen) {
			buf = make([]byte, wordLen)
		}
		wordBytes := buf[:wordLen]
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word of entry %d in %s: %w", i, source, err)
		}
		word := string(wordBytes)

		var weight float64
		if err := binary.Read(reader, binary.LittleEndian, &weight); err != nil {
			return fmt.Errorf("failed to read weight for word %s in %s: %w", word, source, err)
		}
		if err := v.Add(word, weight, fmt.Sprintf("%s#%d", source, i)); err != nil {
			return err
		}
	}
	return nil
}

// WriteBinary writes words and weights in the format ReadBinary reads.
func WriteBinary(w io.Writer, words []string, weights []float64) error {
	if len(words) != len(weights) {
		return fmt.Errorf("%d words but %d weights", len(words), len(weights))
	}
	if len(words) > maxEntries {
		return fmt.Errorf("too many entries: %d", len(words))
	}

	writer := bufio.NewWriter(w)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("word %d is %d bytes, limit is %d", i, len(word), math.MaxUint16)
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := writer.WriteString(word); err != nil {
			return fmt.Errorf("failed to write word %s: %w", word, err)
		}
		if err := binary.Write(writer, binary.LittleEndian, weights[i]); err != nil {
			return fmt.Errorf("failed to write weight for word %s: %w", word, err)
		}
	}
	return writer.Flush()
}

// WriteFile saves words and weights to path in the binary format, zstd
// compressed when path ends in .zst.
func WriteFile(path string, words []string, weights []float64) error {
	w, err := createDictionary(path)
	if err != nil {
		return err
	}
	if err := WriteBinary(w, words, weights); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Debugf("Wrote %d entries to %s", len(words), path)
	return nil
}

// LoadFile reads one dictionary file, choosing the parser by format.
func LoadFile(path string) (*Vocabulary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := openDictionary(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	v := NewVocabulary()
	switch format {
	case FormatBinary:
		err = ReadBinary(file, path, v)
	case FormatText:
		err = ReadText(file, path, v)
	default:
		err = fmt.Errorf("unsupported format %v for %s", format, path)
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d entries from %s (%s)", v.Len(), path, format)
	return v, nil
}

// LoadFiles parses every path concurrently and merges the results in
// argument order. A word appearing in two files is a duplicate.
func LoadFiles(ctx context.Context, paths ...string) (*Vocabulary, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no dictionary files given")
	}

	parts := make([]*Vocabulary, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := LoadFile(path)
			if err != nil {
				return err
			}
			parts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := parts[0]
	for _, part := range parts[1:] {
		if err := merged.Merge(part); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
