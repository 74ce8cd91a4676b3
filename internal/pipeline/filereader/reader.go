// Package filereader streams raw records from JSON-array and JSONL
// input files without loading a whole file into memory, grounded on
// the original ijson-based streaming reader.
package filereader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumensearch/search-core/internal/core/domain"
)

var SupportedExtensions = []string{".json", ".jsonl"}

// Stats accumulates read/validation counters across one or more files,
// mirroring the original reader's throttled-logging bookkeeping.
type Stats struct {
	FilesProcessed   int
	DocumentsRead    int
	ErrorsCount      int
	EmptyFiles       int
	ValidationErrors int
	InvalidURLs      int
	MissingContent   int
}

// RecordFunc is invoked once per validated record; returning an error
// aborts the remaining stream for that file.
type RecordFunc func(domain.RawRecord) error

// ScanDirectory returns supported files (.json, .jsonl) under dir,
// sorted for deterministic processing order.
func ScanDirectory(dir string, recursive bool) ([]string, error) {
	var files []string

	walk := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if isSupportedExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isSupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ReadFile streams one file (JSON array or JSONL, chosen by
// extension) and invokes fn for every record that passes validation.
// It never loads the whole file into memory: JSON arrays are consumed
// token-by-token via json.Decoder, and JSONL is read line-by-line.
func ReadFile(path string, stats *Stats, fn RecordFunc) error {
	f, err := os.Open(path)
	if err != nil {
		stats.ErrorsCount++
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var count int
	switch filepath.Ext(path) {
	case ".jsonl":
		count, err = readJSONL(f, path, stats, fn)
	case ".json":
		count, err = readJSONArray(f, path, stats, fn)
	default:
		return fmt.Errorf("unsupported file extension: %s", path)
	}
	if err != nil {
		stats.ErrorsCount++
		return err
	}

	stats.FilesProcessed++
	if count == 0 {
		stats.EmptyFiles++
	} else {
		stats.DocumentsRead += count
	}
	return nil
}

func readJSONL(r io.Reader, path string, stats *Stats, fn RecordFunc) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	count := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record domain.RawRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			stats.ValidationErrors++
			continue
		}

		if !validate(record, stats) {
			continue
		}

		if err := fn(record); err != nil {
			return count, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}

// readJSONArray consumes a top-level JSON array element by element
// using the decoder's token stream, never materializing the array.
func readJSONArray(r io.Reader, path string, stats *Stats, fn RecordFunc) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("%s: expected top-level JSON array", path)
	}

	count := 0
	for dec.More() {
		var record domain.RawRecord
		if err := dec.Decode(&record); err != nil {
			stats.ValidationErrors++
			continue
		}

		if !validate(record, stats) {
			continue
		}

		if err := fn(record); err != nil {
			return count, fmt.Errorf("%s: item %d: %w", path, count, err)
		}
		count++
	}
	return count, nil
}

func validate(record domain.RawRecord, stats *Stats) bool {
	url := strings.TrimSpace(record.URL)
	if url == "" || !isValidURL(url) {
		stats.InvalidURLs++
		return false
	}
	if record.Content == "" {
		stats.MissingContent++
		return false
	}
	return true
}

func isValidURL(url string) bool {
	return (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) && len(url) > 10
}
