package filereader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
)

func TestReadFileJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.jsonl")
	content := `{"url":"https://example.com/a","content":"hello world"}
{"url":"","content":"missing url"}
{"url":"https://example.com/b","content":""}
not-json
{"url":"https://example.com/c","content":"more content here"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var records []domain.RawRecord
	stats := &Stats{}
	if err := ReadFile(path, stats, func(r domain.RawRecord) error {
		records = append(records, r)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 valid records, got %d: %+v", len(records), records)
	}
	if stats.InvalidURLs != 1 || stats.MissingContent != 1 || stats.ValidationErrors != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestReadFileJSONArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	content := `[
		{"url":"https://example.com/a","content":"hello world"},
		{"url":"https://example.com/b","content":"more content"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var records []domain.RawRecord
	stats := &Stats{}
	if err := ReadFile(path, stats, func(r domain.RawRecord) error {
		records = append(records, r)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if stats.FilesProcessed != 1 {
		t.Fatalf("expected files processed incremented, got %+v", stats)
	}
}

func TestScanDirectoryFindsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.json"), []byte("[]"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.jsonl"), []byte(""), 0o644)
	os.WriteFile(filepath.Join(dir, "c.txt"), []byte("ignore me"), 0o644)

	files, err := ScanDirectory(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 supported files, got %d: %+v", len(files), files)
	}
}
