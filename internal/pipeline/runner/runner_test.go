package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSampleInput(t *testing.T, dir string, n int) {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		html := `{"url":"https://example.com/post-` + itoa(i) + `","content":"<html><head><title>Post ` + itoa(i) + `</title></head><body><article><p>` +
			strings.Repeat("This is a reasonably long sentence about search systems and indexing pipelines. ", 20) +
			`</p></article></body></html>"}`
		sb.WriteString(html)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(filepath.Join(dir, "input.jsonl"), []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestRunnerProcessesBatchAndFlushesOutput(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeSampleInput(t, inDir, 5)

	r := New(Config{
		InputDir:        inDir,
		OutputDir:       outDir,
		BatchName:       "test",
		Concurrency:     2,
		MaxItemsPerFile: 1000,
	})

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.DocumentsProcessed == 0 {
		t.Fatal("expected at least one processed document")
	}
	if summary.FilesProduced == 0 {
		t.Fatal("expected at least one output file")
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".jsonl") {
			found = true
			f, _ := os.Open(filepath.Join(outDir, e.Name()))
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				var line map[string]any
				if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
					t.Fatalf("invalid json line: %v", err)
				}
				if _, ok := line["type"]; !ok {
					t.Fatal("expected 'type' field on output line")
				}
			}
			f.Close()
		}
	}
	if !found {
		t.Fatal("expected at least one .jsonl output file")
	}
}
