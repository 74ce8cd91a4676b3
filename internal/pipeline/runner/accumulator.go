package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lumensearch/search-core/internal/core/domain"
)

// outputLine is one JSONL record written to the indexer's input
// directory: {"type":"document"|"chunk", ...fields}.
type outputLine struct {
	Type string `json:"type"`
	domain.Document
}

type chunkOutputLine struct {
	Type string `json:"type"`
	domain.DocumentChunk
}

// accumulator buffers documents/chunks and flushes them to bounded
// JSONL files once the combined item count reaches maxItemsPerFile.
type accumulator struct {
	mu              sync.Mutex
	outputDir       string
	batchName       string
	maxItemsPerFile int

	documents []*domain.Document
	chunks    []*domain.DocumentChunk

	filesWritten int
	partNumber   int
}

func newAccumulator(outputDir, batchName string, maxItemsPerFile int) *accumulator {
	return &accumulator{
		outputDir:       outputDir,
		batchName:       batchName,
		maxItemsPerFile: maxItemsPerFile,
	}
}

func (a *accumulator) add(doc *domain.Document, chunks []*domain.DocumentChunk) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.documents = append(a.documents, doc)
	a.chunks = append(a.chunks, chunks...)

	if len(a.documents)+len(a.chunks) >= a.maxItemsPerFile {
		return a.flushLocked()
	}
	return nil
}

func (a *accumulator) flushAll() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.documents) == 0 && len(a.chunks) == 0 {
		return nil
	}
	return a.flushLocked()
}

func (a *accumulator) flushLocked() error {
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return err
	}

	filename := fmt.Sprintf("%s_part_%03d.jsonl", a.batchName, a.partNumber)
	path := filepath.Join(a.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	for _, doc := range a.documents {
		if err := enc.Encode(outputLine{Type: "document", Document: *doc}); err != nil {
			return err
		}
	}
	for _, chunk := range a.chunks {
		if err := enc.Encode(chunkOutputLine{Type: "chunk", DocumentChunk: *chunk}); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	a.documents = a.documents[:0]
	a.chunks = a.chunks[:0]
	a.partNumber++
	a.filesWritten++
	return nil
}
