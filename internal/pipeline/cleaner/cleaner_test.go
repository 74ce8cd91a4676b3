package cleaner

import (
	"strings"
	"testing"
)

func TestCleanTextDecodesEntitiesAndStripsNav(t *testing.T) {
	raw := "Home\nLogin\nActual article content &amp; more text here that is long enough.\n123 456 789 012"
	got := CleanText(raw)

	if strings.Contains(got, "&amp;") {
		t.Fatalf("expected entity decoded, got %q", got)
	}
	if strings.Contains(got, "Login") {
		t.Fatalf("expected navigation line stripped, got %q", got)
	}
	if !strings.Contains(got, "Actual article content") {
		t.Fatalf("expected real content kept, got %q", got)
	}
}

func TestCleanTextCollapsesRepeatedPhrases(t *testing.T) {
	raw := "buy now buy now buy now this is the real sentence."
	got := CleanText(raw)
	if strings.Count(got, "buy now") > 1 {
		t.Fatalf("expected repeated phrase collapsed, got %q", got)
	}
}

func TestStopWordsLoadedOnce(t *testing.T) {
	a := StopWords()
	b := StopWords()
	if len(a) == 0 {
		t.Fatal("expected non-empty stop word set")
	}
	if _, ok := a["the"]; !ok {
		t.Fatal("expected common stop word 'the' present")
	}
	if len(a) != len(b) {
		t.Fatal("expected stable cached stop word set across calls")
	}
}

func TestSplitSentencesBasic(t *testing.T) {
	sentences := SplitSentences("Hello world. This is Go! Is it fun? Yes.")
	if len(sentences) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %+v", len(sentences), sentences)
	}
}

func TestDescriptionPicksHighestScoringParagraph(t *testing.T) {
	text := "Click here. Subscribe now.\n\nGolang provides strong concurrency primitives through Goroutines and Channels for building scalable systems."
	got := Description(text, 120)
	if strings.Contains(got, "Click here") {
		t.Fatalf("expected UI boilerplate paragraph skipped, got %q", got)
	}
	if !strings.Contains(got, "Golang") {
		t.Fatalf("expected technical paragraph chosen, got %q", got)
	}
}

func TestDescriptionTruncatesAtSentenceBoundary(t *testing.T) {
	text := strings.Repeat("Golang is great for systems programming. ", 10)
	got := Description(text, 100)
	if len(got) > 100 {
		t.Fatalf("expected truncation within budget, got %d chars", len(got))
	}
	if got == "" {
		t.Fatal("expected non-empty description")
	}
}

func TestChunkRespectsSizeBounds(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("This is a reasonably long sentence about search indexing and chunking behavior. ")
		if i%3 == 0 {
			b.WriteString("\n\n")
		}
	}

	chunks := Chunk(b.String(), "")
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for i, c := range chunks {
		if len(c) > maxChunkSize {
			t.Fatalf("chunk %d exceeds max size: %d", i, len(c))
		}
	}
}

func TestChunkShortTextProducesSingleChunk(t *testing.T) {
	chunks := Chunk("Just a short piece of text.", "")
	if len(chunks) != 1 {
		t.Fatalf("expected single chunk for short text, got %d", len(chunks))
	}
}

func TestChunkByHTMLStructureUsesHeadingSections(t *testing.T) {
	var section1, section2 strings.Builder
	for i := 0; i < 30; i++ {
		section1.WriteString("Kubernetes orchestrates containerized workloads across a cluster of machines. ")
	}
	for i := 0; i < 30; i++ {
		section2.WriteString("Observability pipelines collect metrics, logs and traces for operators. ")
	}

	html := "<article><h1>Orchestration Basics</h1><p>" + section1.String() + "</p>" +
		"<h1>Observability</h1><p>" + section2.String() + "</p></article>"

	chunks := Chunk(strings.Join([]string{section1.String(), section2.String()}, " "), html)
	if len(chunks) < 2 {
		t.Fatalf("expected at least one chunk per heading section, got %d: %+v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "Orchestration Basics") {
		t.Fatalf("expected first chunk anchored on its heading, got %q", chunks[0])
	}
}

func TestChunkByHTMLStructureFallsBackWithoutHeadings(t *testing.T) {
	text := strings.Repeat("Plain paragraph content without any heading markup here. ", 60)
	html := "<div><p>" + text + "</p></div>"

	chunks := Chunk(text, html)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk from paragraph-importance fallback")
	}
}

func TestKeywordsPrefersDeclaredThenFrequency(t *testing.T) {
	text := "kubernetes kubernetes kubernetes docker docker container orchestration platform"
	got := Keywords(text, []string{"observability"})
	if len(got) == 0 || got[0] != "observability" {
		t.Fatalf("expected declared keyword first, got %+v", got)
	}
	if len(got) > maxKeywords {
		t.Fatalf("expected at most %d keywords, got %d", maxKeywords, len(got))
	}
}

func TestKeywordsExcludesStopWords(t *testing.T) {
	got := Keywords("the and but kubernetes kubernetes docker", nil)
	for _, k := range got {
		if _, isStop := StopWords()[k]; isStop {
			t.Fatalf("expected no stop words in keywords, got %q in %+v", k, got)
		}
	}
}
