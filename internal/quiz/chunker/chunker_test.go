package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

func TestChunkEmptyDocument(t *testing.T) {
	_, err := Chunk(commonModels.Document{}, "   \n\t  ", 1000, 150)
	if err != quizModel.ErrEmptyDocument {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestChunkPositionsAreSequential(t *testing.T) {
	text := strings.Repeat("one sentence here. ", 300)
	chunks, err := Chunk(commonModels.Document{Id: "doc-1"}, text, 500, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("chunk %d has position %d", i, chunk.Position)
		}
		if chunk.ChunkId == "" {
			t.Errorf("chunk %d has no id", i)
		}
		if chunk.Doc.Id != "doc-1" {
			t.Errorf("chunk %d lost its document", i)
		}
	}
}

func TestChunkSpansAreDeterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 200)

	first, err := Chunk(commonModels.Document{}, text, 400, 40)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	second, err := Chunk(commonModels.Document{}, text, 400, 40)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Chunk != second[i].Chunk {
			t.Errorf("span %d differs between runs", i)
		}
	}
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	spans := Split("short text", 1000, 150)
	if len(spans) != 1 || spans[0] != "short text" {
		t.Fatalf("expected the text back unchanged, got %v", spans)
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	paragraphA := strings.Repeat("a", 400)
	paragraphB := strings.Repeat("b", 400)
	spans := Split(paragraphA+"\n\n"+paragraphB, 500, 50)

	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if !strings.HasPrefix(spans[0], "a") || !strings.Contains(spans[1], "b") {
		t.Error("paragraphs did not split at the blank line")
	}
}

func TestSplitBoundsSpanLength(t *testing.T) {
	limit, overlap := 500, 50
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)
	spans := Split(text, limit, overlap)

	// The overlap carried into the next span may push it slightly past limit.
	maxLen := limit + overlap + 2
	for i, span := range spans {
		if len(span) > maxLen {
			t.Errorf("span %d has %d characters, max is %d", i, len(span), maxLen)
		}
	}
}

func TestSplitHardCutsUnbrokenText(t *testing.T) {
	text := strings.Repeat("a", 2500)
	spans := Split(text, 1000, 150)

	if len(spans) < 3 {
		t.Fatalf("expected at least 3 spans, got %d", len(spans))
	}
	for i, span := range spans {
		if len(span) > 1000 {
			t.Errorf("span %d exceeds limit: %d", i, len(span))
		}
	}
	if !strings.HasSuffix(spans[len(spans)-1], "a") {
		t.Error("tail of text was lost")
	}
}

// reconstruct undoes the overlap: it strips from each span the longest
// prefix that the accumulated text already ends with.
func reconstruct(spans []string) string {
	if len(spans) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(spans[0])
	for _, span := range spans[1:] {
		acc := b.String()
		k := len(span)
		if len(acc) < k {
			k = len(acc)
		}
		for ; k > 0; k-- {
			if strings.HasSuffix(acc, span[:k]) {
				break
			}
		}
		b.WriteString(span[k:])
	}
	return b.String()
}

func TestSplitReconstructsOriginalText(t *testing.T) {
	// Distinct sentences and a non-repeating unbroken run, so the overlap
	// stripping in reconstruct cannot over-match.
	sentences := make([]string, 120)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("item %04d stands on its own", i)
	}
	var unbroken strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&unbroken, "%04x", i*7919)
	}

	cases := []struct {
		name    string
		text    string
		limit   int
		overlap int
	}{
		{"sentence boundaries", strings.Join(sentences, ". "), 500, 50},
		{"flush shorter than overlap", strings.Join(sentences[:20], ". "), 40, 30},
		{"oversized run mid stream", sentences[0] + ". " + unbroken.String() + ". " + sentences[1], 120, 20},
		{"paragraph boundaries", strings.Join(sentences[:40], "\n\n"), 90, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spans := Split(tc.text, tc.limit, tc.overlap)
			if got := reconstruct(spans); got != tc.text {
				t.Errorf("reconstruction differs from the source text:\ngot  %q\nwant %q", got, tc.text)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("• bullet   one\n\n\t• bullet two  ")
	want := "bullet one bullet two"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
