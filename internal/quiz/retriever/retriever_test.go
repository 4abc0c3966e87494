package retriever_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/quiz/retriever"
	"github.com/nchandra/eduquest/internal/rag/vectorDB/memoryDB"
)

// keywordEmbedder maps each text onto a 3-axis topic vector so similarity is
// fully deterministic in tests.
type keywordEmbedder struct{}

func (e *keywordEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return vectorFor(query), nil
}

func (e *keywordEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vectors[i] = vectorFor(chunk)
	}
	return vectors, nil
}

func vectorFor(text string) []float32 {
	lower := strings.ToLower(text)
	vector := []float32{0.01, 0.01, 0.01}
	if strings.Contains(lower, "cat") {
		vector[0] = 1
	}
	if strings.Contains(lower, "dog") {
		vector[1] = 1
	}
	if strings.Contains(lower, "fish") {
		vector[2] = 1
	}
	return vector
}

func testChunks() []commonModels.DocChunk {
	return []commonModels.DocChunk{
		{ChunkId: "c0", Chunk: "cats purr when they are content", Position: 0},
		{ChunkId: "c1", Chunk: "dogs bark at strangers", Position: 1},
		{ChunkId: "c2", Chunk: "fish swim in schools", Position: 2},
	}
}

func buildTestIndex(t *testing.T) *retriever.Index {
	t.Helper()
	builder := retriever.NewBuilder(memoryDB.NewStore(), &keywordEmbedder{})
	index, err := builder.Build(context.Background(), "test_collection", testChunks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return index
}

func TestBuildEmptyChunks(t *testing.T) {
	builder := retriever.NewBuilder(memoryDB.NewStore(), &keywordEmbedder{})
	_, err := builder.Build(context.Background(), "empty", nil)
	if !errors.Is(err, quizModel.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestQueryReturnsMostRelevantFirst(t *testing.T) {
	index := buildTestIndex(t)

	matches, err := index.Query(context.Background(), "why do cats purr", 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Chunk.ChunkId != "c0" {
		t.Errorf("expected the cat chunk first, got %s", matches[0].Chunk.ChunkId)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches are not ordered by score")
	}
}

func TestQueryZeroK(t *testing.T) {
	index := buildTestIndex(t)

	matches, err := index.Query(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches for k=0, got %d", len(matches))
	}
}

func TestQueryKLargerThanIndex(t *testing.T) {
	index := buildTestIndex(t)

	matches, err := index.Query(context.Background(), "cats and dogs and fish", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected every chunk back, got %d", len(matches))
	}
}

func TestQueryNilIndex(t *testing.T) {
	var index *retriever.Index
	_, err := index.Query(context.Background(), "anything", 3)
	if !errors.Is(err, quizModel.ErrIndexNotBuilt) {
		t.Fatalf("expected ErrIndexNotBuilt, got %v", err)
	}
}

func TestQueryIsDeterministic(t *testing.T) {
	index := buildTestIndex(t)

	first, err := index.Query(context.Background(), "dogs", 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	second, err := index.Query(context.Background(), "dogs", 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for i := range first {
		if first[i].Chunk.ChunkId != second[i].Chunk.ChunkId {
			t.Fatalf("ordering changed between identical queries at %d", i)
		}
	}
}

func TestChunkAtWrapsAround(t *testing.T) {
	index := buildTestIndex(t)

	if index.Len() != 3 {
		t.Fatalf("expected 3 chunks, got %d", index.Len())
	}
	if index.ChunkAt(0).ChunkId != index.ChunkAt(3).ChunkId {
		t.Error("ChunkAt does not wrap modulo the chunk count")
	}
}

func TestTokenOverlap(t *testing.T) {
	if got := retriever.TokenOverlap("the cat sat", "the cat sat"); got != 1 {
		t.Errorf("identical texts should overlap fully, got %f", got)
	}
	if got := retriever.TokenOverlap("alpha beta", "gamma delta"); got != 0 {
		t.Errorf("disjoint texts should not overlap, got %f", got)
	}
	if got := retriever.TokenOverlap("", "anything"); got != 0 {
		t.Errorf("empty text should not overlap, got %f", got)
	}
}
