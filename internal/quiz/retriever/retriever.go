package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/internal/metrics"
	"github.com/nchandra/eduquest/internal/rag/embedding"
	"github.com/nchandra/eduquest/internal/rag/vectorDB"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

// scoreEpsilon is the band inside which two semantic scores count as tied;
// ties fall back to lexical overlap, then to chunk position.
const scoreEpsilon = 1e-4

type Match struct {
	Chunk commonModels.DocChunk
	Score float64
}

// Builder constructs one Index per document. The index is read-only after
// Build and safe for concurrent queries.
type Builder struct {
	store    vectorDB.DataProcessor
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func NewBuilder(store vectorDB.DataProcessor, embedder embedding.Embedder) *Builder {
	return &Builder{
		store:    store,
		embedder: embedder,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

func (b *Builder) Build(ctx context.Context, collectionName string, chunks []commonModels.DocChunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, quizModel.ErrEmptyDocument
	}

	if err := b.store.CreateCollection(ctx, collectionName); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", collectionName, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk
	}

	start := time.Now()
	vectors, err := b.embedder.BatchEmbedding(ctx, texts)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	if err := b.store.UpsertBatch(ctx, collectionName, chunks, vectors); err != nil {
		return nil, fmt.Errorf("indexing chunks: %w", err)
	}

	b.logger.Debug("Index built", "collection", collectionName, "chunks", len(chunks))

	byId := make(map[string]commonModels.DocChunk, len(chunks))
	for _, c := range chunks {
		byId[c.ChunkId] = c
	}

	return &Index{
		collection: collectionName,
		chunks:     chunks,
		byId:       byId,
		store:      b.store,
		embedder:   b.embedder,
		built:      true,
	}, nil
}

// Index is the retrieval handle for one document's chunk set.
type Index struct {
	collection string
	chunks     []commonModels.DocChunk
	byId       map[string]commonModels.DocChunk
	store      vectorDB.DataProcessor
	embedder   embedding.Embedder
	built      bool
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.chunks)
}

// ChunkAt returns the chunk at position n modulo the chunk count, which gives
// the generator its round-robin conditioning order.
func (i *Index) ChunkAt(n int) commonModels.DocChunk {
	return i.chunks[n%len(i.chunks)]
}

func (i *Index) Collection() string {
	return i.collection
}

// Query embeds the text and returns at most k chunks ordered by
// non-increasing relevance. Semantic score ranks first; lexical overlap
// breaks near-ties, earlier chunk position breaks exact ones.
func (i *Index) Query(ctx context.Context, text string, k int) ([]Match, error) {
	if i == nil || !i.built {
		return nil, quizModel.ErrIndexNotBuilt
	}
	if k <= 0 {
		return []Match{}, nil
	}

	queryVector, err := i.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Over-fetch so the lexical tie-break has candidates to reorder.
	fetch := uint64(2 * k)
	start := time.Now()
	hits, err := i.store.Search(ctx, i.collection, queryVector, fetch)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	type ranked struct {
		hit     vectorDB.Hit
		lexical float64
	}
	candidates := make([]ranked, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, ranked{hit: h, lexical: TokenOverlap(text, h.Content)})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		diff := candidates[a].hit.Score - candidates[b].hit.Score
		if math.Abs(diff) > scoreEpsilon {
			return diff > 0
		}
		if candidates[a].lexical != candidates[b].lexical {
			return candidates[a].lexical > candidates[b].lexical
		}
		return candidates[a].hit.Position < candidates[b].hit.Position
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		chunk, known := i.byId[c.hit.ChunkId]
		if !known {
			// Hit from a stale collection entry; reconstruct from payload.
			chunk = commonModels.DocChunk{ChunkId: c.hit.ChunkId, Chunk: c.hit.Content, Position: c.hit.Position}
		}
		matches = append(matches, Match{Chunk: chunk, Score: clamp01(c.hit.Score)})
	}
	return matches, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
