package memoryDB

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/rag/vectorDB"
)

// Store is an in-process vector backend used when no Qdrant instance is
// configured, and by tests. Collections are independent and read-mostly.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]entry
}

type entry struct {
	chunk  commonModels.DocChunk
	vector []float32
}

func NewStore() *Store {
	return &Store{collections: make(map[string][]entry)}
}

func (s *Store) CreateCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.collections[collectionName]; !exists {
		s.collections[collectionName] = nil
	}
	return nil
}

func (s *Store) DropCollection(ctx context.Context, collectionName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collectionName)
	return nil
}

func (s *Store) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunk and vector counts differ")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.collections[collectionName]
	for i, chunk := range chunks {
		entries = append(entries, entry{chunk: chunk, vector: vectors[i]})
	}
	s.collections[collectionName] = entries
	return nil
}

func (s *Store) Search(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]vectorDB.Hit, error) {
	s.mu.RLock()
	entries, exists := s.collections[collectionName]
	s.mu.RUnlock()
	if !exists {
		return nil, errors.New("unknown collection: " + collectionName)
	}

	hits := make([]vectorDB.Hit, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, vectorDB.Hit{
			ChunkId:  e.chunk.ChunkId,
			Position: e.chunk.Position,
			Content:  e.chunk.Chunk,
			Score:    cosineSimilarity(vector, e.vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Position < hits[j].Position
	})

	if uint64(len(hits)) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
