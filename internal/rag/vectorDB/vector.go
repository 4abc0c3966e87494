package vectorDB

import (
	"context"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
)

// Hit is one scored retrieval result from the vector backend.
type Hit struct {
	ChunkId  string
	Position int
	Content  string
	Score    float64
}

type DataProcessor interface {
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error
	Search(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]Hit, error)
	DropCollection(ctx context.Context, collectionName string) error
}
