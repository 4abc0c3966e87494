package sessionModel

import (
	"context"
	"time"
)

// Session is the persisted record of an indexed document. Sessions are keyed
// by the content hash so re-uploading the same document reuses the index.
type Session struct {
	Id          string    `json:"id"`
	ContentHash string    `json:"content_hash"`
	DocName     string    `json:"doc_name"`
	ChunkCount  int       `json:"chunk_count"`
	Collection  string    `json:"collection"`
	CreatedTime time.Time `json:"created_time"`
}

type SessionStore interface {
	GetSession(ctx context.Context, contentHash string) (Session, bool)
	SaveSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, contentHash string)
}
