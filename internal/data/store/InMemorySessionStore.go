package store

import (
	"context"
	"sync"

	"github.com/nchandra/eduquest/internal/domain/sessionModel"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem SessionStore")

type InMemorySessionStore struct {
	sessionMutex *sync.RWMutex
	sessionMap   map[string]sessionModel.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionMutex: new(sync.RWMutex),
		sessionMap:   make(map[string]sessionModel.Session),
	}
}

func (store *InMemorySessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	store.sessionMap[session.ContentHash] = session
	inMemLogger.Debug(session.Id, " : Saved session to store")
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, contentHash string) (sessionModel.Session, bool) {
	store.sessionMutex.RLock()
	defer store.sessionMutex.RUnlock()
	result, found := store.sessionMap[contentHash]
	return result, found
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, contentHash string) {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	delete(store.sessionMap, contentHash)
}
