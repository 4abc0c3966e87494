package store

import (
	"context"
	"encoding/json"

	"github.com/nchandra/eduquest/internal/config"
	"github.com/nchandra/eduquest/internal/data/redisStore"
	"github.com/nchandra/eduquest/internal/domain/sessionModel"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisSessionStore)
	if backing == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  backing,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "session Id", session.Id)
	log.Debug("saving session")
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, session.ContentHash, data, config.RedisSessionTTL)
	if err == nil {
		log.Debug("Saved session to Redis")
	}
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, contentHash string) (sessionModel.Session, bool) {
	var session sessionModel.Session
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "content hash", contentHash)
	log.Debug("getting session")
	val, err := s.store.Get(ctx, contentHash)
	if s.store.IsNil(err) {
		return session, false
	} else if err != nil {
		return session, false
	}

	err = json.Unmarshal([]byte(val), &session)
	if err != nil {
		return session, false
	}

	log.Debug("Session found in Redis")
	return session, true
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, contentHash string) {
	err := s.store.Del(ctx, contentHash)
	if err != nil {
		s.logger.Error("Error deleting session from Redis", "contentHash", contentHash)
		return
	}
	s.logger.Debug("Session deleted from Redis", "contentHash", contentHash)
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
