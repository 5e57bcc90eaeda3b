package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nftforge/nft_backend/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	sessionCacheTTL         = 5 * time.Minute
	sessionCacheInflightTTL = 2 * time.Second
)

// cachedSessionRepository оборачивает SessionRepository кешем в Redis.
// Терминальные сессии неизменяемы и кешируются надолго, активные — на
// пару секунд, чтобы опросы статуса не били по базе.
type cachedSessionRepository struct {
	inner SessionRepository
	rdb   *redis.Client
}

func NewCachedSessionRepository(inner SessionRepository, rdb *redis.Client) SessionRepository {
	return &cachedSessionRepository{inner: inner, rdb: rdb}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("upload_session:%s", sessionID)
}

func (r *cachedSessionRepository) Create(ctx context.Context, session *model.UploadSession) error {
	return r.inner.Create(ctx, session)
}

func (r *cachedSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	key := sessionKey(sessionID)

	if data, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var session model.UploadSession
		if err := json.Unmarshal(data, &session); err == nil {
			return &session, nil
		}
	}

	session, err := r.inner.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ttl := sessionCacheInflightTTL
	if session.Terminal() {
		ttl = sessionCacheTTL
	}

	if data, err := json.Marshal(session); err == nil {
		// Ошибки кеша не важны для результата
		r.rdb.Set(ctx, key, data, ttl)
	}

	return session, nil
}

func (r *cachedSessionRepository) UpdateProgress(ctx context.Context, sessionID string, status string, bytesUploaded int64, percentage float64) error {
	if err := r.inner.UpdateProgress(ctx, sessionID, status, bytesUploaded, percentage); err != nil {
		return err
	}
	r.rdb.Del(ctx, sessionKey(sessionID))
	return nil
}

func (r *cachedSessionRepository) Complete(ctx context.Context, sessionID string, nftID uint) error {
	if err := r.inner.Complete(ctx, sessionID, nftID); err != nil {
		return err
	}
	r.rdb.Del(ctx, sessionKey(sessionID))
	return nil
}

func (r *cachedSessionRepository) Fail(ctx context.Context, sessionID string, errorMessage string) error {
	if err := r.inner.Fail(ctx, sessionID, errorMessage); err != nil {
		return err
	}
	r.rdb.Del(ctx, sessionKey(sessionID))
	return nil
}
