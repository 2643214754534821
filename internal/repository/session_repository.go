package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

const (
	sessionKeyPrefix   = "artsfest:session:"
	navigatorKeyPrefix = "artsfest:navigator:"
)

// RedisSessionRepository stores operator sessions and their navigator state
// in Redis so the panel can be restarted (or scaled) without logging
// everyone out.
type RedisSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionRepository constructs a Redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client, logger *zap.Logger) *RedisSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionRepository{client: client, logger: logger}
}

// SaveSession stores a session under its id with the given TTL.
func (r *RedisSessionRepository) SaveSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", session.ID, err)
	}
	return nil
}

// FindSession loads a session by id.
func (r *RedisSessionRepository) FindSession(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}
	session := &models.Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return session, nil
}

// DeleteSession removes a session and its navigator state.
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id, navigatorKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// SaveNavigator persists the per-session results entry state.
func (r *RedisSessionRepository) SaveNavigator(ctx context.Context, sessionID string, state *navigator.State, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal navigator for %s: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, navigatorKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set navigator for %s: %w", sessionID, err)
	}
	return nil
}

// FindNavigator loads the per-session results entry state.
func (r *RedisSessionRepository) FindNavigator(ctx context.Context, sessionID string) (*navigator.State, error) {
	raw, err := r.client.Get(ctx, navigatorKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get navigator for %s: %w", sessionID, err)
	}
	state := navigator.New()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("unmarshal navigator for %s: %w", sessionID, err)
	}
	return state, nil
}
