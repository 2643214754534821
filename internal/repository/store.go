package repository

import (
	"context"
	"time"

	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
)

// Store is the full session and navigator persistence surface. Both the
// Redis and the in-memory repositories implement it; the composition root
// picks one based on configuration.
type Store interface {
	SaveSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	FindSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SaveNavigator(ctx context.Context, sessionID string, state *navigator.State, ttl time.Duration) error
	FindNavigator(ctx context.Context, sessionID string) (*navigator.State, error)
}

var (
	_ Store = (*RedisSessionRepository)(nil)
	_ Store = (*MemorySessionRepository)(nil)
)
