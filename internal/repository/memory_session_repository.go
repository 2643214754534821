package repository

import (
	"context"
	"sync"
	"time"

	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type memoryEntry struct {
	session   models.Session
	state     *navigator.State
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory. It is the
// default when Redis is disabled and the backing store for tests. Sessions
// do not survive a restart.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository constructs an in-memory session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		entries: map[string]*memoryEntry{},
		now:     time.Now,
	}
}

// SaveSession stores a session with the given TTL.
func (r *MemorySessionRepository) SaveSession(_ context.Context, session *models.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[session.ID]
	if !ok {
		entry = &memoryEntry{}
		r.entries[session.ID] = entry
	}
	entry.session = *session
	entry.expiresAt = r.now().Add(ttl)
	return nil
}

// FindSession loads a session by id, honouring TTL expiry.
func (r *MemorySessionRepository) FindSession(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || r.now().After(entry.expiresAt) {
		delete(r.entries, id)
		return nil, appErrors.ErrNotFound
	}
	session := entry.session
	return &session, nil
}

// DeleteSession removes a session and its navigator state.
func (r *MemorySessionRepository) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// SaveNavigator persists the per-session results entry state.
func (r *MemorySessionRepository) SaveNavigator(_ context.Context, sessionID string, state *navigator.State, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &memoryEntry{expiresAt: r.now().Add(24 * time.Hour)}
		r.entries[sessionID] = entry
	}
	entry.state = state
	return nil
}

// FindNavigator loads the per-session results entry state.
func (r *MemorySessionRepository) FindNavigator(_ context.Context, sessionID string) (*navigator.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sessionID]
	if !ok || entry.state == nil {
		return nil, appErrors.ErrNotFound
	}
	return entry.state, nil
}
