package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
)

// SessionRepository keeps sessions in process memory. Every Save restarts
// the session's idle TTL.
type SessionRepository struct {
	cache *cache.Cache
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *SessionRepository) Get(_ context.Context, id string) (*model.Session, error) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("session %q: %w", id, repository.ErrNotFound)
	}
	return v.(*model.Session).Clone(), nil
}

func (r *SessionRepository) Save(_ context.Context, session *model.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of live sessions, including expired ones not yet swept.
func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}
