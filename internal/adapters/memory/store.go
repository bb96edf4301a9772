// Package memory holds sessions in process memory for the CLI and Redis-less deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"placelog/internal/adapters/observability"
	"placelog/internal/domain"
)

type SessionStore struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

type item struct {
	s        domain.Session
	expireAt time.Time
}

func New() *SessionStore {
	return &SessionStore{items: make(map[string]item), now: time.Now}
}

func (m *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	m.mu.RLock()
	it, ok := m.items[id]
	m.mu.RUnlock()
	if !ok || (!it.expireAt.IsZero() && m.now().After(it.expireAt)) {
		observability.ObserveSession("memory", "miss")
		return domain.Session{}, domain.ErrSessionNotFound
	}
	observability.ObserveSession("memory", "hit")
	return it.s, nil
}

// Put stores s; ttl <= 0 keeps it until deleted. Expired entries are swept on write.
func (m *SessionStore) Put(ctx context.Context, s domain.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, it := range m.items {
		if !it.expireAt.IsZero() && now.After(it.expireAt) {
			delete(m.items, k)
		}
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	m.items[s.ID] = item{s: s, expireAt: exp}
	observability.ObserveSession("memory", "put")
	return nil
}

// Update runs fn under the write lock so concurrent updates of one session never interleave.
func (m *SessionStore) Update(ctx context.Context, id string, ttl time.Duration, fn func(*domain.Session) error) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	it, ok := m.items[id]
	if !ok || (!it.expireAt.IsZero() && now.After(it.expireAt)) {
		observability.ObserveSession("memory", "miss")
		return domain.Session{}, domain.ErrSessionNotFound
	}
	s := it.s
	if err := fn(&s); err != nil {
		return it.s, err
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	m.items[id] = item{s: s, expireAt: exp}
	observability.ObserveSession("memory", "update")
	return s, nil
}

func (m *SessionStore) Del(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	observability.ObserveSession("memory", "del")
	return nil
}
