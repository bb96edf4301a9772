package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"placelog/internal/adapters/observability"
	"placelog/internal/domain"
)

const keyPrefix = "session:"

// maxUpdateRetries bounds optimistic retries when another writer touches the key mid-update.
const maxUpdateRetries = 8

var ErrUpdateConflict = errors.New("session update kept conflicting")

// SessionStore keeps one JSON document per session, expiring after ttl of inactivity.
type SessionStore struct{ c *redis.Client }

func New(addr, pass string, db int) *SessionStore {
	return &SessionStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewWithClient(c *redis.Client) *SessionStore { return &SessionStore{c: c} }

func (r *SessionStore) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	v, err := r.c.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("redis", "miss")
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	observability.ObserveSession("redis", "hit")
	var s domain.Session
	if err := json.Unmarshal(v, &s); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

func (r *SessionStore) Put(ctx context.Context, s domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	observability.ObserveSession("redis", "put")
	return r.c.Set(ctx, keyPrefix+s.ID, b, ttl).Err()
}

// Update is an optimistic WATCH/MULTI transaction; fn is rerun when the key
// changes between the read and the write.
func (r *SessionStore) Update(ctx context.Context, id string, ttl time.Duration, fn func(*domain.Session) error) (domain.Session, error) {
	key := keyPrefix + id
	var out domain.Session
	txf := func(tx *redis.Tx) error {
		v, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var cur, s domain.Session
		if err := json.Unmarshal(v, &cur); err != nil {
			return err
		}
		s = cur
		if err := fn(&s); err != nil {
			out = cur
			return err
		}
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, ttl)
			return nil
		})
		if err == nil {
			out = s
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.c.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			observability.ObserveSession("redis", "conflict")
			continue
		}
		if errors.Is(err, domain.ErrSessionNotFound) {
			observability.ObserveSession("redis", "miss")
		} else if err == nil {
			observability.ObserveSession("redis", "update")
		}
		return out, err
	}
	return domain.Session{}, ErrUpdateConflict
}

func (r *SessionStore) Del(ctx context.Context, id string) error {
	observability.ObserveSession("redis", "del")
	return r.c.Del(ctx, keyPrefix+id).Err()
}

func (r *SessionStore) Close() error { return r.c.Close() }
