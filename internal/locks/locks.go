// Package locks provides the short-lived per-trip lock taken while an
// itinerary is being generated.
package locks

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLocked is returned when another holder owns the key.
var ErrLocked = errors.New("locks: key is held")

// Locker acquires an exclusive lease on key. The lease expires after ttl
// even if release is never called.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Memory is a process-local Locker.
type Memory struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

type lease struct {
	token   uint64
	expires time.Time
}

var tokenSeq struct {
	sync.Mutex
	n uint64
}

func nextToken() uint64 {
	tokenSeq.Lock()
	defer tokenSeq.Unlock()
	tokenSeq.n++
	return tokenSeq.n
}

// NewMemory returns an empty in-process locker.
func NewMemory() *Memory {
	return &Memory{leases: make(map[string]lease), now: time.Now}
}

func (m *Memory) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, ok := m.leases[key]; ok && now.Before(l.expires) {
		return nil, ErrLocked
	}
	tok := nextToken()
	m.leases[key] = lease{token: tok, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// an expired lease may already belong to someone else
			if l, ok := m.leases[key]; ok && l.token == tok {
				delete(m.leases, key)
			}
		})
	}, nil
}
