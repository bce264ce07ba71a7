package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Stevefe123/estat-predict/internal/platform/resilience"
)

// Store is an in-process TTL cache for provider responses and rendered
// prediction days. Loads for the same key are collapsed through a
// single flight group so a cold key hits the loader once.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
}

type entry struct {
	value    any
	deadline time.Time
}

func (e entry) alive(now time.Time) bool {
	return e.deadline.IsZero() || e.deadline.After(now)
}

// NewStore builds a store whose entries default to ttl. ttl <= 0 means
// entries never expire unless set with an explicit lifetime.
func NewStore(ttl time.Duration) *Store {
	return &Store{entries: make(map[string]entry), ttl: ttl}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !e.alive(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores value with a per-entry lifetime, overriding the
// store default. ttl <= 0 pins the entry.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}

	e := entry{value: value}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	return s.GetOrLoadWithTTL(ctx, key, s.ttl, loader)
}

// GetOrLoadWithTTL returns the cached value for key, or runs loader and
// caches its result. Concurrent misses share one loader call.
func (s *Store) GetOrLoadWithTTL(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A waiter released by the leader may re-enter before the
		// entry is visible; check the map again under the flight.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.SetWithTTL(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
