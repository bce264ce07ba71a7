package memory

import (
	"context"
	"sync"

	"github.com/Stevefe123/estat-predict/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

func NewProfileRepository(seed []profile.Profile) *ProfileRepository {
	profiles := make(map[string]profile.Profile, len(seed))
	for _, item := range seed {
		profiles[item.ID] = item
	}
	return &ProfileRepository{profiles: profiles}
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	return p, ok, nil
}

func (r *ProfileRepository) Create(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.ID]; exists {
		return nil
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *ProfileRepository) ActivateSubscription(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		p = profile.Profile{ID: id}
	}
	p.SubscriptionStatus = profile.SubscriptionActive
	r.profiles[id] = p
	return nil
}
