package profile

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Profile, bool, error)
	Create(ctx context.Context, p Profile) error
	// ActivateSubscription flips the profile to the active paid state.
	// Activating an unknown profile is not an error; the webhook may
	// arrive before the profile row is provisioned.
	ActivateSubscription(ctx context.Context, id string) error
}
