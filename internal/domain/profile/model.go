package profile

import "time"

// TrialDuration is how long a freshly created profile keeps premium
// access before a paid subscription is required.
const TrialDuration = 7 * 24 * time.Hour

const (
	SubscriptionNone   = "none"
	SubscriptionActive = "active"
)

type Profile struct {
	ID                 string
	Email              string
	SubscriptionStatus string
	TrialEndsAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasAccess reports whether the profile may read premium predictions:
// either the subscription is active or the trial window is still open.
func (p Profile) HasAccess(now time.Time) bool {
	if p.SubscriptionStatus == SubscriptionActive {
		return true
	}
	return now.Before(p.TrialEndsAt)
}

// NewWithTrial stamps a profile with the standard trial window.
func NewWithTrial(id, email string, now time.Time) Profile {
	return Profile{
		ID:                 id,
		Email:              email,
		SubscriptionStatus: SubscriptionNone,
		TrialEndsAt:        now.Add(TrialDuration),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
