package profile

import (
	"testing"
	"time"
)

func TestProfile_HasAccess(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{
			name:    "active subscription",
			profile: Profile{SubscriptionStatus: SubscriptionActive},
			want:    true,
		},
		{
			name:    "trial still open",
			profile: Profile{SubscriptionStatus: SubscriptionNone, TrialEndsAt: now.Add(time.Hour)},
			want:    true,
		},
		{
			name:    "trial expired",
			profile: Profile{SubscriptionStatus: SubscriptionNone, TrialEndsAt: now.Add(-time.Hour)},
			want:    false,
		},
		{
			name:    "trial boundary is exclusive",
			profile: Profile{SubscriptionStatus: SubscriptionNone, TrialEndsAt: now},
			want:    false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.profile.HasAccess(now); got != tc.want {
				t.Fatalf("HasAccess = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewWithTrial(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	p := NewWithTrial("user-1", "u@example.com", now)

	if p.SubscriptionStatus != SubscriptionNone {
		t.Fatalf("status = %q", p.SubscriptionStatus)
	}
	if want := now.Add(TrialDuration); !p.TrialEndsAt.Equal(want) {
		t.Fatalf("trial ends %s, want %s", p.TrialEndsAt, want)
	}
	if !p.HasAccess(now) {
		t.Fatal("fresh trial profile has no access")
	}
}
