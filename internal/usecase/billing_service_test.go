package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/profile"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
)

type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[string]profile.Profile)}
}

func (r *memoryProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	return p, ok, nil
}

func (r *memoryProfileRepo) Create(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *memoryProfileRepo) ActivateSubscription(_ context.Context, id string) error {
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

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestBillingService_VerifySignature(t *testing.T) {
	t.Parallel()

	svc := NewBillingService(newMemoryProfileRepo(), "sk_test_secret", logging.NewNop())
	body := []byte(`{"event":"charge.success"}`)

	if !svc.VerifySignature(body, signBody("sk_test_secret", body)) {
		t.Fatal("valid signature rejected")
	}
	if svc.VerifySignature(body, signBody("other-secret", body)) {
		t.Fatal("signature from wrong secret accepted")
	}
	if svc.VerifySignature(body, "") {
		t.Fatal("empty signature accepted")
	}
	if svc.VerifySignature([]byte(`{"event":"tampered"}`), signBody("sk_test_secret", body)) {
		t.Fatal("tampered body accepted")
	}
}

func TestBillingService_HandleEvent_ChargeSuccessActivates(t *testing.T) {
	t.Parallel()

	repo := newMemoryProfileRepo()
	_ = repo.Create(context.Background(), profile.Profile{ID: "user-1", SubscriptionStatus: profile.SubscriptionNone})

	svc := NewBillingService(repo, "sk", logging.NewNop())

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","metadata":{"user_id":"user-1"},"customer":{"email":"u@example.com"}}}`)
	if err := svc.HandleEvent(context.Background(), body); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	p, _, _ := repo.GetByID(context.Background(), "user-1")
	if p.SubscriptionStatus != profile.SubscriptionActive {
		t.Fatalf("status = %q, want active", p.SubscriptionStatus)
	}
}

func TestBillingService_HandleEvent_MissingUserID(t *testing.T) {
	t.Parallel()

	svc := NewBillingService(newMemoryProfileRepo(), "sk", logging.NewNop())

	body := []byte(`{"event":"charge.success","data":{"metadata":{}}}`)
	err := svc.HandleEvent(context.Background(), body)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestBillingService_HandleEvent_IgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	repo := newMemoryProfileRepo()
	_ = repo.Create(context.Background(), profile.Profile{ID: "user-1", SubscriptionStatus: profile.SubscriptionNone})

	svc := NewBillingService(repo, "sk", logging.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte(`{"event":"invoice.create","data":{"metadata":{"user_id":"user-1"}}}`)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	p, _, _ := repo.GetByID(context.Background(), "user-1")
	if p.SubscriptionStatus != profile.SubscriptionNone {
		t.Fatalf("unrelated event changed status to %q", p.SubscriptionStatus)
	}
}

func TestBillingService_AccessFor(t *testing.T) {
	t.Parallel()

	repo := newMemoryProfileRepo()
	_ = repo.Create(context.Background(), profile.Profile{
		ID:                 "trial-user",
		SubscriptionStatus: profile.SubscriptionNone,
		TrialEndsAt:        time.Now().Add(time.Hour),
	})

	svc := NewBillingService(repo, "sk", logging.NewNop())

	status, err := svc.AccessFor(context.Background(), "trial-user")
	if err != nil {
		t.Fatalf("AccessFor: %v", err)
	}
	if !status.HasAccess {
		t.Fatal("open trial reported no access")
	}

	_, err = svc.AccessFor(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestBillingService_EnsureProfile_IsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newMemoryProfileRepo()
	svc := NewBillingService(repo, "sk", logging.NewNop())

	first, err := svc.EnsureProfile(context.Background(), "user-9", "u9@example.com")
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if first.TrialEndsAt.IsZero() {
		t.Fatal("trial window not stamped")
	}

	second, err := svc.EnsureProfile(context.Background(), "user-9", "changed@example.com")
	if err != nil {
		t.Fatalf("second EnsureProfile: %v", err)
	}
	if !second.TrialEndsAt.Equal(first.TrialEndsAt) {
		t.Fatal("repeated EnsureProfile reset the trial window")
	}
}
