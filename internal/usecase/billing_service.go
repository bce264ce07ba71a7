package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/profile"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

const eventChargeSuccess = "charge.success"

// PaystackEvent is the decoded webhook envelope. Only the fields the
// subscription flow needs are modeled.
type PaystackEvent struct {
	Event string `json:"event" validate:"required"`
	Data  struct {
		Reference string `json:"reference"`
		Metadata  struct {
			UserID string `json:"user_id"`
		} `json:"metadata"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// AccessStatus is the premium gate answer for one user.
type AccessStatus struct {
	UserID             string    `json:"userId"`
	HasAccess          bool      `json:"hasAccess"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	TrialEndsAt        time.Time `json:"trialEndsAt"`
}

// BillingService owns the payment webhook and the premium access gate.
type BillingService struct {
	profiles  profile.Repository
	secretKey string
	validate  *validator.Validate
	logger    *logging.Logger
	now       func() time.Time
}

func NewBillingService(profiles profile.Repository, secretKey string, logger *logging.Logger) *BillingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BillingService{
		profiles:  profiles,
		secretKey: secretKey,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// VerifySignature checks the webhook body against the provider's
// HMAC-SHA512 hex signature. Constant-time comparison; a forged or
// replayed body with a bad signature never reaches event handling.
func (s *BillingService) VerifySignature(body []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || s.secretKey == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// HandleEvent applies one verified webhook event. Events other than a
// successful charge are acknowledged without side effects.
func (s *BillingService) HandleEvent(ctx context.Context, body []byte) error {
	ctx, span := startUsecaseSpan(ctx, "BillingService.HandleEvent")
	defer span.End()

	var event PaystackEvent
	if err := sonic.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: decode webhook payload: %v", ErrInvalidInput, err)
	}
	if err := s.validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if event.Event != eventChargeSuccess {
		s.logger.DebugContext(ctx, "ignoring webhook event", "event", event.Event)
		return nil
	}

	userID := strings.TrimSpace(event.Data.Metadata.UserID)
	if userID == "" {
		return fmt.Errorf("%w: charge.success event is missing metadata.user_id", ErrInvalidInput)
	}

	if err := s.profiles.ActivateSubscription(ctx, userID); err != nil {
		return fmt.Errorf("activate subscription user_id=%s: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "subscription activated",
		"user_id", userID, "reference", event.Data.Reference)
	return nil
}

// AccessFor answers the premium gate for one user.
func (s *BillingService) AccessFor(ctx context.Context, userID string) (AccessStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "BillingService.AccessFor")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return AccessStatus{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	p, found, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return AccessStatus{}, fmt.Errorf("load profile user_id=%s: %w", userID, err)
	}
	if !found {
		return AccessStatus{}, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	return AccessStatus{
		UserID:             p.ID,
		HasAccess:          p.HasAccess(s.now()),
		SubscriptionStatus: p.SubscriptionStatus,
		TrialEndsAt:        p.TrialEndsAt,
	}, nil
}

// EnsureProfile provisions a profile with the standard trial window if
// none exists yet. Called from the signup hook.
func (s *BillingService) EnsureProfile(ctx context.Context, userID, email string) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "BillingService.EnsureProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	existing, found, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("load profile user_id=%s: %w", userID, err)
	}
	if found {
		return existing, nil
	}

	created := profile.NewWithTrial(userID, strings.TrimSpace(email), s.now().UTC())
	if err := s.profiles.Create(ctx, created); err != nil {
		return profile.Profile{}, fmt.Errorf("create profile user_id=%s: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "profile provisioned with trial",
		"user_id", userID, "trial_ends_at", created.TrialEndsAt)
	return created, nil
}
