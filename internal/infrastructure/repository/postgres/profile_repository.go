package postgres

import (
	"context"
	"fmt"

	"github.com/Stevefe123/estat-predict/internal/domain/profile"
	qb "github.com/Stevefe123/estat-predict/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (profile.Profile, bool, error) {
	query, args, err := qb.Select("id", "email", "subscription_status", "trial_ends_at", "created_at", "updated_at").
		From("profiles").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile %s: %w", id, err)
	}

	return profile.Profile{
		ID:                 row.ID,
		Email:              row.Email,
		SubscriptionStatus: row.SubscriptionStatus,
		TrialEndsAt:        row.TrialEndsAt,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, true, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	query, args, err := qb.InsertModel("profiles", profileInsertModel{
		ID:                 p.ID,
		Email:              p.Email,
		SubscriptionStatus: p.SubscriptionStatus,
		TrialEndsAt:        p.TrialEndsAt,
	}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build create profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create profile %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProfileRepository) ActivateSubscription(ctx context.Context, id string) error {
	query, args, err := qb.Update("profiles").
		Set("subscription_status", profile.SubscriptionActive).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build activate subscription query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("activate subscription %s: %w", id, err)
	}
	return nil
}
