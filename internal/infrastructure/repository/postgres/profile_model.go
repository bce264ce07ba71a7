package postgres

import "time"

type profileTableModel struct {
	ID                 string    `db:"id"`
	Email              string    `db:"email"`
	SubscriptionStatus string    `db:"subscription_status"`
	TrialEndsAt        time.Time `db:"trial_ends_at"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type profileInsertModel struct {
	ID                 string    `db:"id"`
	Email              string    `db:"email"`
	SubscriptionStatus string    `db:"subscription_status"`
	TrialEndsAt        time.Time `db:"trial_ends_at"`
}
