package prediction

import "context"

// Repository stores one prediction set per calendar date. UpsertDay
// replaces the whole set for the day; a scan re-run must overwrite.
type Repository interface {
	UpsertDay(ctx context.Context, day Day) error
	GetByDate(ctx context.Context, date string) (Day, bool, error)
}
