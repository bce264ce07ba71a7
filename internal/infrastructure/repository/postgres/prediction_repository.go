package postgres

import (
	"context"
	"fmt"

	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	qb "github.com/Stevefe123/estat-predict/internal/platform/querybuilder"
	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
)

// PredictionRepository stores one JSON document of records per
// prediction date.
type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) UpsertDay(ctx context.Context, day prediction.Day) error {
	records := day.Records
	if records == nil {
		records = []prediction.Record{}
	}

	games, err := sonic.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode prediction records date=%s: %w", day.Date, err)
	}

	query, args, err := qb.InsertModel("daily_predictions", dailyPredictionInsertModel{
		PredictionDate: day.Date,
		GamesData:      string(games),
	}, `ON CONFLICT (prediction_date)
DO UPDATE SET
    games_data = EXCLUDED.games_data,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert prediction day query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction day %s: %w", day.Date, err)
	}
	return nil
}

func (r *PredictionRepository) GetByDate(ctx context.Context, date string) (prediction.Day, bool, error) {
	query, args, err := qb.Select("prediction_date", "games_data", "created_at", "updated_at").
		From("daily_predictions").
		Where(qb.Eq("prediction_date", date)).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Day{}, false, fmt.Errorf("build get prediction day query: %w", err)
	}

	var row dailyPredictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Day{}, false, nil
		}
		return prediction.Day{}, false, fmt.Errorf("get prediction day %s: %w", date, err)
	}

	var records []prediction.Record
	if err := sonic.Unmarshal([]byte(row.GamesData), &records); err != nil {
		return prediction.Day{}, false, fmt.Errorf("decode prediction records date=%s: %w", date, err)
	}
	if records == nil {
		records = []prediction.Record{}
	}

	return prediction.Day{Date: row.PredictionDate, Records: records}, true, nil
}
