package postgres

import "time"

type dailyPredictionTableModel struct {
	PredictionDate string    `db:"prediction_date"`
	GamesData      string    `db:"games_data"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type dailyPredictionInsertModel struct {
	PredictionDate string `db:"prediction_date"`
	GamesData      string `db:"games_data"`
}
