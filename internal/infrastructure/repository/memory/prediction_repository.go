package memory

import (
	"context"
	"sync"

	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
)

// PredictionRepository is the in-process store used when no database is
// configured, typically local development.
type PredictionRepository struct {
	mu   sync.RWMutex
	days map[string]prediction.Day
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{days: make(map[string]prediction.Day)}
}

func (r *PredictionRepository) UpsertDay(_ context.Context, day prediction.Day) error {
	records := make([]prediction.Record, len(day.Records))
	copy(records, day.Records)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[day.Date] = prediction.Day{Date: day.Date, Records: records}
	return nil
}

func (r *PredictionRepository) GetByDate(_ context.Context, date string) (prediction.Day, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day, ok := r.days[date]
	if !ok {
		return prediction.Day{}, false, nil
	}

	records := make([]prediction.Record, len(day.Records))
	copy(records, day.Records)
	return prediction.Day{Date: day.Date, Records: records}, true, nil
}
