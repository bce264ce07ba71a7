package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	"github.com/Stevefe123/estat-predict/internal/platform/cache"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
)

var dateKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// PredictionService serves stored prediction days to the dashboard.
type PredictionService struct {
	predictions prediction.Repository
	cache       *cache.Store
	cacheTTL    time.Duration
	logger      *logging.Logger
	now         func() time.Time
}

func NewPredictionService(predictions prediction.Repository, store *cache.Store, cacheTTL time.Duration, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &PredictionService{
		predictions: predictions,
		cache:       store,
		cacheTTL:    cacheTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// GetByDate returns the stored prediction set for one day. A date with
// no stored scan yields an empty record list, not an error; the
// dashboard renders "no picks today" either way. An empty date means
// today in UTC.
func (s *PredictionService) GetByDate(ctx context.Context, date string) (prediction.Day, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetByDate")
	defer span.End()

	if date == "" {
		date = s.now().UTC().Format(prediction.DateFormat)
	}
	if !dateKeyRegex.MatchString(date) {
		return prediction.Day{}, fmt.Errorf("%w: date must look like 2006-01-02", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		day, found, err := s.predictions.GetByDate(ctx, date)
		if err != nil {
			return prediction.Day{}, fmt.Errorf("load prediction day %s: %w", date, err)
		}
		if !found {
			day = prediction.Day{Date: date, Records: []prediction.Record{}}
		}
		gradeRecords(day.Records)
		return day, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return prediction.Day{}, err
		}
		return out.(prediction.Day), nil
	}

	out, err := s.cache.GetOrLoadWithTTL(ctx, "predictions:"+date, s.cacheTTL, load)
	if err != nil {
		return prediction.Day{}, err
	}

	day, ok := out.(prediction.Day)
	if !ok {
		return prediction.Day{}, fmt.Errorf("unexpected cached value type %T", out)
	}
	return day, nil
}

// gradeRecords marks low-score picks right or wrong where the realized
// score is known: at most two total goals counts as a hit. Records
// without a final score stay ungraded.
func gradeRecords(records []prediction.Record) {
	for i := range records {
		record := &records[i]
		if record.Prediction.Type != prediction.TypeLowScoreWeakerTeam {
			continue
		}
		if record.HomeScore == nil || record.AwayScore == nil {
			continue
		}
		correct := *record.HomeScore+*record.AwayScore <= 2
		record.Correct = &correct
	}
}
