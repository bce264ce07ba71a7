package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Stevefe123/estat-predict/internal/platform/cache"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
)

// LiveScore is the compact in-play row the dashboard polls for.
type LiveScore struct {
	FixtureID int64  `json:"fixtureId"`
	League    string `json:"league"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeGoals int    `json:"homeGoals"`
	AwayGoals int    `json:"awayGoals"`
	Elapsed   int    `json:"elapsed"`
	Status    string `json:"status"`
}

// LiveScoreService reads the in-play board from the provider behind a
// short cache so dashboard polling never multiplies provider calls.
type LiveScoreService struct {
	provider SportsDataProvider
	cache    *cache.Store
	cacheTTL time.Duration
	logger   *logging.Logger
}

func NewLiveScoreService(provider SportsDataProvider, store *cache.Store, cacheTTL time.Duration, logger *logging.Logger) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &LiveScoreService{
		provider: provider,
		cache:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *LiveScoreService) LiveScores(ctx context.Context) ([]LiveScore, error) {
	ctx, span := startUsecaseSpan(ctx, "LiveScoreService.LiveScores")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		fixtures, err := s.provider.LiveFixtures(ctx)
		if err != nil {
			return nil, fmt.Errorf("load live fixtures: %w", err)
		}

		scores := make([]LiveScore, 0, len(fixtures))
		for _, fx := range fixtures {
			row := LiveScore{
				FixtureID: fx.ID,
				League:    fx.LeagueLabel(),
				HomeTeam:  fx.HomeTeam.Name,
				AwayTeam:  fx.AwayTeam.Name,
				Elapsed:   fx.Elapsed,
				Status:    fx.Status,
			}
			if fx.HomeGoals != nil {
				row.HomeGoals = *fx.HomeGoals
			}
			if fx.AwayGoals != nil {
				row.AwayGoals = *fx.AwayGoals
			}
			scores = append(scores, row)
		}

		sort.SliceStable(scores, func(i, j int) bool {
			if scores[i].League != scores[j].League {
				return scores[i].League < scores[j].League
			}
			return scores[i].FixtureID < scores[j].FixtureID
		})
		return scores, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return out.([]LiveScore), nil
	}

	out, err := s.cache.GetOrLoadWithTTL(ctx, "live-scores", s.cacheTTL, load)
	if err != nil {
		return nil, err
	}

	scores, ok := out.([]LiveScore)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", out)
	}
	return scores, nil
}
