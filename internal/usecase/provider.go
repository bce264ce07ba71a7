package usecase

import (
	"context"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
)

type Article struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl"`
	PublishedAt time.Time `json:"publishedAt"`
}

// SportsDataProvider is the port the scanner and readers pull fixture
// data through. The API-Football client satisfies it; tests inject
// stubs.
type SportsDataProvider interface {
	FixturesByLeagueDate(ctx context.Context, leagueID int64, season int, date string) ([]fixture.Fixture, error)
	HeadToHead(ctx context.Context, homeID, awayID int64, last int) ([]fixture.Fixture, error)
	RecentTeamFixtures(ctx context.Context, teamID int64, last int) ([]fixture.Fixture, error)
	LiveFixtures(ctx context.Context) ([]fixture.Fixture, error)
	ActiveLeagueIDs(ctx context.Context, season int) ([]int64, error)
}

// NewsProvider feeds the headline endpoint.
type NewsProvider interface {
	TopFootballHeadlines(ctx context.Context, limit int) ([]Article, error)
}
