package usecase

import (
	"context"
	"fmt"

	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
)

// FormSource derives the two sides' recent-form summaries for one
// fixture. The scan pipeline fetches the head-to-head history once and
// hands it down so sources that can reuse it avoid extra provider
// calls.
type FormSource interface {
	TeamForms(ctx context.Context, fx fixture.Fixture, h2h []fixture.Fixture) (home, away fixture.TeamForm, err error)
}

// FormSource selector values.
const (
	FormSourceEmbedded = "embedded"
	FormSourceH2H      = "h2h"
	FormSourceRecent   = "recent"
)

// EmbeddedFormSource trusts the form block the provider embeds on the
// fixture payload. Cheapest option; the sentinel stays in place when
// the plan tier omits the block.
type EmbeddedFormSource struct{}

func (EmbeddedFormSource) TeamForms(_ context.Context, fx fixture.Fixture, _ []fixture.Fixture) (fixture.TeamForm, fixture.TeamForm, error) {
	return fx.HomeTeam.Form, fx.AwayTeam.Form, nil
}

// H2HFormSource reconstructs both sides' scoring averages from the
// head-to-head history alone. Useful on plan tiers without embedded
// form, at the cost of a much narrower sample.
type H2HFormSource struct{}

func (H2HFormSource) TeamForms(_ context.Context, fx fixture.Fixture, h2h []fixture.Fixture) (fixture.TeamForm, fixture.TeamForm, error) {
	return formFromGames(fx.HomeTeam.ID, h2h), formFromGames(fx.AwayTeam.ID, h2h), nil
}

// RecentFormSource fetches each side's last finished games from the
// provider. Most accurate and most expensive: two extra calls per
// fixture.
type RecentFormSource struct {
	Provider SportsDataProvider
	Last     int
}

func (s RecentFormSource) TeamForms(ctx context.Context, fx fixture.Fixture, _ []fixture.Fixture) (fixture.TeamForm, fixture.TeamForm, error) {
	last := s.Last
	if last <= 0 {
		last = 5
	}

	homeGames, err := s.Provider.RecentTeamFixtures(ctx, fx.HomeTeam.ID, last)
	if err != nil {
		return fixture.UnknownForm(), fixture.UnknownForm(), fmt.Errorf("recent form home team_id=%d: %w", fx.HomeTeam.ID, err)
	}
	awayGames, err := s.Provider.RecentTeamFixtures(ctx, fx.AwayTeam.ID, last)
	if err != nil {
		return fixture.UnknownForm(), fixture.UnknownForm(), fmt.Errorf("recent form away team_id=%d: %w", fx.AwayTeam.ID, err)
	}

	return formFromGames(fx.HomeTeam.ID, homeGames), formFromGames(fx.AwayTeam.ID, awayGames), nil
}

// NewFormSource resolves a selector value to a source. Unknown values
// fall back to the embedded source.
func NewFormSource(name string, provider SportsDataProvider) FormSource {
	switch name {
	case FormSourceH2H:
		return H2HFormSource{}
	case FormSourceRecent:
		return RecentFormSource{Provider: provider}
	default:
		return EmbeddedFormSource{}
	}
}

// formFromGames summarizes one team's side of a game list, newest
// first. Games without a recorded score are skipped; no scored games
// at all yields the sentinel form.
func formFromGames(teamID int64, games []fixture.Fixture) fixture.TeamForm {
	goalsFor, goalsAgainst, counted := 0, 0, 0
	results := make([]byte, 0, len(games))

	for _, game := range games {
		if game.HomeGoals == nil || game.AwayGoals == nil {
			continue
		}

		var scored, conceded int
		switch teamID {
		case game.HomeTeam.ID:
			scored, conceded = *game.HomeGoals, *game.AwayGoals
		case game.AwayTeam.ID:
			scored, conceded = *game.AwayGoals, *game.HomeGoals
		default:
			continue
		}

		goalsFor += scored
		goalsAgainst += conceded
		counted++

		switch {
		case scored > conceded:
			results = append(results, 'W')
		case scored == conceded:
			results = append(results, 'D')
		default:
			results = append(results, 'L')
		}
	}

	if counted == 0 {
		return fixture.UnknownForm()
	}
	return fixture.TeamForm{
		Results:         string(results),
		GoalsForAvg:     float64(goalsFor) / float64(counted),
		GoalsAgainstAvg: float64(goalsAgainst) / float64(counted),
		Known:           true,
	}
}
