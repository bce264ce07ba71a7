package apifootball

import (
	"strconv"
	"strings"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
)

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureCore `json:"fixture"`
	League  leagueBlock `json:"league"`
	Teams   teamsBlock  `json:"teams"`
	Goals   goalsBlock  `json:"goals"`
}

type fixtureCore struct {
	ID     int64         `json:"id"`
	Date   string        `json:"date"`
	Status fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueBlock struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
}

type teamsBlock struct {
	Home teamSide `json:"home"`
	Away teamSide `json:"away"`
}

type teamSide struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Winner *bool      `json:"winner"`
	Last5  *last5Form `json:"last_5_games"`
}

// last5Form is the denormalized recent-form block some plan tiers embed
// on the fixture payload.
type last5Form struct {
	Form  string        `json:"form"`
	Goals last5Goals    `json:"goals"`
	Att   string        `json:"att"`
	Def   string        `json:"def"`
	Fix   []last5Result `json:"fixtures"`
}

type last5Goals struct {
	For     last5GoalSide `json:"for"`
	Against last5GoalSide `json:"against"`
}

// Average stays a raw string: the provider quotes it and sends null
// when no history exists, which a numeric field would reject and take
// the whole league's decode down with it.
type last5GoalSide struct {
	Total   int    `json:"total"`
	Average string `json:"average"`
}

type last5Result struct {
	Played int `json:"played"`
}

type goalsBlock struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type leaguesEnvelope struct {
	Response []leagueItem `json:"response"`
}

type leagueItem struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
}

func mapFixtures(items []fixtureItem) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item))
	}
	return out
}

func mapFixture(item fixtureItem) fixture.Fixture {
	fx := fixture.Fixture{
		ID:         item.Fixture.ID,
		LeagueID:   item.League.ID,
		LeagueName: strings.TrimSpace(item.League.Name),
		Country:    strings.TrimSpace(item.League.Country),
		Status:     strings.TrimSpace(item.Fixture.Status.Short),
		HomeTeam:   mapTeam(item.Teams.Home),
		AwayTeam:   mapTeam(item.Teams.Away),
		HomeGoals:  item.Goals.Home,
		AwayGoals:  item.Goals.Away,
	}
	if item.Fixture.Status.Elapsed != nil {
		fx.Elapsed = *item.Fixture.Status.Elapsed
	}
	if parsed := parseProviderTime(item.Fixture.Date); parsed != nil {
		fx.KickoffAt = *parsed
	}
	return fx
}

func mapTeam(side teamSide) fixture.Team {
	team := fixture.Team{
		ID:     side.ID,
		Name:   strings.TrimSpace(side.Name),
		Winner: side.Winner,
		Form:   fixture.UnknownForm(),
	}

	if side.Last5 == nil {
		return team
	}

	form := fixture.TeamForm{
		Results:         strings.TrimSpace(side.Last5.Form),
		GoalsForAvg:     parseAverage(side.Last5.Goals.For.Average),
		GoalsAgainstAvg: parseAverage(side.Last5.Goals.Against.Average),
		Known:           true,
	}
	// A zeroed block with no games behind it means the provider had no
	// history; keep the sentinel instead of treating it as a 0.0 attack.
	if form.Results == "" && side.Last5.Goals.For.Total == 0 && side.Last5.Goals.Against.Total == 0 {
		return team
	}
	team.Form = form
	return team
}

// parseAverage falls back to the sentinel for null or garbage values,
// so a gap in one team's history never disqualifies the decode.
func parseAverage(raw string) float64 {
	avg, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fixture.SentinelGoalsAvg
	}
	return avg
}

func parseProviderTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
