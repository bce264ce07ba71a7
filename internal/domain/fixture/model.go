package fixture

import "time"

// SentinelGoalsAvg marks a goals average that could not be derived from
// provider data. It is deliberately high so a team with unknown form is
// never mistaken for a weak attacking side.
const SentinelGoalsAvg = 99

// Statuses the provider reports on the fixture envelope. Only the subset
// the scanner and live-score reader care about is enumerated.
const (
	StatusNotStarted   = "NS"
	StatusFirstHalf    = "1H"
	StatusHalfTime     = "HT"
	StatusSecondHalf   = "2H"
	StatusExtraTime    = "ET"
	StatusPenalties    = "P"
	StatusFullTime     = "FT"
	StatusAfterExtra   = "AET"
	StatusPenaltiesEnd = "PEN"
)

type Team struct {
	ID     int64
	Name   string
	Winner *bool
	Form   TeamForm
}

// TeamForm is the last-five-games attacking/defensive summary for one
// side of a fixture. Known is false when the provider payload carried no
// usable form block, in which case both averages hold SentinelGoalsAvg.
type TeamForm struct {
	Results         string
	GoalsForAvg     float64
	GoalsAgainstAvg float64
	Known           bool
}

func UnknownForm() TeamForm {
	return TeamForm{
		GoalsForAvg:     SentinelGoalsAvg,
		GoalsAgainstAvg: SentinelGoalsAvg,
		Known:           false,
	}
}

// Score weights the results string: a win is worth 3, a draw 1.
func (f TeamForm) Score() int {
	score := 0
	for _, r := range f.Results {
		switch r {
		case 'W':
			score += 3
		case 'D':
			score++
		}
	}
	return score
}

func (f TeamForm) Wins() int {
	wins := 0
	for _, r := range f.Results {
		if r == 'W' {
			wins++
		}
	}
	return wins
}

type Fixture struct {
	ID         int64
	LeagueID   int64
	LeagueName string
	Country    string
	KickoffAt  time.Time
	Status     string
	Elapsed    int
	HomeTeam   Team
	AwayTeam   Team
	HomeGoals  *int
	AwayGoals  *int
}

// LeagueLabel is the display key predictions are grouped and sorted by.
func (f Fixture) LeagueLabel() string {
	if f.Country == "" {
		return f.LeagueName
	}
	return f.LeagueName + " (" + f.Country + ")"
}

func (f Fixture) IsFinished() bool {
	switch f.Status {
	case StatusFullTime, StatusAfterExtra, StatusPenaltiesEnd:
		return true
	}
	return false
}

func (f Fixture) IsLive() bool {
	switch f.Status {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties:
		return true
	}
	return false
}

// TotalGoals returns the realized goal count, or false when either side
// has no recorded score yet.
func (f Fixture) TotalGoals() (int, bool) {
	if f.HomeGoals == nil || f.AwayGoals == nil {
		return 0, false
	}
	return *f.HomeGoals + *f.AwayGoals, true
}

// SeasonForDate maps a calendar date to the provider's season year:
// January through June still belong to the season that started the
// previous year.
func SeasonForDate(t time.Time) int {
	if t.Month() < time.July {
		return t.Year() - 1
	}
	return t.Year()
}
