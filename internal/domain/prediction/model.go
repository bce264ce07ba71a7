package prediction

import "time"

// Prediction types emitted by the scanner heuristics.
const (
	TypeLowScoreWeakerTeam = "LOW_SCORE_WEAKER_TEAM"
	TypeWinner             = "WINNER"
)

// DateFormat is the canonical key format for a prediction day.
const DateFormat = "2006-01-02"

// Record is one published prediction for one fixture. ID is the fixture
// id, suffixed when several heuristic variants fire for the same game.
type Record struct {
	ID         string    `json:"id"`
	FixtureID  int64     `json:"fixtureId"`
	League     string    `json:"league"`
	KickoffAt  time.Time `json:"kickoffAt"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	Prediction Payload   `json:"prediction"`
	HomeScore  *int      `json:"homeScore,omitempty"`
	AwayScore  *int      `json:"awayScore,omitempty"`
	Correct    *bool     `json:"correct,omitempty"`
}

// Payload carries the heuristic verdict. WeakerTeam is empty when the
// two sides could not be separated.
type Payload struct {
	Type         string `json:"type"`
	WeakerTeam   string `json:"weakerTeam,omitempty"`
	StrongerTeam string `json:"strongerTeam,omitempty"`
}

// Day is the full prediction set for one calendar date, stored and
// served as a unit.
type Day struct {
	Date    string   `json:"date"`
	Records []Record `json:"records"`
}
