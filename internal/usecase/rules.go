package usecase

import (
	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
)

// Named heuristic rules. RuleSet.Enabled selects which ones run.
const (
	RuleGoalAverage = "goal-average"
	RuleH2HAverage  = "h2h-average"
	RuleDominance   = "dominance"
)

// Rule composition policies.
const (
	PolicyAnyOf = "any-of"
	PolicyAllOf = "all-of"
)

// RuleSet holds the tunable thresholds of the low-score heuristics.
type RuleSet struct {
	Enabled []string
	Policy  string

	// GoalAvgCutoff: the goal-average rule fires when either team's
	// goals-for average sits below this.
	GoalAvgCutoff float64
	// H2HAvgCutoff: the average total goals across recent meetings must
	// not exceed this.
	H2HAvgCutoff float64
	// H2HLast bounds how many recent meetings are considered.
	H2HLast int
	// DominanceMinGames and DominanceMargin gate the dominance rule: at
	// least this many meetings, and a head-to-head win gap of at least
	// the margin.
	DominanceMinGames int
	DominanceMargin   int
	// EmptyH2HPass decides what head-to-head rules do for first-ever
	// meetings: abstain (true) or veto the fixture (false).
	EmptyH2HPass bool
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		Enabled:           []string{RuleGoalAverage, RuleH2HAverage},
		Policy:            PolicyAnyOf,
		GoalAvgCutoff:     1.6,
		H2HAvgCutoff:      2.5,
		H2HLast:           5,
		DominanceMinGames: 3,
		DominanceMargin:   2,
		EmptyH2HPass:      true,
	}
}

// ruleVerdict is one rule's view of a fixture. abstained means the rule
// had no data to judge with and should not count either way.
type ruleVerdict struct {
	pass      bool
	abstained bool
}

// matchInput bundles everything the rules need about one fixture.
type matchInput struct {
	fx       fixture.Fixture
	homeForm fixture.TeamForm
	awayForm fixture.TeamForm
	h2h      []fixture.Fixture
}

// Evaluate runs the enabled rules over one fixture and returns the
// prediction payloads to publish, in a stable order. An empty slice
// means the fixture is not a candidate.
func (rs RuleSet) Evaluate(in matchInput) []prediction.Payload {
	verdicts := make([]ruleVerdict, 0, len(rs.Enabled))
	dominanceFired := false
	var stronger, weaker string

	for _, name := range rs.Enabled {
		switch name {
		case RuleGoalAverage:
			verdicts = append(verdicts, rs.evalGoalAverage(in))
		case RuleH2HAverage:
			verdicts = append(verdicts, rs.evalH2HAverage(in))
		case RuleDominance:
			verdict, s, w := rs.evalDominance(in)
			verdicts = append(verdicts, verdict)
			if verdict.pass {
				dominanceFired = true
				stronger, weaker = s, w
			}
		}
	}

	if !rs.compose(verdicts) {
		return nil
	}

	payloads := make([]prediction.Payload, 0, 2)
	payloads = append(payloads, prediction.Payload{
		Type:       prediction.TypeLowScoreWeakerTeam,
		WeakerTeam: weakerOffensiveTeam(in, dominanceFired, weaker),
	})
	if dominanceFired && stronger != "" {
		payloads = append(payloads, prediction.Payload{
			Type:         prediction.TypeWinner,
			StrongerTeam: stronger,
			WeakerTeam:   weaker,
		})
	}
	return payloads
}

// compose folds the individual verdicts under the configured policy.
// Abstentions never decide on their own: a fixture where every rule
// abstained is not a candidate.
func (rs RuleSet) compose(verdicts []ruleVerdict) bool {
	decided := 0
	passed := 0
	for _, v := range verdicts {
		if v.abstained {
			continue
		}
		decided++
		if v.pass {
			passed++
		}
	}
	if decided == 0 {
		return false
	}
	if rs.Policy == PolicyAllOf {
		return passed == decided
	}
	return passed > 0
}

// evalGoalAverage fires when either side scores sparsely. A sentinel
// average never sits below the cutoff, so an unknown-form team cannot
// qualify the fixture by itself; weakerOffensiveTeam keeps it from
// being named the weaker side.
func (rs RuleSet) evalGoalAverage(in matchInput) ruleVerdict {
	pass := in.homeForm.GoalsForAvg < rs.GoalAvgCutoff || in.awayForm.GoalsForAvg < rs.GoalAvgCutoff
	return ruleVerdict{pass: pass}
}

// evalH2HAverage fires when recent meetings between the two sides were
// low scoring. Meetings without a recorded score are skipped.
func (rs RuleSet) evalH2HAverage(in matchInput) ruleVerdict {
	games := in.h2h
	if rs.H2HLast > 0 && len(games) > rs.H2HLast {
		games = games[:rs.H2HLast]
	}

	totalGoals := 0
	counted := 0
	for _, game := range games {
		goals, ok := game.TotalGoals()
		if !ok {
			continue
		}
		totalGoals += goals
		counted++
	}

	if counted == 0 {
		return ruleVerdict{pass: rs.EmptyH2HPass, abstained: rs.EmptyH2HPass}
	}
	avg := float64(totalGoals) / float64(counted)
	return ruleVerdict{pass: avg <= rs.H2HAvgCutoff}
}

// evalDominance fires when one side has clearly owned the matchup: a
// big enough head-to-head win gap over enough meetings, backed by a
// strictly better current form score.
func (rs RuleSet) evalDominance(in matchInput) (ruleVerdict, string, string) {
	if len(in.h2h) < rs.DominanceMinGames {
		if len(in.h2h) == 0 && rs.EmptyH2HPass {
			return ruleVerdict{pass: false, abstained: true}, "", ""
		}
		return ruleVerdict{}, "", ""
	}

	homeWins, awayWins := 0, 0
	for _, game := range in.h2h {
		switch {
		case game.HomeTeam.ID == in.fx.HomeTeam.ID && game.HomeTeam.Winner != nil && *game.HomeTeam.Winner:
			homeWins++
		case game.AwayTeam.ID == in.fx.HomeTeam.ID && game.AwayTeam.Winner != nil && *game.AwayTeam.Winner:
			homeWins++
		case game.HomeTeam.ID == in.fx.AwayTeam.ID && game.HomeTeam.Winner != nil && *game.HomeTeam.Winner:
			awayWins++
		case game.AwayTeam.ID == in.fx.AwayTeam.ID && game.AwayTeam.Winner != nil && *game.AwayTeam.Winner:
			awayWins++
		}
	}

	diff := homeWins - awayWins
	switch {
	case diff >= rs.DominanceMargin && in.homeForm.Score() > in.awayForm.Score():
		return ruleVerdict{pass: true}, in.fx.HomeTeam.Name, in.fx.AwayTeam.Name
	case -diff >= rs.DominanceMargin && in.awayForm.Score() > in.homeForm.Score():
		return ruleVerdict{pass: true}, in.fx.AwayTeam.Name, in.fx.HomeTeam.Name
	}
	return ruleVerdict{}, "", ""
}

// weakerOffensiveTeam names the side expected to score less: the lower
// goals-for average wins the label. When the averages tie, the
// dominance loser is used if dominance fired, otherwise no side is
// named.
func weakerOffensiveTeam(in matchInput, dominanceFired bool, dominanceLoser string) string {
	switch {
	case in.homeForm.GoalsForAvg < in.awayForm.GoalsForAvg:
		return in.fx.HomeTeam.Name
	case in.awayForm.GoalsForAvg < in.homeForm.GoalsForAvg:
		return in.fx.AwayTeam.Name
	case dominanceFired:
		return dominanceLoser
	}
	return ""
}
