package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	idgen "github.com/Stevefe123/estat-predict/internal/platform/id"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

// DefaultLeagueIDs is the curated competition list scanned when league
// discovery is off.
var DefaultLeagueIDs = []int64{
	1, 4, 9, 135, 197, 262, 71, 98, 202, 290, 233, 129, 239,
	119, 113, 39, 140, 78, 61, 94, 88, 103, 218, 144, 40,
}

type ScanConfig struct {
	LeagueIDs       []int64
	DiscoverLeagues bool
	LeagueWorkers   int
	FixtureWorkers  int
	Rules           RuleSet
	FormSource      string
	// DualModel additionally evaluates a stricter variant of the rule
	// set and publishes its hits as a second record per fixture.
	DualModel bool
}

type ScanResult struct {
	RunID           string `json:"run_id"`
	Date            string `json:"date"`
	LeagueCount     int    `json:"league_count"`
	FailedLeagues   int    `json:"failed_leagues"`
	RateLimited     int    `json:"rate_limited"`
	FixtureCount    int    `json:"fixture_count"`
	PredictionCount int    `json:"prediction_count"`
	WorkerCount     int    `json:"worker_count"`
}

// ScanService runs the daily heuristic pass: fetch the day's fixtures
// across the configured leagues, size both teams up, and store the
// fixtures expected to stay low scoring.
type ScanService struct {
	provider    SportsDataProvider
	formSource  FormSource
	predictions prediction.Repository
	cfg         ScanConfig
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewScanService(
	provider SportsDataProvider,
	formSource FormSource,
	predictions prediction.Repository,
	cfg ScanConfig,
	logger *logging.Logger,
) *ScanService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Rules.Enabled) == 0 {
		cfg.Rules = DefaultRuleSet()
	}
	if formSource == nil {
		formSource = NewFormSource(cfg.FormSource, provider)
	}
	return &ScanService{
		provider:    provider,
		formSource:  formSource,
		predictions: predictions,
		cfg:         cfg,
		ids:         idgen.NewRandomGenerator(),
		logger:      logger,
		now:         time.Now,
	}
}

type leagueFetchRow struct {
	leagueID    int64
	fixtures    []fixture.Fixture
	rateLimited bool
	err         error
}

// Run executes one scan for the given date and upserts the resulting
// prediction set. Individual league failures degrade the scan; only a
// failed store fails it.
func (s *ScanService) Run(ctx context.Context, date time.Time) (ScanResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScanService.Run")
	defer span.End()

	day := date.UTC().Format(prediction.DateFormat)
	season := fixture.SeasonForDate(date.UTC())

	leagueIDs, err := s.resolveLeagueIDs(ctx, season)
	if err != nil {
		return ScanResult{}, fmt.Errorf("resolve league ids: %w", err)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return ScanResult{}, fmt.Errorf("generate scan run id: %w", err)
	}

	workerCount := normalizeWorkerCount(s.cfg.LeagueWorkers, len(leagueIDs))
	result := ScanResult{
		RunID:       runID,
		Date:        day,
		LeagueCount: len(leagueIDs),
		WorkerCount: workerCount,
	}

	rows, err := s.fetchLeagues(ctx, leagueIDs, season, day, workerCount)
	if err != nil {
		return ScanResult{}, err
	}

	fixtures := make([]fixture.Fixture, 0, 64)
	seen := make(map[int64]struct{}, 64)
	for _, row := range rows {
		if row.err != nil {
			if row.rateLimited {
				result.RateLimited++
			} else {
				result.FailedLeagues++
			}
			s.logger.WarnContext(ctx, "league fetch failed, continuing scan",
				"league_id", row.leagueID, "date", day, "error", row.err)
			continue
		}
		for _, fx := range row.fixtures {
			if _, ok := seen[fx.ID]; ok {
				continue
			}
			seen[fx.ID] = struct{}{}
			fixtures = append(fixtures, fx)
		}
	}
	result.FixtureCount = len(fixtures)

	records := s.evaluateFixtures(ctx, fixtures)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].League != records[j].League {
			return records[i].League < records[j].League
		}
		return records[i].ID < records[j].ID
	})
	result.PredictionCount = len(records)

	if err := s.predictions.UpsertDay(ctx, prediction.Day{Date: day, Records: records}); err != nil {
		return ScanResult{}, fmt.Errorf("store prediction day %s: %w", day, err)
	}

	s.logger.InfoContext(ctx, "scan finished",
		"run_id", runID,
		"date", day,
		"league_count", result.LeagueCount,
		"failed_leagues", result.FailedLeagues,
		"rate_limited", result.RateLimited,
		"fixture_count", result.FixtureCount,
		"prediction_count", result.PredictionCount,
	)
	return result, nil
}

// RunToday is the cron entry point.
func (s *ScanService) RunToday(ctx context.Context) (ScanResult, error) {
	return s.Run(ctx, s.now().UTC())
}

func (s *ScanService) resolveLeagueIDs(ctx context.Context, season int) ([]int64, error) {
	if s.cfg.DiscoverLeagues {
		ids, err := s.provider.ActiveLeagueIDs(ctx, season)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}
	if len(s.cfg.LeagueIDs) > 0 {
		return s.cfg.LeagueIDs, nil
	}
	return DefaultLeagueIDs, nil
}

func (s *ScanService) fetchLeagues(ctx context.Context, leagueIDs []int64, season int, day string, workerCount int) ([]leagueFetchRow, error) {
	rows := make(chan leagueFetchRow, len(leagueIDs))

	var rateLimitHits atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, leagueID := range leagueIDs {
		leagueID := leagueID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := leagueFetchRow{leagueID: leagueID}
			// Once the provider starts rate limiting, the remaining
			// leagues would only deepen the quota hole.
			if rateLimitHits.Load() > 0 {
				row.err = ErrUpstreamRateLimited
				row.rateLimited = true
				rows <- row
				return
			}

			row.fixtures, row.err = s.provider.FixturesByLeagueDate(ctx, leagueID, season, day)
			if errors.Is(row.err, ErrUpstreamRateLimited) {
				row.rateLimited = true
				rateLimitHits.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit league fetch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	out := make([]leagueFetchRow, 0, len(leagueIDs))
	for row := range rows {
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].leagueID < out[j].leagueID })
	return out, nil
}

// evaluateFixtures fans out per fixture: fetch the head-to-head
// history, derive both forms, run the rules. Every fixture settles
// independently; one bad fixture never sinks the scan.
func (s *ScanService) evaluateFixtures(ctx context.Context, fixtures []fixture.Fixture) []prediction.Record {
	fixtureWorkers := normalizeWorkerCount(s.cfg.FixtureWorkers, len(fixtures))

	outcomes := joinAllSettled(len(fixtures), fixtureWorkers, func(i int) ([]prediction.Record, error) {
		return s.evaluateFixture(ctx, fixtures[i])
	})

	records := make([]prediction.Record, 0, len(fixtures))
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			s.logger.WarnContext(ctx, "fixture evaluation failed, skipping",
				"fixture_id", fixtures[i].ID, "error", outcome.Err)
			continue
		}
		records = append(records, outcome.Value...)
	}
	return records
}

func (s *ScanService) evaluateFixture(ctx context.Context, fx fixture.Fixture) ([]prediction.Record, error) {
	h2h, err := s.provider.HeadToHead(ctx, fx.HomeTeam.ID, fx.AwayTeam.ID, s.cfg.Rules.H2HLast)
	if err != nil {
		return nil, fmt.Errorf("head-to-head fixture_id=%d: %w", fx.ID, err)
	}

	homeForm, awayForm, err := s.formSource.TeamForms(ctx, fx, h2h)
	if err != nil {
		return nil, fmt.Errorf("team forms fixture_id=%d: %w", fx.ID, err)
	}

	in := matchInput{fx: fx, homeForm: homeForm, awayForm: awayForm, h2h: h2h}

	if !s.cfg.DualModel {
		return recordsFor(fx, s.cfg.Rules.Evaluate(in), ""), nil
	}

	records := recordsFor(fx, s.cfg.Rules.Evaluate(in), "-A")
	records = append(records, recordsFor(fx, strictVariant(s.cfg.Rules).Evaluate(in), "-B")...)
	return records, nil
}

func recordsFor(fx fixture.Fixture, payloads []prediction.Payload, suffix string) []prediction.Record {
	if len(payloads) == 0 {
		return nil
	}

	records := make([]prediction.Record, 0, len(payloads))
	for _, payload := range payloads {
		id := strconv.FormatInt(fx.ID, 10)
		if payload.Type != prediction.TypeLowScoreWeakerTeam {
			id += ":" + payload.Type
		}
		record := prediction.Record{
			ID:         id + suffix,
			FixtureID:  fx.ID,
			League:     fx.LeagueLabel(),
			KickoffAt:  fx.KickoffAt,
			HomeTeam:   fx.HomeTeam.Name,
			AwayTeam:   fx.AwayTeam.Name,
			Prediction: payload,
		}
		if fx.IsFinished() {
			record.HomeScore = fx.HomeGoals
			record.AwayScore = fx.AwayGoals
		}
		records = append(records, record)
	}
	return records
}

// strictVariant tightens the thresholds for the second model of a
// dual-model scan.
func strictVariant(rs RuleSet) RuleSet {
	rs.GoalAvgCutoff = 1.2
	rs.EmptyH2HPass = false
	rs.Policy = PolicyAllOf
	return rs
}

func normalizeWorkerCount(requested, taskCount int) int {
	if requested < 1 {
		requested = 5
	}
	if taskCount > 0 && requested > taskCount {
		requested = taskCount
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}
