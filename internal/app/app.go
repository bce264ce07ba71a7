package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/Stevefe123/estat-predict/external/apifootball"
	"github.com/Stevefe123/estat-predict/external/newsapi"
	"github.com/Stevefe123/estat-predict/internal/config"
	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	"github.com/Stevefe123/estat-predict/internal/domain/profile"
	"github.com/Stevefe123/estat-predict/internal/infrastructure/repository/memory"
	"github.com/Stevefe123/estat-predict/internal/infrastructure/repository/postgres"
	"github.com/Stevefe123/estat-predict/internal/interfaces/httpapi"
	"github.com/Stevefe123/estat-predict/internal/platform/cache"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	"github.com/Stevefe123/estat-predict/internal/platform/resilience"
	"github.com/Stevefe123/estat-predict/internal/usecase"
)

// App wires repositories, provider clients, and services into a
// runnable HTTP server plus the scan service the scheduler drives.
type App struct {
	Config config.Config
	Logger *logging.Logger
	Server *http.Server
	Scan   *usecase.ScanService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db             *sqlx.DB
		predictionRepo prediction.Repository
		profileRepo    profile.Repository
		err            error
	)
	if strings.TrimSpace(cfg.DBURL) != "" {
		db, err = openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		predictionRepo = postgres.NewPredictionRepository(db)
		profileRepo = postgres.NewProfileRepository(db)
	} else {
		logger.Warn("DB_URL is empty, falling back to in-memory repositories")
		predictionRepo = memory.NewPredictionRepository()
		profileRepo = memory.NewProfileRepository(nil)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.PredictionsCacheTTL)
	}

	footballClient := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		Host:       cfg.FootballAPIHost,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailures,
			OpenTimeout:      cfg.FootballAPICircuitOpenFor,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpen,
		},
	})
	newsClient := newsapi.NewClient(newsapi.ClientConfig{
		BaseURL: cfg.NewsAPIBaseURL,
		APIKey:  cfg.NewsAPIKey,
		Timeout: cfg.NewsAPITimeout,
		Logger:  logger,
	})

	scanSvc := usecase.NewScanService(footballClient, nil, predictionRepo, usecase.ScanConfig{
		LeagueIDs:       cfg.ScanLeagueIDs,
		DiscoverLeagues: cfg.ScanDiscoverLeagues,
		LeagueWorkers:   cfg.ScanLeagueWorkers,
		FixtureWorkers:  cfg.ScanFixtureWorkers,
		Rules: usecase.RuleSet{
			Enabled:           cfg.ScanRules,
			Policy:            cfg.ScanRulePolicy,
			GoalAvgCutoff:     cfg.ScanGoalAvgCutoff,
			H2HAvgCutoff:      cfg.ScanH2HAvgCutoff,
			H2HLast:           cfg.ScanH2HLast,
			DominanceMinGames: cfg.ScanDominanceMinGames,
			DominanceMargin:   cfg.ScanDominanceMargin,
			EmptyH2HPass:      cfg.ScanEmptyH2HPass,
		},
		FormSource: cfg.ScanFormSource,
		DualModel:  cfg.ScanDualModel,
	}, logger)

	predictionSvc := usecase.NewPredictionService(predictionRepo, store, cfg.PredictionsCacheTTL, logger)
	liveScoreSvc := usecase.NewLiveScoreService(footballClient, store, cfg.LiveScoresCacheTTL, logger)
	newsSvc := usecase.NewNewsService(newsClient, store, cfg.NewsCacheTTL, logger)
	billingSvc := usecase.NewBillingService(profileRepo, cfg.PaystackSecretKey, logger)

	handler := httpapi.NewHandler(scanSvc, predictionSvc, liveScoreSvc, newsSvc, billingSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.ScanSecret)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Server: server,
		Scan:   scanSvc,
		db:     db,
	}, nil
}

// Close releases resources the app holds beyond the HTTP server.
func (a *App) Close(context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
