package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Stevefe123/estat-predict/external/newsapi"
	"github.com/Stevefe123/estat-predict/internal/platform/cache"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
)

const newsHeadlineLimit = 5

// NewsService serves the curated headline strip on the dashboard.
type NewsService struct {
	provider NewsProvider
	cache    *cache.Store
	cacheTTL time.Duration
	logger   *logging.Logger
}

func NewNewsService(provider NewsProvider, store *cache.Store, cacheTTL time.Duration, logger *logging.Logger) *NewsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &NewsService{
		provider: provider,
		cache:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *NewsService) Headlines(ctx context.Context) ([]newsapi.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "NewsService.Headlines")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		articles, err := s.provider.TopFootballHeadlines(ctx, newsHeadlineLimit)
		if err != nil {
			return nil, fmt.Errorf("load headlines: %w", err)
		}
		return articles, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return out.([]newsapi.Article), nil
	}

	out, err := s.cache.GetOrLoadWithTTL(ctx, "news-headlines", s.cacheTTL, load)
	if err != nil {
		return nil, err
	}

	articles, ok := out.([]newsapi.Article)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", out)
	}
	return articles, nil
}
