package newsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	"github.com/Stevefe123/estat-predict/internal/usecase"
	sonic "github.com/bytedance/sonic"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"

	// Curated football outlets; everything else in the index is noise
	// for this audience.
	defaultSources = "bbc-sport,espn,four-four-two"

	maxResponseBytes = 4 << 20
)

type Article = usecase.Article

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

// TopFootballHeadlines returns up to limit recent football articles from
// the curated sources. Articles without an image are dropped; the feed
// renders as cards.
func (c *Client) TopFootballHeadlines(ctx context.Context, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 5
	}

	values := url.Values{}
	values.Set("q", "football")
	values.Set("sources", defaultSources)
	values.Set("sortBy", "publishedAt")
	values.Set("pageSize", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch headlines: %s", usecase.ErrDependencyUnavailable, sanitizeError(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read headlines body: %v", usecase.ErrDependencyUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: news provider status=429", usecase.ErrUpstreamRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: news provider status=%d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var envelope articlesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode headlines payload: %w", err)
	}

	out := make([]Article, 0, limit)
	for _, item := range envelope.Articles {
		if strings.TrimSpace(item.URLToImage) == "" {
			continue
		}
		article := Article{
			Source:      strings.TrimSpace(item.Source.Name),
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         strings.TrimSpace(item.URL),
			ImageURL:    strings.TrimSpace(item.URLToImage),
		}
		if parsed, perr := time.Parse(time.RFC3339, strings.TrimSpace(item.PublishedAt)); perr == nil {
			article.PublishedAt = parsed.UTC()
		}
		out = append(out, article)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type articlesEnvelope struct {
	Status   string        `json:"status"`
	Articles []articleItem `json:"articles"`
}

type articleItem struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func sanitizeError(err error, apiKey string) string {
	text := err.Error()
	if apiKey != "" {
		text = strings.ReplaceAll(text, apiKey, "REDACTED")
	}
	return text
}
