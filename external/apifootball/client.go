package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/fixture"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	"github.com/Stevefe123/estat-predict/internal/platform/resilience"
	"github.com/Stevefe123/estat-predict/internal/usecase"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	defaultHost    = "api-football-v1.p.rapidapi.com"

	// Provider responses are small JSON documents; anything past this
	// limit is a broken upstream.
	maxResponseBytes = 6 << 20
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)(x-rapidapi-key:?\s*)\S+`)
var errProviderTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the API-Football v3 REST surface behind RapidAPI. It
// carries a circuit breaker plus a single-flight group so concurrent
// scanner workers never duplicate identical provider calls.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	host           string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		host:           host,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// FixturesByLeagueDate returns the fixtures of one league scheduled on
// one calendar day.
func (c *Client) FixturesByLeagueDate(ctx context.Context, leagueID int64, season int, date string) ([]fixture.Fixture, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope fixturesEnvelope
	err := c.doJSON(ctx, "/fixtures", map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
		"date":   date,
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures league_id=%d date=%s: %w", leagueID, date, err)
	}

	return mapFixtures(envelope.Response), nil
}

// HeadToHead returns the most recent meetings between two teams, newest
// first.
func (c *Client) HeadToHead(ctx context.Context, homeID, awayID int64, last int) ([]fixture.Fixture, error) {
	if homeID <= 0 || awayID <= 0 {
		return nil, fmt.Errorf("%w: both team ids are required", usecase.ErrInvalidInput)
	}
	if last <= 0 {
		last = 5
	}

	var envelope fixturesEnvelope
	err := c.doJSON(ctx, "/fixtures/headtohead", map[string]string{
		"h2h":  fmt.Sprintf("%d-%d", homeID, awayID),
		"last": strconv.Itoa(last),
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch head-to-head %d-%d: %w", homeID, awayID, err)
	}

	out := mapFixtures(envelope.Response)
	sort.SliceStable(out, func(i, j int) bool { return out[i].KickoffAt.After(out[j].KickoffAt) })
	return out, nil
}

// RecentTeamFixtures returns a team's last finished games, newest first.
func (c *Client) RecentTeamFixtures(ctx context.Context, teamID int64, last int) ([]fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}
	if last <= 0 {
		last = 5
	}

	var envelope fixturesEnvelope
	err := c.doJSON(ctx, "/fixtures", map[string]string{
		"team": strconv.FormatInt(teamID, 10),
		"last": strconv.Itoa(last),
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch recent fixtures team_id=%d: %w", teamID, err)
	}

	out := mapFixtures(envelope.Response)
	sort.SliceStable(out, func(i, j int) bool { return out[i].KickoffAt.After(out[j].KickoffAt) })
	return out, nil
}

// LiveFixtures returns every fixture currently in play across all
// leagues the subscription covers.
func (c *Client) LiveFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"live": "all"}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}
	return mapFixtures(envelope.Response), nil
}

// ActiveLeagueIDs lists the league ids with a running season, used when
// league discovery is enabled instead of the curated id list.
func (c *Client) ActiveLeagueIDs(ctx context.Context, season int) ([]int64, error) {
	var envelope leaguesEnvelope
	err := c.doJSON(ctx, "/leagues", map[string]string{
		"season":  strconv.Itoa(season),
		"current": "true",
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch active leagues season=%d: %w", season, err)
	}

	ids := make([]int64, 0, len(envelope.Response))
	seen := make(map[int64]struct{}, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.League.ID <= 0 {
			continue
		}
		if _, ok := seen[item.League.ID]; ok {
			continue
		}
		seen[item.League.ID] = struct{}{}
		ids = append(ids, item.League.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-host", c.host)
		req.Header.Set("x-rapidapi-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				// Quota exhaustion; retrying immediately only burns
				// more of the window.
				return nil, fmt.Errorf("%w: provider status=429 body=%s", usecase.ErrUpstreamRateLimited, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains a response through a pooled buffer; the returned
// slice is an owned copy.
func readBody(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(r, maxResponseBytes)); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "${1}REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
