package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Stevefe123/estat-predict/internal/platform/resilience"
	"github.com/Stevefe123/estat-predict/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
	return client, server
}

func TestClient_FixturesByLeagueDate_MapsPayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-rapidapi-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		query := r.URL.Query()
		if query.Get("league") != "39" || query.Get("season") != "2026" || query.Get("date") != "2026-08-28" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":101,"date":"2026-08-28T19:00:00+00:00","status":{"short":"NS","elapsed":null}},
			"league":{"id":39,"name":"Premier League","country":"England","season":2026},
			"teams":{
				"home":{"id":1,"name":"Arsenal","winner":null,"last_5_games":{"form":"WWDWL","goals":{"for":{"total":9,"average":"1.8"},"against":{"total":4,"average":"0.8"}}}},
				"away":{"id":2,"name":"Fulham","winner":null}
			},
			"goals":{"home":null,"away":null}
		}]}`))
	})

	fixtures, err := client.FixturesByLeagueDate(context.Background(), 39, 2026, "2026-08-28")
	if err != nil {
		t.Fatalf("FixturesByLeagueDate: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("got %d fixtures, want 1", len(fixtures))
	}

	fx := fixtures[0]
	if fx.ID != 101 || fx.LeagueLabel() != "Premier League (England)" {
		t.Fatalf("unexpected fixture: %+v", fx)
	}
	if !fx.HomeTeam.Form.Known || fx.HomeTeam.Form.GoalsForAvg != 1.8 {
		t.Fatalf("home form not mapped: %+v", fx.HomeTeam.Form)
	}
	if fx.AwayTeam.Form.Known {
		t.Fatalf("away team with no form block should carry the sentinel: %+v", fx.AwayTeam.Form)
	}
	if fx.AwayTeam.Form.GoalsForAvg != 99 {
		t.Fatalf("away sentinel average = %v", fx.AwayTeam.Form.GoalsForAvg)
	}
}

func TestClient_FixturesByLeagueDate_NullAverageFallsBackToSentinel(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":102,"date":"2026-08-28T19:00:00+00:00","status":{"short":"NS","elapsed":null}},
			"league":{"id":39,"name":"Premier League","country":"England","season":2026},
			"teams":{
				"home":{"id":1,"name":"Arsenal","winner":null,"last_5_games":{"form":"WWDWL","goals":{"for":{"total":9,"average":null},"against":{"total":4,"average":"0.8"}}}},
				"away":{"id":2,"name":"Fulham","winner":null,"last_5_games":{"form":"LLDLL","goals":{"for":{"total":2,"average":"0.4"},"against":{"total":8,"average":"1.6"}}}}
			},
			"goals":{"home":null,"away":null}
		}]}`))
	})

	fixtures, err := client.FixturesByLeagueDate(context.Background(), 39, 2026, "2026-08-28")
	if err != nil {
		t.Fatalf("FixturesByLeagueDate: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("got %d fixtures, want 1; a null average must not drop the league", len(fixtures))
	}

	fx := fixtures[0]
	if !fx.HomeTeam.Form.Known || fx.HomeTeam.Form.GoalsForAvg != 99 {
		t.Fatalf("home form with null average = %+v, want sentinel goals-for", fx.HomeTeam.Form)
	}
	if fx.HomeTeam.Form.GoalsAgainstAvg != 0.8 {
		t.Fatalf("home goals-against = %v, want 0.8", fx.HomeTeam.Form.GoalsAgainstAvg)
	}
	if fx.AwayTeam.Form.GoalsForAvg != 0.4 {
		t.Fatalf("away goals-for = %v, want 0.4", fx.AwayTeam.Form.GoalsForAvg)
	}
}

func TestClient_RateLimited_FailsFastWithSentinel(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
	})

	_, err := client.LiveFixtures(context.Background())
	if !errors.Is(err, usecase.ErrUpstreamRateLimited) {
		t.Fatalf("error = %v, want ErrUpstreamRateLimited", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("429 was retried %d times, want a single call", got)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	})

	if _, err := client.LiveFixtures(context.Background()); err != nil {
		t.Fatalf("LiveFixtures after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("got %d calls, want 2", got)
	}
}

func TestClient_CircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.LiveFixtures(ctx); err == nil {
			t.Fatal("expected failure from 500 upstream")
		}
	}

	_, err := client.LiveFixtures(ctx)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("error after breaker opened = %v, want ErrDependencyUnavailable", err)
	}
}

func TestClient_ActiveLeagueIDs_DedupesAndSorts(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leagues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[
			{"league":{"id":140,"name":"La Liga"},"country":{"name":"Spain"}},
			{"league":{"id":39,"name":"Premier League"},"country":{"name":"England"}},
			{"league":{"id":140,"name":"La Liga"},"country":{"name":"Spain"}}
		]}`))
	})

	ids, err := client.ActiveLeagueIDs(context.Background(), 2026)
	if err != nil {
		t.Fatalf("ActiveLeagueIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 39 || ids[1] != 140 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://x": x-rapidapi-key: secret-123 refused`, "secret-123")
	if want := `Get "https://x": x-rapidapi-key: REDACTED refused`; got != want {
		t.Fatalf("sanitized = %q, want %q", got, want)
	}
}
