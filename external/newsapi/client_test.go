package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stevefe123/estat-predict/internal/usecase"
)

func TestClient_TopFootballHeadlines_FiltersAndCaps(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "news-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		query := r.URL.Query()
		if query.Get("q") != "football" || query.Get("sources") != "bbc-sport,espn,four-four-two" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"BBC Sport"},"title":"No image","url":"https://x/1","urlToImage":"","publishedAt":"2026-08-28T08:00:00Z"},
			{"source":{"name":"BBC Sport"},"title":"One","url":"https://x/2","urlToImage":"https://img/2","publishedAt":"2026-08-28T07:00:00Z"},
			{"source":{"name":"ESPN"},"title":"Two","url":"https://x/3","urlToImage":"https://img/3","publishedAt":"2026-08-28T06:00:00Z"},
			{"source":{"name":"ESPN"},"title":"Three","url":"https://x/4","urlToImage":"https://img/4","publishedAt":"2026-08-28T05:00:00Z"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "news-key"})

	articles, err := client.TopFootballHeadlines(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopFootballHeadlines: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "One" || articles[1].Title != "Two" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Fatal("publishedAt not parsed")
	}
}

func TestClient_TopFootballHeadlines_RateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "news-key"})

	_, err := client.TopFootballHeadlines(context.Background(), 5)
	if !errors.Is(err, usecase.ErrUpstreamRateLimited) {
		t.Fatalf("error = %v, want ErrUpstreamRateLimited", err)
	}
}
