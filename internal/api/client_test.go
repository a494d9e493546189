package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/models"
	"tickerdash/internal/store"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) (*Client, *store.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	session := store.NewMemoryStoreWithToken(token)
	return NewClient(srv.URL+"/", session), session
}

func TestLoginSendsForm(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "p&ss=word" {
			t.Errorf("form = %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok123", "token_type": "bearer"})
	}, "stale")

	tok, err := c.Login(context.Background(), "alice", "p&ss=word")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok123" {
		t.Errorf("token = %+v", tok)
	}
}

func TestAuthenticatedCallsCarryBearerAndRequestID(t *testing.T) {
	c, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer second" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		json.NewEncoder(w).Encode(models.User{Username: "alice", Email: "a@example.com"})
	}, "first")

	// The token is read at call time, not at construction.
	session.Set("second")
	u, err := c.CurrentUser(context.Background())
	if err != nil || u.Username != "alice" {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", 401, `{"detail":"Could not validate credentials"}`, func(t *testing.T, err error) {
			if !apperrors.IsUnauthorized(err) {
				t.Errorf("expected unauthorized, got %v", err)
			}
			var re *apperrors.RequestError
			if errors.As(err, &re) {
				t.Error("401 must not be a RequestError")
			}
		}},
		{"string detail", 400, `{"detail":"Ticker AAPL already exists"}`, func(t *testing.T, err error) {
			var re *apperrors.RequestError
			if !errors.As(err, &re) || re.Status != 400 || re.Detail != "Ticker AAPL already exists" {
				t.Errorf("got %v", err)
			}
			if apperrors.IsUnauthorized(err) {
				t.Error("400 must not look unauthorized")
			}
		}},
		{"list detail", 422, `{"detail":[{"loc":["body","password"],"msg":"too short"}]}`, func(t *testing.T, err error) {
			if got := apperrors.Reason(err, "x"); got != "password: too short" {
				t.Errorf("Reason = %q", got)
			}
		}},
		{"no detail", 500, `Internal Server Error`, func(t *testing.T, err error) {
			if got := apperrors.Reason(err, "Failed to remove AAPL"); got != "Failed to remove AAPL" {
				t.Errorf("Reason = %q", got)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}, "tok")
			tc.check(t, c.RemoveTicker(context.Background(), "AAPL"))
		})
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, store.NewMemoryStoreWithToken("tok"))
	_, err := c.DashboardNews(context.Background(), 24)
	var ue *apperrors.UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
	if apperrors.IsUnauthorized(err) {
		t.Error("transport failure must not look unauthorized")
	}
}

func TestUndecodableBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}, "tok")
	_, err := c.CurrentUser(context.Background())
	var re *apperrors.RequestError
	if !errors.As(err, &re) || re.Status != 200 {
		t.Fatalf("expected RequestError with status 200, got %v", err)
	}
}

func TestDashboardNewsQueryAndDecode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/news/dashboard-news" || r.URL.Query().Get("hours") != "48" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`[{"ticker_symbol":"AAPL","ticker_name":"Apple","ticker_type":"stock",
			"latest_news":[],"ai_insights":[],"overall_sentiment":"bullish","news_sources_count":3}]`))
	}, "tok")

	snap, err := c.DashboardNews(context.Background(), 48)
	if err != nil {
		t.Fatalf("DashboardNews: %v", err)
	}
	if len(snap) != 1 || snap[0].Symbol != "AAPL" || snap[0].SourcesCount != 3 {
		t.Errorf("snap = %+v", snap)
	}
}

func TestCreateTickerPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["symbol"] != "MSFT" || body["name"] != "MSFT" || body["type"] != "stock" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"symbol":"MSFT","name":"MSFT","type":"stock","created_at":"2026-01-02T10:00:00"}`))
	}, "tok")

	tk, err := c.CreateTicker(context.Background(), "MSFT", "MSFT", models.TickerStock)
	if err != nil || tk.ID != 7 || tk.CreatedAt == nil {
		t.Fatalf("CreateTicker = %+v, %v", tk, err)
	}
}

func TestAddToDashboard(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tickers/add" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		switch body["symbol"] {
		case "AAPL":
			w.Write([]byte(`{"id":3,"symbol":"AAPL","name":"Apple Inc.","type":"stock"}`))
		case "TSLA":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Ticker TSLA is already in your dashboard"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Ticker ZZZZ not found. Please validate ticker first."}`))
		}
	}, "tok")
	ctx := context.Background()

	tk, err := c.AddToDashboard(ctx, "AAPL")
	if err != nil || tk.Name != "Apple Inc." {
		t.Fatalf("AddToDashboard = %+v, %v", tk, err)
	}
	_, err = c.AddToDashboard(ctx, "TSLA")
	if got := apperrors.Reason(err, ""); got != "Ticker TSLA is already in your dashboard" {
		t.Errorf("duplicate reason = %q", got)
	}
	var re *apperrors.RequestError
	if _, err = c.AddToDashboard(ctx, "ZZZZ"); !errors.As(err, &re) || re.Status != http.StatusNotFound {
		t.Errorf("unknown symbol err = %v", err)
	}
}

func TestSupplementalEndpoints(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch {
		case strings.HasSuffix(r.URL.Path, "/refresh"):
			w.Write([]byte(`{"message":"News refreshed for AAPL"}`))
		case strings.HasPrefix(r.URL.Path, "/api/tickers/search/"):
			w.Write([]byte(`{"symbol":"AAPL","name":"Apple","type":"stock"}`))
		default:
			w.Write([]byte(`[]`))
		}
	}, "tok")
	ctx := context.Background()

	if _, err := c.TickerNews(ctx, "AAPL", 5, "Finnhub"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.TickerInsights(ctx, "AAPL", 3); err != nil {
		t.Fatal(err)
	}
	msg, err := c.RefreshTickerNews(ctx, "AAPL")
	if err != nil || msg.Message != "News refreshed for AAPL" {
		t.Fatalf("RefreshTickerNews = %+v, %v", msg, err)
	}
	if _, err := c.SearchTicker(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AllTickers(ctx, 10, 50); err != nil {
		t.Fatal(err)
	}
	if _, err := c.DashboardTickers(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"GET /api/news/ticker/AAPL/news?limit=5&provider=Finnhub",
		"GET /api/news/ticker/AAPL/insights?limit=3",
		"POST /api/news/ticker/AAPL/refresh",
		"GET /api/tickers/search/AAPL",
		"GET /api/tickers/all?limit=50&skip=10",
		"GET /api/dashboard/tickers",
	}
	if strings.Join(seen, "\n") != strings.Join(want, "\n") {
		t.Errorf("requests:\n%s\nwant:\n%s", strings.Join(seen, "\n"), strings.Join(want, "\n"))
	}
}
