package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampDecodesBackendShapes(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-01T10:20:30Z"`:       time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T10:20:30"`:        time.Date(2024, 3, 1, 10, 20, 30, 0, time.Local),
		`"2024-03-01T10:20:30.250000"`: time.Date(2024, 3, 1, 10, 20, 30, 250000000, time.Local),
		`"2024-03-01 10:20:30"`:        time.Date(2024, 3, 1, 10, 20, 30, 0, time.Local),
		`"2024-03-01T10:20:30+05:30"`:  time.Date(2024, 3, 1, 10, 20, 30, 0, time.FixedZone("", 19800)),
	}
	for in, want := range cases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !ts.Equal(want) {
			t.Errorf("unmarshal %s = %v, want %v", in, ts.Time, want)
		}
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestDashboardNewsPayload(t *testing.T) {
	payload := `[{
		"ticker_symbol": "AAPL",
		"ticker_name": "Apple Inc.",
		"ticker_type": "stock",
		"latest_news": [{"title": "Apple beats", "url": null, "news_provider": "finnhub",
			"published_at": "2024-03-01T10:00:00", "sentiment_score": 0.42}],
		"ai_insights": [{"insight_type": "summary", "content": "Strong quarter",
			"confidence_score": null, "sentiment": "bullish"}],
		"overall_sentiment": "bullish",
		"news_sources_count": 3
	}]`
	var snap DashboardSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(snap) != 1 || snap[0].Symbol != "AAPL" || snap[0].SourcesCount != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap[0].Insights[0].ConfidenceScore != nil {
		t.Error("null confidence must decode to nil")
	}
	if got := snap[0].News[0].SentimentScore; got == nil || *got != 0.42 {
		t.Errorf("sentiment score = %v", got)
	}
	if snap[0].SummaryOnly() {
		t.Error("news snapshot must not be summary-only")
	}
}

func TestSimpleDashboardSnapshot(t *testing.T) {
	d := SimpleDashboard{
		User:    User{Username: "ada", Email: "ada@example.com"},
		Tickers: []Ticker{{Symbol: "BTC-USD", Name: "Bitcoin", Type: TickerCrypto}, {Symbol: "MSFT", Name: "Microsoft", Type: TickerStock}},
	}
	snap := d.Snapshot()
	if got := snap.Symbols(); len(got) != 2 || got[0] != "BTC-USD" || got[1] != "MSFT" {
		t.Fatalf("symbols = %v", got)
	}
	if !snap[0].SummaryOnly() || !snap.Has("MSFT") || snap.Has("AAPL") {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestArticleProvider(t *testing.T) {
	if got := (Article{NewsProvider: "finnhub", Source: "Reuters"}).Provider(); got != "finnhub" {
		t.Errorf("got %q", got)
	}
	if got := (Article{Source: "Reuters"}).Provider(); got != "Reuters" {
		t.Errorf("got %q", got)
	}
	if got := (Article{}).Provider(); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}

func TestParseTickerType(t *testing.T) {
	if tt, ok := ParseTickerType(" Crypto "); !ok || tt != TickerCrypto {
		t.Errorf("got %q %v", tt, ok)
	}
	if _, ok := ParseTickerType("bond"); ok {
		t.Error("bond must be rejected")
	}
	if got := NormalizeSymbol("  aapl "); got != "AAPL" {
		t.Errorf("NormalizeSymbol = %q", got)
	}
}
