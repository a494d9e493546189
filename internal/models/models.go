// Package models provides domain models for the ticker dashboard client.
package models

import (
	"strings"
	"time"
)

// TickerType represents the kind of instrument a ticker tracks.
type TickerType string

const (
	TickerStock  TickerType = "stock"
	TickerCrypto TickerType = "crypto"
)

// Valid reports whether t is one of the types the backend accepts.
func (t TickerType) Valid() bool {
	return t == TickerStock || t == TickerCrypto
}

// ParseTickerType normalizes user input into a TickerType.
func ParseTickerType(s string) (TickerType, bool) {
	t := TickerType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// OverallSentiment is the aggregate sentiment the backend computes per ticker.
type OverallSentiment string

const (
	SentimentBullish OverallSentiment = "bullish"
	SentimentBearish OverallSentiment = "bearish"
	SentimentNeutral OverallSentiment = "neutral"
)

// Token is the response of a successful login exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// User is the authenticated account, read-only from the client's side.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Ticker is a tracked instrument.
type Ticker struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	Type      TickerType `json:"type"`
	ID        int64      `json:"id,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SimpleDashboard is the payload of the simplified dashboard endpoint.
type SimpleDashboard struct {
	User    User     `json:"user"`
	Tickers []Ticker `json:"tickers"`
}

// Snapshot converts the simplified payload into a DashboardSnapshot whose
// entries carry no insights or articles.
func (d SimpleDashboard) Snapshot() DashboardSnapshot {
	snap := make(DashboardSnapshot, 0, len(d.Tickers))
	for _, t := range d.Tickers {
		snap = append(snap, TickerSnapshot{
			Symbol:           t.Symbol,
			Name:             t.Name,
			Type:             t.Type,
			OverallSentiment: SentimentNeutral,
			summaryOnly:      true,
		})
	}
	return snap
}

// timestampLayouts are tried in order when decoding backend timestamps.
// Naive layouts are what the backend emits for datetime.now() values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Timestamp decodes the several datetime shapes the backend produces.
// Values without a zone are read as local time, as a browser would.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	var lastErr error
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			ts.Time = t
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(time.RFC3339) + `"`), nil
}
