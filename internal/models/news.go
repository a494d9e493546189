package models

// Insight is an AI-generated analysis attached to a ticker.
type Insight struct {
	InsightType     string     `json:"insight_type"`
	Content         string     `json:"content"`
	ConfidenceScore *float64   `json:"confidence_score"`
	Sentiment       string     `json:"sentiment,omitempty"`
	SourcesAnalyzed *int       `json:"sources_analyzed,omitempty"`
	CreatedAt       *Timestamp `json:"created_at,omitempty"`
}

// Article is a news item attached to a ticker.
type Article struct {
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	URL            string    `json:"url,omitempty"`
	NewsProvider   string    `json:"news_provider,omitempty"`
	Source         string    `json:"source,omitempty"`
	PublishedAt    Timestamp `json:"published_at"`
	SentimentScore *float64  `json:"sentiment_score"`
}

// Provider returns the display name of the article's origin.
func (a Article) Provider() string {
	if a.NewsProvider != "" {
		return a.NewsProvider
	}
	if a.Source != "" {
		return a.Source
	}
	return "Unknown"
}

// TickerSnapshot is one ticker with its latest insights and articles.
type TickerSnapshot struct {
	Symbol           string           `json:"ticker_symbol"`
	Name             string           `json:"ticker_name"`
	Type             TickerType       `json:"ticker_type"`
	News             []Article        `json:"latest_news"`
	Insights         []Insight        `json:"ai_insights"`
	OverallSentiment OverallSentiment `json:"overall_sentiment"`
	SourcesCount     int              `json:"news_sources_count"`

	summaryOnly bool
}

// SummaryOnly reports whether the snapshot came from the simplified
// dashboard and so never carries insights or articles.
func (s TickerSnapshot) SummaryOnly() bool {
	return s.summaryOnly
}

// Ticker returns the ticker identity of the snapshot.
func (s TickerSnapshot) Ticker() Ticker {
	return Ticker{Symbol: s.Symbol, Name: s.Name, Type: s.Type}
}

// DashboardSnapshot is the full payload of one refresh cycle.
type DashboardSnapshot []TickerSnapshot

// Symbols returns the ticker symbols in display order.
func (d DashboardSnapshot) Symbols() []string {
	out := make([]string, 0, len(d))
	for _, s := range d {
		out = append(out, s.Symbol)
	}
	return out
}

// Has reports whether symbol is present in the snapshot.
func (d DashboardSnapshot) Has(symbol string) bool {
	for _, s := range d {
		if s.Symbol == symbol {
			return true
		}
	}
	return false
}
