package view

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"tickerdash/internal/models"
)

// DefaultDateFormat is used for articles older than a week.
const DefaultDateFormat = "Jan 2, 2006"

// Empty-state messages.
const (
	NoInsightsMessage  = "No AI insights available yet. News is being analyzed..."
	NoNewsMessage      = "No recent news articles available."
	NoTickersMessage   = "No tickers yet. Add one to start tracking news."
	confidenceFallback = "AI Analysis"
)

// RemoveAction returns the action id of a ticker's remove control.
func RemoveAction(symbol string) string {
	return "remove:" + symbol
}

// ParseRemoveAction extracts the symbol from a remove action id.
func ParseRemoveAction(action string) (string, bool) {
	sym := strings.TrimPrefix(action, "remove:")
	if sym == action || sym == "" {
		return "", false
	}
	return sym, true
}

// Sentiment is the three-way classification of an article score.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Label returns the badge text for s.
func (s Sentiment) Label() string {
	switch s {
	case Positive:
		return "📈 Positive"
	case Negative:
		return "📉 Negative"
	default:
		return "➡️ Neutral"
	}
}

// ClassifySentiment buckets a score. The thresholds themselves are neutral.
func ClassifySentiment(score float64) Sentiment {
	switch {
	case score > 0.1:
		return Positive
	case score < -0.1:
		return Negative
	default:
		return Neutral
	}
}

// Renderer holds presentation settings. The zero value is usable.
type Renderer struct {
	DateFormat string
}

// New returns a renderer using dateFormat for old articles.
func New(dateFormat string) Renderer {
	return Renderer{DateFormat: dateFormat}
}

func (r Renderer) dateFormat() string {
	if r.DateFormat == "" {
		return DefaultDateFormat
	}
	return r.DateFormat
}

// RelativeTime formats t relative to now with the default date format.
func RelativeTime(t, now time.Time) string {
	return Renderer{}.RelativeTime(t, now)
}

// RelativeTime formats t relative to now. Elapsed time is floored into
// minute, hour and day buckets; times in the future read as "just now".
func (r Renderer) RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Format(r.dateFormat())
	}
}

// UserBadge renders the signed-in user's avatar initial, greeting and email.
func UserBadge(user models.User) *Node {
	initial := "?"
	if r, _ := utf8.DecodeRuneInString(user.Username); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}
	return box("user-info",
		badge("user-avatar", initial),
		text("user-name", fmt.Sprintf("Welcome, %s!", user.Username)),
		text("user-email", user.Email),
	)
}

// InsightCard renders one AI insight.
func InsightCard(in models.Insight) *Node {
	confidence := confidenceFallback
	if in.ConfidenceScore != nil {
		confidence = fmt.Sprintf("%d%% confidence", int(math.Round(*in.ConfidenceScore*100)))
	}

	card := box("insight-card",
		box("insight-header",
			badge("insight-type", in.InsightType),
			text("insight-confidence", confidence),
		),
		text("insight-content", in.Content),
	)

	var meta []*Node
	if in.Sentiment != "" {
		meta = append(meta, text("insight-sentiment", "Sentiment: "+in.Sentiment))
	}
	if in.SourcesAnalyzed != nil && *in.SourcesAnalyzed > 0 {
		meta = append(meta, text("insight-sources", fmt.Sprintf("%d sources analyzed", *in.SourcesAnalyzed)))
	}
	if len(meta) > 0 {
		card.Children = append(card.Children, box("insight-meta", meta...))
	}
	return card
}

// ArticleCard renders one news article. The card is a link iff the article
// has a URL.
func (r Renderer) ArticleCard(a models.Article, now time.Time) *Node {
	card := box("news-card")
	if a.URL != "" {
		card.Kind = KindLink
		card.Href = a.URL
	}

	card.Children = append(card.Children, heading("news-title", a.Title))
	if a.Summary != "" {
		card.Children = append(card.Children, text("news-summary", a.Summary))
	}

	meta := box("news-meta",
		text("news-source", a.Provider()+" • "+r.RelativeTime(a.PublishedAt.Time, now)),
	)
	if a.SentimentScore != nil {
		s := ClassifySentiment(*a.SentimentScore)
		meta.Children = append(meta.Children, badge("news-sentiment sentiment-"+string(s), s.Label()))
	}
	card.Children = append(card.Children, meta)
	return card
}

func tickerHeader(t models.Ticker, extra ...*Node) *Node {
	badges := box("ticker-badges", badge("ticker-type-badge", string(t.Type)))
	badges.Children = append(badges.Children, extra...)
	return box("ticker-header",
		box("ticker-info",
			heading("ticker-main-symbol", t.Symbol),
			box("ticker-details",
				text("ticker-main-name", t.Name),
				badges,
			),
		),
		&Node{Kind: KindButton, Class: "remove-ticker-btn", Text: "Remove", Action: RemoveAction(t.Symbol)},
	)
}

// TickerCard renders a ticker with its insights and latest articles.
func (r Renderer) TickerCard(s models.TickerSnapshot, now time.Time) *Node {
	sentiment := string(s.OverallSentiment)
	if sentiment == "" {
		sentiment = string(models.SentimentNeutral)
	}
	header := tickerHeader(s.Ticker(),
		badge("sentiment-badge sentiment-"+sentiment, sentiment),
		badge("news-sources-badge", fmt.Sprintf("%d sources", s.SourcesCount)),
	)

	insights := box("ai-insights-section", heading("section-title", "AI Insights"))
	if len(s.Insights) > 0 {
		grid := box("insights-grid")
		for _, in := range s.Insights {
			grid.Children = append(grid.Children, InsightCard(in))
		}
		insights.Children = append(insights.Children, grid)
	} else {
		insights.Children = append(insights.Children, text("no-insights", NoInsightsMessage))
	}

	news := box("news-section", heading("section-title", "Latest News"))
	if len(s.News) > 0 {
		grid := box("news-grid")
		for _, a := range s.News {
			grid.Children = append(grid.Children, r.ArticleCard(a, now))
		}
		news.Children = append(news.Children, grid)
	} else {
		news.Children = append(news.Children, text("no-news", NoNewsMessage))
	}

	return box("ticker-dashboard-card", header, insights, news)
}

// TickerSummaryCard renders a ticker without news, as the simplified
// dashboard does.
func TickerSummaryCard(t models.Ticker) *Node {
	return box("ticker-card", tickerHeader(t))
}

// Dashboard renders a full snapshot. An empty snapshot yields only the
// empty-state placeholder and no grid.
func (r Renderer) Dashboard(snap models.DashboardSnapshot, now time.Time) *Node {
	if len(snap) == 0 {
		return box("dashboard", box("empty-state", text("empty-state-message", NoTickersMessage)))
	}
	grid := box("tickers-grid")
	for _, s := range snap {
		if s.SummaryOnly() {
			grid.Children = append(grid.Children, TickerSummaryCard(s.Ticker()))
			continue
		}
		grid.Children = append(grid.Children, r.TickerCard(s, now))
	}
	return box("dashboard", grid)
}
