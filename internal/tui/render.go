package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tickerdash/internal/view"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	bannerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	symbolStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	linkStyle     = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("75"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7")).Padding(0, 1)
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	selCardStyle  = cardStyle.BorderForeground(lipgloss.Color("75"))
	plainStyle    = lipgloss.NewStyle()
)

// styleFor picks the style of a leaf node from its classes.
func styleFor(n *view.Node) lipgloss.Style {
	switch {
	case n.HasClass("sentiment-positive"), n.HasClass("sentiment-bullish"):
		return positiveStyle
	case n.HasClass("sentiment-negative"), n.HasClass("sentiment-bearish"):
		return negativeStyle
	case n.HasClass("sentiment-neutral"):
		return neutralStyle
	case n.HasClass("ticker-main-symbol"):
		return symbolStyle
	case n.HasClass("section-title"):
		return sectionStyle
	case n.HasClass("news-title"):
		return titleStyle
	case n.HasClass("news-source"), n.HasClass("insight-meta"), n.HasClass("insight-sentiment"),
		n.HasClass("insight-sources"), n.HasClass("insight-confidence"), n.HasClass("user-email"),
		n.HasClass("no-insights"), n.HasClass("no-news"), n.HasClass("empty-state-message"):
		return dimStyle
	}
	switch n.Kind {
	case view.KindBadge:
		return badgeStyle
	case view.KindButton:
		return buttonStyle
	}
	return plainStyle
}

// inlineClasses are boxes whose children render on one line.
var inlineClasses = []string{"ticker-badges", "insight-header", "news-meta", "user-info", "insight-meta"}

func isInline(n *view.Node) bool {
	for _, c := range inlineClasses {
		if n.HasClass(c) {
			return true
		}
	}
	return false
}

// RenderNode draws a tree as terminal text. The ticker card whose remove
// action matches selected gets a highlighted border.
func RenderNode(n *view.Node, width int, selected string) string {
	if n == nil {
		return ""
	}
	if n.HasClass("ticker-dashboard-card") || n.HasClass("ticker-card") {
		style := cardStyle
		if selected != "" && containsAction(n, selected) {
			style = selCardStyle
		}
		inner := width - 4
		if inner < 10 {
			inner = 10
		}
		return style.Width(inner).Render(renderChildren(n, inner, selected))
	}
	if isInline(n) {
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			if s := RenderNode(c, width, selected); s != "" {
				parts = append(parts, s)
			}
		}
		sep := " "
		if n.HasClass("news-meta") || n.HasClass("insight-meta") {
			sep = dimStyle.Render(" · ")
		}
		return strings.Join(parts, sep)
	}
	if n.Kind != view.KindBox && n.Kind != view.KindLink {
		return styleFor(n).Render(n.Text)
	}

	body := renderChildren(n, width, selected)
	if n.Kind == view.KindLink && n.Href != "" {
		body += "\n" + linkStyle.Render(n.Href)
	}
	return body
}

func renderChildren(n *view.Node, width int, selected string) string {
	lines := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if s := RenderNode(c, width, selected); s != "" {
			lines = append(lines, s)
		}
	}
	if n.HasClass("ticker-header") {
		return strings.Join(lines, "  ")
	}
	return strings.Join(lines, "\n")
}

func containsAction(n *view.Node, action string) bool {
	for _, a := range n.Actions() {
		if a == action {
			return true
		}
	}
	return false
}

func padOrTrunc(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 {
		return s
	}
	if w >= width {
		r := []rune(s)
		if len(r) > width {
			return string(r[:width])
		}
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
