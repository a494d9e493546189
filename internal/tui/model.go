package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tickerdash/internal/dashboard"
	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/view"
)

// Controller is what the model drives.
type Controller interface {
	Mount(ctx context.Context) error
	ManualRefresh(ctx context.Context) error
	AddTicker(ctx context.Context, input string) error
	RemoveTicker(ctx context.Context, symbol string, confirm dashboard.Confirmer) error
	Logout() error
	Stop()
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeConfirm
)

// actionDoneMsg reports that a controller call returned.
type actionDoneMsg struct{ err error }

type bannerExpiredMsg struct{ seq int }

// Options configures the model.
type Options struct {
	BannerDuration time.Duration
	Title          string
}

type model struct {
	ctx  context.Context
	ctrl Controller
	opts Options

	viewport viewport.Model
	spinner  spinner.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int

	user      *view.Node
	dashboard *view.Node
	loading   bool
	busy      bool
	banner    string
	bannerSeq int
	inline    string
	inlineOK  bool

	mode     mode
	actions  []string
	selected int
	confirm  string

	page      string
	loggedOut bool
}

func newModel(ctx context.Context, ctrl Controller, opts Options) model {
	in := textinput.New()
	in.Placeholder = "AAPL"
	in.CharLimit = 20
	in.Prompt = "Symbol: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if opts.BannerDuration <= 0 {
		opts.BannerDuration = 5 * time.Second
	}
	if opts.Title == "" {
		opts.Title = "tickerdash"
	}
	return model{
		ctx:     ctx,
		ctrl:    ctrl,
		opts:    opts,
		input:   in,
		spinner: sp,
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return actionDoneMsg{err: ctrl.Mount(ctx)}
	})
}

func (m model) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m model) selectedSymbol() string {
	if m.selected < 0 || m.selected >= len(m.actions) {
		return ""
	}
	sym, _ := view.ParseRemoveAction(m.actions[m.selected])
	return sym
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case userMsg:
		m.user = msg.node
		return m, nil

	case dashboardMsg:
		m.dashboard = msg.node
		m.actions = msg.node.Actions()
		if m.selected >= len(m.actions) {
			m.selected = len(m.actions) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.refreshViewport()
		return m, nil

	case loadingMsg:
		m.loading = bool(msg)
		m.refreshViewport()
		return m, nil

	case busyMsg:
		m.busy = bool(msg)
		return m, nil

	case bannerMsg:
		m.banner = string(msg)
		m.bannerSeq++
		seq := m.bannerSeq
		return m, tea.Tick(m.opts.BannerDuration, func(time.Time) tea.Msg {
			return bannerExpiredMsg{seq: seq}
		})

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil

	case inlineMsg:
		m.inline = msg.text
		m.inlineOK = msg.ok
		if msg.ok {
			m.input.Reset()
		}
		return m, nil

	case closeAddMsg:
		m.closeAdd()
		return m, nil

	case navigateMsg:
		m.page = string(msg)
		if m.page == dashboard.PageLogin {
			m.ctrl.Stop()
			return m, tea.Quit
		}
		return m, nil

	case actionDoneMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.busy {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) closeAdd() {
	m.mode = modeBrowse
	m.inline = ""
	m.input.Reset()
	m.input.Blur()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.ctrl.Stop()
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		switch msg.String() {
		case "esc":
			m.closeAdd()
			return m, nil
		case "enter":
			value := m.input.Value()
			return m, m.run(func(ctx context.Context) error {
				return m.ctrl.AddTicker(ctx, value)
			})
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeConfirm:
		symbol := m.confirm
		m.mode = modeBrowse
		m.confirm = ""
		if msg.String() == "y" || msg.String() == "Y" {
			return m, m.run(func(ctx context.Context) error {
				// The prompt has already been answered on screen.
				return m.ctrl.RemoveTicker(ctx, symbol, dashboard.Always)
			})
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.ctrl.Stop()
		return m, tea.Quit
	case "r":
		if m.busy {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.run(m.ctrl.ManualRefresh))
	case "a":
		m.mode = modeAdd
		m.inline = ""
		return m, m.input.Focus()
	case "d", "x":
		if sym := m.selectedSymbol(); sym != "" {
			m.mode = modeConfirm
			m.confirm = sym
		}
		return m, nil
	case "j", "down":
		if m.selected < len(m.actions)-1 {
			m.selected++
			m.refreshViewport()
		}
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.refreshViewport()
		}
		return m, nil
	case "L":
		m.loggedOut = true
		ctrl := m.ctrl
		return m, func() tea.Msg { return actionDoneMsg{err: ctrl.Logout()} }
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) refreshViewport() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m model) renderContent() string {
	if m.dashboard == nil {
		if m.loading {
			return "\n  " + m.spinner.View() + " Loading dashboard..."
		}
		return ""
	}
	selected := ""
	if m.selected < len(m.actions) {
		selected = m.actions[m.selected]
	}

	var b strings.Builder
	for _, child := range m.dashboard.Children {
		if child.HasClass("tickers-grid") {
			for _, card := range child.Children {
				b.WriteString(RenderNode(card, m.width, selected))
				b.WriteString("\n")
			}
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(RenderNode(child, m.width, selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) headerView() string {
	left := " " + m.opts.Title
	if m.user != nil {
		left += "   " + RenderNode(m.user, m.width, "")
	}
	right := ""
	if m.busy {
		right = m.spinner.View() + " Refreshing... "
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(padOrTrunc(left+strings.Repeat(" ", gap)+right, m.width))
}

func (m model) footerView() string {
	switch m.mode {
	case modeAdd:
		line := " " + m.input.View() + "   enter add  esc cancel"
		if m.inline != "" {
			style := errStyle
			if m.inlineOK {
				style = okStyle
			}
			line += "   " + style.Render(m.inline)
		}
		return modalStyle.Render(line)
	case modeConfirm:
		return bannerStyle.Render(padOrTrunc(" "+dashboard.RemovePrompt(m.confirm)+" (y/n)", m.width))
	}
	if m.banner != "" {
		return bannerStyle.Render(padOrTrunc(" "+m.banner, m.width))
	}
	pct := 0.0
	if m.ready {
		pct = m.viewport.ScrollPercent() * 100
	}
	left := " q quit  r refresh  a add  d remove  j/k select  L logout"
	right := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(left) - len(right)
	if gap < 0 {
		gap = 0
	}
	return footerStyle.Render(padOrTrunc(left+strings.Repeat(" ", gap)+right, m.width))
}

func (m model) View() string {
	if !m.ready {
		return "\n  " + m.spinner.View() + " Loading..."
	}
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

// Run starts the interactive dashboard and blocks until the user quits.
// It returns ErrSessionExpired when the backend rejected the session and
// the user must log in again.
func Run(ctx context.Context, ctrl Controller, bridge *Bridge, opts Options) error {
	p := tea.NewProgram(
		newModel(ctx, ctrl, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	if fm, ok := final.(model); ok && fm.page == dashboard.PageLogin && !fm.loggedOut {
		return apperrors.ErrSessionExpired
	}
	return nil
}
