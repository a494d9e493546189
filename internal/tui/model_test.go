package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tickerdash/internal/dashboard"
	"tickerdash/internal/models"
	"tickerdash/internal/view"
)

var sampleNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type fakeController struct {
	mounted  int
	refreshs int
	added    []string
	removed  []string
	stopped  int
}

func (f *fakeController) Mount(context.Context) error         { f.mounted++; return nil }
func (f *fakeController) ManualRefresh(context.Context) error { f.refreshs++; return nil }
func (f *fakeController) AddTicker(_ context.Context, in string) error {
	f.added = append(f.added, in)
	return nil
}
func (f *fakeController) RemoveTicker(_ context.Context, sym string, c dashboard.Confirmer) error {
	if c.Confirm(dashboard.RemovePrompt(sym)) {
		f.removed = append(f.removed, sym)
	}
	return nil
}
func (f *fakeController) Logout() error { return nil }
func (f *fakeController) Stop()         { f.stopped++ }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func sampleDashboard() *view.Node {
	snap := models.DashboardSnapshot{
		{Symbol: "AAPL", Name: "Apple", Type: models.TickerStock},
		{Symbol: "TSLA", Name: "Tesla", Type: models.TickerStock},
	}
	return view.New("").Dashboard(snap, sampleNow)
}

func readyModel(t *testing.T, ctrl *fakeController) model {
	m := newModel(context.Background(), ctrl, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, dashboardMsg{node: sampleDashboard()})
	return m
}

func TestRemoveFlowConfirmsSelectedTicker(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)

	m, _ = update(t, m, key("j"))
	if got := m.selectedSymbol(); got != "TSLA" {
		t.Fatalf("selected = %q", got)
	}
	m, _ = update(t, m, key("d"))
	if m.mode != modeConfirm || !strings.Contains(m.footerView(), "remove TSLA") {
		t.Fatalf("expected confirm prompt, footer = %q", m.footerView())
	}

	m, cmd := update(t, m, key("y"))
	if cmd == nil {
		t.Fatal("expected remove command")
	}
	cmd()
	if len(ctrl.removed) != 1 || ctrl.removed[0] != "TSLA" {
		t.Errorf("removed = %v", ctrl.removed)
	}
	if m.mode != modeBrowse {
		t.Error("expected browse mode after answering")
	}
}

func TestRemoveDeclined(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)
	m, _ = update(t, m, key("d"))
	m, cmd := update(t, m, key("n"))
	if cmd != nil || len(ctrl.removed) != 0 || m.mode != modeBrowse {
		t.Error("declined remove must do nothing")
	}
}

func TestAddFlow(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)

	m, _ = update(t, m, key("a"))
	if m.mode != modeAdd {
		t.Fatal("expected add mode")
	}
	m, _ = update(t, m, key("m"))
	m, _ = update(t, m, key("s"))
	_, cmd := update(t, m, key("enter"))
	cmd()
	if len(ctrl.added) != 1 || ctrl.added[0] != "ms" {
		t.Errorf("added = %v", ctrl.added)
	}

	m, _ = update(t, m, inlineMsg{text: "Please enter a ticker symbol"})
	if !strings.Contains(m.footerView(), "Please enter a ticker symbol") || m.mode != modeAdd {
		t.Error("inline error keeps the modal open")
	}
	m, _ = update(t, m, closeAddMsg{})
	if m.mode != modeBrowse {
		t.Error("CloseAddTicker must close the modal")
	}
}

func TestNavigateToLoginQuits(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)
	m, cmd := update(t, m, navigateMsg(dashboard.PageLogin))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if ctrl.stopped != 1 || m.page != dashboard.PageLogin {
		t.Errorf("stopped = %d, page = %q", ctrl.stopped, m.page)
	}
}

func TestBannerExpires(t *testing.T) {
	m := readyModel(t, &fakeController{})
	m, cmd := update(t, m, bannerMsg("Failed to load dashboard. Please try again."))
	if cmd == nil || !strings.Contains(m.footerView(), "Failed to load dashboard") {
		t.Fatal("expected banner with expiry tick")
	}
	// A stale expiry does not hide a newer banner.
	m, _ = update(t, m, bannerMsg("Failed to remove AAPL"))
	m, _ = update(t, m, bannerExpiredMsg{seq: 1})
	if m.banner != "Failed to remove AAPL" {
		t.Errorf("banner = %q", m.banner)
	}
	m, _ = update(t, m, bannerExpiredMsg{seq: 2})
	if m.banner != "" {
		t.Error("expected banner hidden")
	}
}

func TestRefreshIgnoredWhileBusy(t *testing.T) {
	m := readyModel(t, &fakeController{})
	m, _ = update(t, m, busyMsg(true))
	if _, cmd := update(t, m, key("r")); cmd != nil {
		t.Error("refresh must be disabled while busy")
	}
}

func TestRenderNodeEmptyState(t *testing.T) {
	n := view.New("").Dashboard(nil, sampleNow)
	out := RenderNode(n, 80, "")
	if !strings.Contains(out, view.NoTickersMessage) {
		t.Errorf("output = %q", out)
	}
}

func TestRenderNodeCard(t *testing.T) {
	out := RenderNode(sampleDashboard(), 80, "remove:AAPL")
	for _, want := range []string{"AAPL", "Apple", "Tesla", view.NoInsightsMessage, view.NoNewsMessage} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}

func TestFormCollectsValues(t *testing.T) {
	m := newFormModel("Login", []Field{{Label: "Username", Value: "alice"}, {Label: "Password", Secret: true}})
	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(formModel)
	}
	step(key("enter"))
	step(key("pw"))
	step(key("enter"))
	if !m.done || m.cancelled {
		t.Fatal("expected form to complete")
	}
	if got := m.values(); got[0] != "alice" || got[1] != "pw" {
		t.Errorf("values = %v", got)
	}
	if strings.Contains(m.View(), "pw") {
		t.Error("secret field must not echo")
	}
}
