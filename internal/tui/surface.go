// Package tui is the interactive terminal dashboard.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tickerdash/internal/view"
)

// Messages the Bridge forwards from the controller into the program.
type (
	userMsg      struct{ node *view.Node }
	dashboardMsg struct{ node *view.Node }
	loadingMsg   bool
	bannerMsg    string
	inlineMsg    struct {
		text string
		ok   bool
	}
	busyMsg     bool
	closeAddMsg struct{}
	navigateMsg string
)

// Bridge implements dashboard.Surface by sending every call into a running
// bubbletea program. Calls before Attach are buffered.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

// NewBridge creates an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach connects the bridge to p and flushes buffered calls.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	// Send blocks until the program's event loop is running.
	go func() {
		for _, msg := range pending {
			p.Send(msg)
		}
	}()
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	if p == nil {
		b.pending = append(b.pending, msg)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	p.Send(msg)
}

func (b *Bridge) ShowUser(n *view.Node)          { b.send(userMsg{node: n}) }
func (b *Bridge) ShowDashboard(n *view.Node)     { b.send(dashboardMsg{node: n}) }
func (b *Bridge) ShowLoading(on bool)            { b.send(loadingMsg(on)) }
func (b *Bridge) ShowBanner(msg string)          { b.send(bannerMsg(msg)) }
func (b *Bridge) ShowInline(msg string, ok bool) { b.send(inlineMsg{text: msg, ok: ok}) }
func (b *Bridge) SetBusy(busy bool)              { b.send(busyMsg(busy)) }
func (b *Bridge) CloseAddTicker()                { b.send(closeAddMsg{}) }
func (b *Bridge) Navigate(page string)           { b.send(navigateMsg(page)) }
