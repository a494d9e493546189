// Package dashboard drives the dashboard lifecycle: session gating, periodic
// refresh, and the add/remove ticker actions.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/logging"
	"tickerdash/internal/models"
	"tickerdash/internal/store"
	"tickerdash/internal/view"
)

// Pages the controller navigates to.
const (
	PageLogin     = "/login"
	PageDashboard = "/dashboard"
)

// User-facing messages.
const (
	LoadFailedMessage   = "Failed to load dashboard. Please try again."
	RemoveErrorMessage  = "An error occurred while removing the ticker."
	AddErrorMessage     = "An error occurred. Please try again."
	EmptySymbolMessage  = "Please enter a ticker symbol"
	DefaultReloadDelay  = 1500 * time.Millisecond
	addedMessageFormat  = "%s added successfully!"
	addFailedFormat     = "Failed to add %s. Please check the symbol and try again."
	removeFailedFormat  = "Failed to remove %s"
	confirmRemoveFormat = "Are you sure you want to remove %s from your dashboard?"
)

// State is the controller's lifecycle state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Surface is where the controller puts its output.
type Surface interface {
	ShowUser(n *view.Node)
	ShowDashboard(n *view.Node)
	ShowLoading(on bool)
	ShowBanner(msg string)
	// ShowInline reports the result of an add attempt next to its input.
	ShowInline(msg string, ok bool)
	SetBusy(busy bool)
	CloseAddTicker()
	Navigate(page string)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always approves every prompt.
var Always = ConfirmFunc(func(string) bool { return true })

// RemovePrompt returns the confirmation prompt for removing symbol.
func RemovePrompt(symbol string) string {
	return fmt.Sprintf(confirmRemoveFormat, symbol)
}

// Options holds the controller's collaborators.
type Options struct {
	Session        store.SessionStore
	Backend        Backend
	Source         Source
	Surface        Surface
	Scheduler      Scheduler
	Clock          Clock
	Renderer       view.Renderer
	Logger         zerolog.Logger
	AddReloadDelay time.Duration
}

// Controller owns one dashboard session.
type Controller struct {
	session  store.SessionStore
	backend  Backend
	source   Source
	surface  Surface
	sched    Scheduler
	clock    Clock
	renderer view.Renderer
	logger   zerolog.Logger
	delay    time.Duration

	mu       sync.Mutex
	state    State
	user     *models.User
	snapshot models.DashboardSnapshot
	stopped  bool
	poll     Task
	// pending holds reloads scheduled by AddTicker until they run.
	pending  map[uint64]Task
	reloadID uint64
}

// New creates a controller in the Loading state.
func New(opts Options) *Controller {
	c := &Controller{
		session:  opts.Session,
		backend:  opts.Backend,
		source:   opts.Source,
		surface:  opts.Surface,
		sched:    opts.Scheduler,
		clock:    opts.Clock,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		delay:    opts.AddReloadDelay,
		state:    StateLoading,
	}
	if c.source == nil {
		c.source = NewsSource{}
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.delay <= 0 {
		c.delay = DefaultReloadDelay
	}
	c.logger = c.logger.With().Str("component", "dashboard").Str("variant", c.source.Name()).Logger()
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the cached user, if any.
func (c *Controller) User() (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// Snapshot returns the last successfully loaded snapshot.
func (c *Controller) Snapshot() models.DashboardSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	logging.LogTransition(c.logger, c.state.String(), s.String())
	c.state = s
}

// live reports whether results should still be applied.
func (c *Controller) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && c.state != StateUnauthenticated
}

// Mount starts the session. Without a stored token it navigates to login
// and never contacts the backend.
func (c *Controller) Mount(ctx context.Context) error {
	token, ok, err := c.session.Get()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read session")
	}
	if err != nil || !ok || token == "" {
		c.mu.Lock()
		c.setStateLocked(StateUnauthenticated)
		c.stopped = true
		c.mu.Unlock()
		c.surface.Navigate(PageLogin)
		return apperrors.ErrNotAuthenticated
	}

	c.surface.ShowLoading(true)
	err = c.refresh(ctx)
	if apperrors.IsUnauthorized(err) {
		return apperrors.ErrSessionExpired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.state == StateUnauthenticated || c.poll != nil {
		return err
	}
	c.poll = c.sched.Every(c.source.Interval(), func() {
		_ = c.refresh(context.Background())
	})
	c.logger.Info().Dur("interval", c.source.Interval()).Msg("Auto-refresh scheduled")
	return err
}

// Refresh reloads the dashboard once.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// ManualRefresh reloads the dashboard with the refresh control marked busy.
func (c *Controller) ManualRefresh(ctx context.Context) error {
	c.surface.SetBusy(true)
	defer c.surface.SetBusy(false)
	return c.refresh(ctx)
}

// refresh fetches and renders one snapshot. Overlapping calls are allowed;
// whichever response arrives last is what stays on screen.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped || c.state == StateUnauthenticated {
		c.mu.Unlock()
		return nil
	}
	cached := c.user
	c.setStateLocked(StateLoading)
	c.mu.Unlock()

	start := c.clock.Now()
	user, snap, err := c.source.Load(ctx, c.backend, cached)
	duration := c.clock.Now().Sub(start)

	if !c.live() {
		c.logger.Debug().Msg("Discarding response after session ended")
		return nil
	}

	if apperrors.IsUnauthorized(err) {
		logging.LogRefresh(c.logger, c.source.Name(), 0, duration, err)
		c.expire()
		return err
	}

	c.surface.ShowLoading(false)
	if user != nil && cached == nil {
		c.mu.Lock()
		c.user = user
		c.mu.Unlock()
		c.surface.ShowUser(view.UserBadge(*user))
	}

	if err != nil {
		logging.LogRefresh(c.logger, c.source.Name(), 0, duration, err)
		c.mu.Lock()
		c.setStateLocked(StateReady)
		c.mu.Unlock()
		c.surface.ShowBanner(LoadFailedMessage)
		return err
	}

	c.mu.Lock()
	c.snapshot = snap
	c.setStateLocked(StateReady)
	c.mu.Unlock()
	c.surface.ShowDashboard(c.renderer.Dashboard(snap, c.clock.Now()))
	logging.LogRefresh(c.logger, c.source.Name(), len(snap), duration, nil)

	if rec, ok := c.session.(store.SyncRecorder); ok {
		if err := rec.SetLastSync(c.source.Name(), c.clock.Now()); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to record sync time")
		}
	}
	return nil
}

// AddTicker creates a ticker from raw input. Blank input is rejected
// without a request.
func (c *Controller) AddTicker(ctx context.Context, input string) error {
	symbol := models.NormalizeSymbol(input)
	if symbol == "" {
		err := apperrors.NewValidationError("symbol", input, EmptySymbolMessage)
		c.surface.ShowInline(EmptySymbolMessage, false)
		return err
	}
	if !c.live() {
		return apperrors.ErrSessionExpired
	}

	logger := logging.WithSymbol(c.logger, symbol)
	if _, err := c.backend.CreateTicker(ctx, symbol, symbol, models.TickerStock); err != nil {
		if apperrors.IsUnauthorized(err) {
			c.expire()
			return err
		}
		fallback := fmt.Sprintf(addFailedFormat, symbol)
		var ue *apperrors.UnreachableError
		if apperrors.As(err, &ue) {
			fallback = AddErrorMessage
		}
		logger.Warn().Err(err).Msg("Failed to add ticker")
		c.surface.ShowInline(apperrors.Reason(err, fallback), false)
		return err
	}

	logger.Info().Msg("Ticker added")
	c.surface.ShowInline(fmt.Sprintf(addedMessageFormat, symbol), true)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	if c.pending == nil {
		c.pending = make(map[uint64]Task)
	}
	c.reloadID++
	id := c.reloadID
	// The job takes c.mu, so it cannot drop its entry before it is stored.
	c.pending[id] = c.sched.After(c.delay, func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		c.surface.CloseAddTicker()
		_ = c.refresh(context.Background())
	})
	return nil
}

// RemoveTicker removes symbol after confirm approves. A declined prompt
// is a no-op, and so is a nil confirm.
func (c *Controller) RemoveTicker(ctx context.Context, symbol string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(RemovePrompt(symbol)) {
		return nil
	}
	if !c.live() {
		return apperrors.ErrSessionExpired
	}

	logger := logging.WithSymbol(c.logger, symbol)
	if err := c.backend.RemoveTicker(ctx, symbol); err != nil {
		if apperrors.IsUnauthorized(err) {
			c.expire()
			return err
		}
		fallback := fmt.Sprintf(removeFailedFormat, symbol)
		var ue *apperrors.UnreachableError
		if apperrors.As(err, &ue) {
			fallback = RemoveErrorMessage
		}
		logger.Warn().Err(err).Msg("Failed to remove ticker")
		c.surface.ShowBanner(apperrors.Reason(err, fallback))
		return err
	}

	logger.Info().Msg("Ticker removed")
	return c.refresh(ctx)
}

// Logout ends the session and returns to the login page.
func (c *Controller) Logout() error {
	c.mu.Lock()
	c.setStateLocked(StateUnauthenticated)
	c.stopTasksLocked()
	c.mu.Unlock()

	err := c.session.Clear()
	c.surface.Navigate(PageLogin)
	return err
}

// Stop cancels the periodic refresh and any pending reload. Responses
// arriving afterwards are discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTasksLocked()
}

func (c *Controller) stopTasksLocked() {
	c.stopped = true
	if c.poll != nil {
		c.poll.Stop()
		c.poll = nil
	}
	for _, t := range c.pending {
		t.Stop()
	}
	c.pending = nil
}

// expire is the single handler for a rejected token.
func (c *Controller) expire() {
	c.mu.Lock()
	if c.state == StateUnauthenticated {
		c.mu.Unlock()
		return
	}
	c.setStateLocked(StateUnauthenticated)
	c.stopTasksLocked()
	c.user = nil
	c.snapshot = nil
	c.mu.Unlock()

	c.logger.Warn().Msg("Session expired, returning to login")
	if err := c.session.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear session")
	}
	c.surface.Navigate(PageLogin)
}
