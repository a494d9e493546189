package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tickerdash/internal/config"
	"tickerdash/internal/dashboard"
	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/models"
	"tickerdash/internal/tui"
	"tickerdash/internal/view"
)

const showWidth = 100

// addDashboardCommands adds the interactive and one-shot dashboard.
func addDashboardCommands(rootCmd *cobra.Command, app *App) {
	cmd := newDashboardCmd(app)
	cmd.AddCommand(newDashboardShowCmd(app))
	rootCmd.AddCommand(cmd)
}

// dashboardConfig applies the --simple and --hours overrides to a copy of
// the loaded config.
func dashboardConfig(cmd *cobra.Command, base *config.Config) *config.Config {
	cfg := *base
	if simple, _ := cmd.Flags().GetBool("simple"); simple {
		cfg.Dashboard.Variant = config.VariantSimple
	}
	if hours, _ := cmd.Flags().GetInt("hours"); hours > 0 {
		cfg.Dashboard.NewsWindowHours = hours
	}
	return &cfg
}

func addVariantFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("simple", false, "use the tickers-only dashboard")
	cmd.Flags().Int("hours", 0, "news window in hours (default from config)")
}

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the auto-refreshing dashboard.

The news variant refreshes every 2 minutes and shows AI insights and
recent articles per ticker; the simple variant refreshes every 30 seconds
and lists tickers only.

Keys: r refresh, a add ticker, d remove selected, j/k select, L logout, q quit.`,
		Annotations: map[string]string{annotationQuietConsole: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			cfg := dashboardConfig(cmd, app.Config)

			sched := dashboard.NewCronScheduler(app.Logger)
			defer sched.Stop()

			bridge := tui.NewBridge()
			ctrl := dashboard.New(dashboard.Options{
				Session:        app.Store,
				Backend:        app.Client,
				Source:         dashboard.SourceFor(cfg),
				Surface:        bridge,
				Scheduler:      sched,
				Renderer:       view.New(cfg.UI.DateFormat),
				Logger:         app.Logger,
				AddReloadDelay: cfg.Dashboard.AddReloadDelay,
			})

			err := tui.Run(cmd.Context(), ctrl, bridge, tui.Options{
				BannerDuration: cfg.Dashboard.BannerDuration,
				Title:          "tickerdash · " + cfg.Dashboard.Variant,
			})
			return sessionHint(err)
		},
	}
	addVariantFlags(cmd)
	return cmd
}

// captureSurface keeps the last output of a single controller refresh.
type captureSurface struct {
	user   *view.Node
	board  *view.Node
	banner string
	page   string
}

func (s *captureSurface) ShowUser(n *view.Node)      { s.user = n }
func (s *captureSurface) ShowDashboard(n *view.Node) { s.board = n }
func (s *captureSurface) ShowLoading(bool)           {}
func (s *captureSurface) ShowBanner(msg string)      { s.banner = msg }
func (s *captureSurface) ShowInline(string, bool)    {}
func (s *captureSurface) SetBusy(bool)               {}
func (s *captureSurface) CloseAddTicker()            {}
func (s *captureSurface) Navigate(page string)       { s.page = page }

type dashboardReport struct {
	User     *models.User             `json:"user,omitempty"`
	Variant  string                   `json:"variant"`
	SyncedAt time.Time                `json:"synced_at"`
	Tickers  models.DashboardSnapshot `json:"tickers"`
}

func newDashboardShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard once and exit",
		Example: `  tickerdash dashboard show
  tickerdash dashboard show --hours 48 --json
  tickerdash dashboard show --simple`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			cfg := dashboardConfig(cmd, app.Config)

			// A manual scheduler never fires, so Mount is a single refresh.
			surface := &captureSurface{}
			ctrl := dashboard.New(dashboard.Options{
				Session:   app.Store,
				Backend:   app.Client,
				Source:    dashboard.SourceFor(cfg),
				Surface:   surface,
				Scheduler: dashboard.NewManualScheduler(),
				Renderer:  view.New(cfg.UI.DateFormat),
				Logger:    app.Logger,
			})
			defer ctrl.Stop()

			if err := ctrl.Mount(ctx); err != nil {
				if surface.banner != "" && !apperrors.IsUnauthorized(err) {
					return fmt.Errorf("%s: %w", surface.banner, err)
				}
				return sessionHint(err)
			}

			if output.IsStructured() {
				report := dashboardReport{
					Variant:  cfg.Dashboard.Variant,
					SyncedAt: app.Store.GetLastSync(cfg.Dashboard.Variant),
					Tickers:  ctrl.Snapshot(),
				}
				if u, ok := ctrl.User(); ok {
					report.User = &u
				}
				if report.Tickers == nil {
					report.Tickers = models.DashboardSnapshot{}
				}
				return output.Data(report)
			}

			for _, n := range []*view.Node{surface.user, surface.board} {
				if n == nil {
					continue
				}
				if output.ColorEnabled() {
					output.Println(tui.RenderNode(n, showWidth, ""))
				} else {
					output.Println(strings.TrimRight(n.PlainText(), "\n"))
				}
			}
			output.Dim("Synced %s", app.lastSync(cfg.Dashboard.Variant, time.Now()))
			return nil
		},
	}
	addVariantFlags(cmd)
	return cmd
}
