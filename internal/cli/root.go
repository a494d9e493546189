// Package cli provides the command-line interface for the dashboard client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tickerdash/internal/api"
	"tickerdash/internal/config"
	"tickerdash/internal/dashboard"
	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/logging"
	"tickerdash/internal/store"
	"tickerdash/internal/view"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationNoSetup marks commands that run without config or session.
	annotationNoSetup = "tickerdash/no-setup"
	// annotationQuietConsole keeps console logs off a full-screen UI.
	annotationQuietConsole = "tickerdash/quiet-console"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Client *api.Client
	Auth   *dashboard.Authenticator
}

// Close releases the session store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

func (a *App) setup(cmd *cobra.Command) error {
	if cmd.Annotations[annotationNoSetup] == "true" {
		return nil
	}

	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	a.Config = cfg

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console && cmd.Annotations[annotationQuietConsole] != "true"
	logCfg.File = cfg.Logging.File
	logCfg.FilePath = cfg.LogPath()
	logCfg.Out = cmd.ErrOrStderr()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	a.Logger = logging.NewLoggerWithConfig(logCfg)

	ds, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	a.Store = ds
	a.Logger.Debug().Str("backend", cfg.Session.Backend).Str("path", cfg.SessionPath()).Msg("Session store opened")

	a.Client = api.NewClient(cfg.Server.BaseURL, ds,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(a.Logger),
	)
	a.Auth = dashboard.NewAuthenticator(a.Client, ds, a.Logger)
	return nil
}

// output builds the command's Output, honoring ui.color_enabled.
func (a *App) output(cmd *cobra.Command) *Output {
	o := NewOutput(cmd)
	if a.Config != nil && !a.Config.UI.ColorEnabled {
		o.DisableColor()
	}
	return o
}

// requireSession fails early when no token is stored.
func (a *App) requireSession() error {
	token, ok, err := a.Store.Get()
	if err != nil {
		return err
	}
	if !ok || token == "" {
		return sessionHint(apperrors.ErrNotAuthenticated)
	}
	return nil
}

// check turns a 401 into a cleared session and a re-login hint.
func (a *App) check(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsUnauthorized(err) {
		if cerr := a.Store.Clear(); cerr != nil {
			a.Logger.Error().Err(cerr).Msg("Failed to clear session")
		}
		return sessionHint(apperrors.ErrSessionExpired)
	}
	return err
}

// sessionHint adds the next step to session errors.
func sessionHint(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrSessionExpired):
		return fmt.Errorf("%w. Please login again", err)
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return fmt.Errorf("%w: run 'tickerdash login' first", err)
	default:
		return err
	}
}

// lastSync reports when the variant last loaded successfully.
func (a *App) lastSync(variant string, now time.Time) string {
	t := a.Store.GetLastSync(variant)
	if t.IsZero() {
		return "never"
	}
	return view.RelativeTime(t, now)
}

// requestContext bounds one-shot commands by the configured timeout.
func (a *App) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, a.Logger)
	if a.Config != nil && a.Config.Server.Timeout > 0 {
		// Leave room for the client timeout to fire first.
		return context.WithTimeout(ctx, a.Config.Server.Timeout+5*time.Second)
	}
	return context.WithCancel(ctx)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

// Execute runs the CLI and releases resources afterwards.
func Execute(ctx context.Context) error {
	cmd, app := newRoot()
	defer app.Close()
	return cmd.ExecuteContext(ctx)
}

func newRoot() (*cobra.Command, *App) {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "tickerdash",
		Short: "Ticker news dashboard for the terminal",
		Long: `tickerdash is a terminal client for a ticker news backend.

Track stocks and crypto tickers and follow their AI insights, news
articles and sentiment from an auto-refreshing dashboard.

Use 'tickerdash login' to sign in and 'tickerdash dashboard' to start.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tickerdash)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addDashboardCommands(rootCmd, app)
	addTickerCommands(rootCmd, app)
	addNewsCommands(rootCmd, app)
	addHelpCommands(rootCmd)

	return rootCmd, app
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Data(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("tickerdash v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Data(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Data(map[string]string{"path": app.Config.Dir})
			}
			output.Println(app.Config.Dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load already validated; re-run so the command reads as a check.
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Data(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Server")
	output.Printf("  Base URL:        %s\n", cfg.Server.BaseURL)
	output.Printf("  Timeout:         %s\n", cfg.Server.Timeout)
	output.Println()

	output.Bold("Dashboard")
	output.Printf("  Variant:         %s\n", cfg.Dashboard.Variant)
	output.Printf("  News Window:     %dh\n", cfg.Dashboard.NewsWindowHours)
	output.Printf("  Refresh Every:   %s\n", cfg.RefreshInterval())
	output.Printf("  Add Reload:      %s\n", cfg.Dashboard.AddReloadDelay)
	output.Printf("  Banner:          %s\n", cfg.Dashboard.BannerDuration)
	output.Println()

	output.Bold("Session")
	output.Printf("  Backend:         %s\n", cfg.Session.Backend)
	output.Printf("  Path:            %s\n", cfg.SessionPath())
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %s\n", cfg.LogPath())
}
