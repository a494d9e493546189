package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tickerdash/internal/dashboard"
	"tickerdash/internal/models"
	"tickerdash/internal/security"
	"tickerdash/internal/view"
)

// addTickerCommands adds ticker management commands.
func addTickerCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "tickers",
		Aliases: []string{"ticker"},
		Short:   "Manage tracked tickers",
	}
	cmd.AddCommand(newTickersListCmd(app))
	cmd.AddCommand(newTickersAddCmd(app))
	cmd.AddCommand(newTickersTrackCmd(app))
	cmd.AddCommand(newTickersRemoveCmd(app))
	cmd.AddCommand(newTickersSearchCmd(app))
	rootCmd.AddCommand(cmd)
}

func formatAdded(ts *models.Timestamp, now time.Time) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return view.RelativeTime(ts.Time, now)
}

func newTickersListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "all"},
		Short:   "List every ticker known to the backend",
		Example: `  tickerdash tickers list --limit 20
  tickerdash tickers list --mine`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			var tickers []models.Ticker
			var err error
			if mine, _ := cmd.Flags().GetBool("mine"); mine {
				tickers, err = app.Client.DashboardTickers(ctx)
			} else {
				skip, _ := cmd.Flags().GetInt("skip")
				limit, _ := cmd.Flags().GetInt("limit")
				tickers, err = app.Client.AllTickers(ctx, skip, limit)
			}
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(tickers)
			}
			if len(tickers) == 0 {
				output.Dim("No tickers found")
				return nil
			}

			now := time.Now()
			table := NewTable(output, "SYMBOL", "NAME", "TYPE", "ADDED")
			for _, t := range tickers {
				table.AddRow(t.Symbol, t.Name, string(t.Type), formatAdded(t.CreatedAt, now))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Int("skip", 0, "number of tickers to skip")
	cmd.Flags().Int("limit", 100, "maximum number of tickers to return")
	cmd.Flags().Bool("mine", false, "only tickers on your dashboard")
	return cmd
}

func newTickersAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Add a ticker to your dashboard",
		Example: `  tickerdash tickers add AAPL
  tickerdash tickers add BTC-USD --type crypto --name Bitcoin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			symbol, err := security.ValidateSymbol(args[0])
			if err != nil {
				return err
			}
			typeFlag, _ := cmd.Flags().GetString("type")
			typ, ok := models.ParseTickerType(typeFlag)
			if !ok {
				return fmt.Errorf("invalid ticker type %q (must be 'stock' or 'crypto')", typeFlag)
			}
			name, _ := cmd.Flags().GetString("name")
			if strings.TrimSpace(name) == "" {
				name = symbol
			}

			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			ticker, err := app.Client.CreateTicker(ctx, symbol, name, typ)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(ticker)
			}
			output.Success("✓ %s added successfully!", ticker.Symbol)
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name (defaults to the symbol)")
	cmd.Flags().String("type", string(models.TickerStock), "ticker type: stock or crypto")
	return cmd
}

func newTickersTrackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "track <symbol>",
		Short: "Put a ticker the backend already knows on your dashboard",
		Long: `Attach an existing ticker to your dashboard.

Use this when 'tickers add' reports that the ticker already exists because
another user created it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			symbol, err := security.ValidateSymbol(args[0])
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			ticker, err := app.Client.AddToDashboard(ctx, symbol)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(ticker)
			}
			output.Success("✓ %s is now on your dashboard", ticker.Symbol)
			return nil
		},
	}
}

// confirmFromReader asks on w and reads a y/yes answer from r.
func confirmFromReader(r io.Reader, w io.Writer) dashboard.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(w, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func newTickersRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <symbol>",
		Aliases: []string{"rm"},
		Short:   "Remove a ticker from your dashboard",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			symbol, err := security.ValidateSymbol(args[0])
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}

			var confirm dashboard.Confirmer = dashboard.Always
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				confirm = confirmFromReader(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if !confirm.Confirm(dashboard.RemovePrompt(symbol)) {
				output.Dim("Cancelled")
				return nil
			}

			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			if err := app.Client.RemoveTicker(ctx, symbol); err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(map[string]string{"removed": symbol})
			}
			output.Success("✓ %s removed", symbol)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newTickersSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <symbol>",
		Short: "Look up a ticker by symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			symbol, err := security.ValidateSymbol(args[0])
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			ticker, err := app.Client.SearchTicker(ctx, symbol)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(ticker)
			}
			output.Box(ticker.Symbol, []string{
				"Name:  " + ticker.Name,
				"Type:  " + string(ticker.Type),
				"Added: " + formatAdded(ticker.CreatedAt, time.Now()),
			})
			return nil
		},
	}
}
