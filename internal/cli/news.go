package cli

import (
	"time"

	"github.com/spf13/cobra"

	"tickerdash/internal/security"
	"tickerdash/internal/view"
	"tickerdash/pkg/utils"
)

// addNewsCommands adds per-ticker news and insight commands.
func addNewsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newInsightsCmd(app))
	rootCmd.AddCommand(newRefreshCmd(app))
}

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news <symbol>",
		Short: "Show recent articles for a ticker",
		Example: `  tickerdash news AAPL
  tickerdash news AAPL --limit 5 --provider yahoo`,
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

			limit, _ := cmd.Flags().GetInt("limit")
			provider, _ := cmd.Flags().GetString("provider")
			articles, err := app.Client.TickerNews(ctx, symbol, limit, provider)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(articles)
			}
			if len(articles) == 0 {
				output.Dim(view.NoNewsMessage)
				return nil
			}

			now := time.Now()
			renderer := view.New(app.Config.UI.DateFormat)
			output.Bold("%s · %s", symbol, utils.Plural(len(articles), "article"))
			table := NewTable(output, "PUBLISHED", "PROVIDER", "SENTIMENT", "TITLE")
			for _, a := range articles {
				sentiment := "-"
				if a.SentimentScore != nil {
					sentiment = output.Sentiment(utils.FormatScore(a.SentimentScore), a.SentimentScore)
				}
				table.AddRow(
					renderer.RelativeTime(a.PublishedAt.Time, now),
					a.Provider(),
					sentiment,
					utils.TruncateString(a.Title, 60),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of articles")
	cmd.Flags().String("provider", "", "only show articles from this provider")
	return cmd
}

func newInsightsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights <symbol>",
		Short: "Show AI insights for a ticker",
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

			limit, _ := cmd.Flags().GetInt("limit")
			insights, err := app.Client.TickerInsights(ctx, symbol, limit)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(insights)
			}
			if len(insights) == 0 {
				output.Dim(view.NoInsightsMessage)
				return nil
			}

			for _, in := range insights {
				lines := []string{utils.TruncateString(in.Content, 76)}
				meta := "Confidence " + utils.FormatConfidence(in.ConfidenceScore)
				if in.Sentiment != "" {
					meta += " · " + in.Sentiment
				}
				if in.SourcesAnalyzed != nil && *in.SourcesAnalyzed > 0 {
					meta += " · " + utils.Plural(*in.SourcesAnalyzed, "source")
				}
				lines = append(lines, meta)
				output.Box(in.InsightType, lines)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "maximum number of insights")
	return cmd
}

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <symbol>",
		Short: "Ask the backend to fetch and analyze news now",
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

			resp, err := app.Client.RefreshTickerNews(ctx, symbol)
			if err != nil {
				return app.check(err)
			}

			if output.IsStructured() {
				return output.Data(resp)
			}
			if resp.Message == "" {
				resp.Message = "Refresh requested for " + symbol
			}
			output.Success("✓ %s", resp.Message)
			return nil
		},
	}
}
