package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"tickerdash/pkg/utils"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newExamplesCmd())
	rootCmd.AddCommand(newQuickstartCmd())
}

type commandEntry struct {
	cmd  string
	desc string
}

var commandCategories = []struct {
	name     string
	commands []commandEntry
}{
	{
		name: "Authentication",
		commands: []commandEntry{
			{"login", "Sign in and store the session token"},
			{"register", "Create an account"},
			{"logout", "Clear the stored session"},
			{"whoami", "Show the signed-in user"},
		},
	},
	{
		name: "Dashboard",
		commands: []commandEntry{
			{"dashboard", "Interactive auto-refreshing dashboard"},
			{"dashboard --simple", "Tickers-only dashboard (30s refresh)"},
			{"dashboard show", "Print the dashboard once"},
		},
	},
	{
		name: "Tickers",
		commands: []commandEntry{
			{"tickers list", "List tickers known to the backend"},
			{"tickers add <symbol>", "Add a ticker"},
			{"tickers remove <symbol>", "Remove a ticker"},
			{"tickers search <symbol>", "Look up one ticker"},
		},
	},
	{
		name: "News",
		commands: []commandEntry{
			{"news <symbol>", "Recent articles with sentiment"},
			{"insights <symbol>", "AI insights"},
			{"refresh <symbol>", "Fetch and analyze news now"},
		},
	},
	{
		name: "Utility",
		commands: []commandEntry{
			{"config show|path|validate", "Inspect configuration"},
			{"version", "Print version information"},
		},
	},
}

var noSetup = map[string]string{annotationNoSetup: "true"}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "commands",
		Short:       "List all commands by category",
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsStructured() {
				grouped := make(map[string][]string, len(commandCategories))
				for _, c := range commandCategories {
					for _, e := range c.commands {
						grouped[c.name] = append(grouped[c.name], e.cmd)
					}
				}
				return output.Data(grouped)
			}

			output.Bold("tickerdash Commands")
			output.Println()
			for _, c := range commandCategories {
				output.Bold("%s", c.name)
				for _, e := range c.commands {
					output.Printf("  %s %s\n", output.Paint(ToneAccent, utils.PadRight(e.cmd, 28)), e.desc)
				}
				output.Println()
			}
			return nil
		},
	}
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "examples",
		Short:       "Show common workflow examples",
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "First Run",
					commands: []string{
						"tickerdash register            # Create an account",
						"tickerdash login               # Sign in",
						"tickerdash tickers add AAPL    # Track a stock",
						"tickerdash tickers add BTC-USD --type crypto",
						"tickerdash dashboard           # Watch it update",
					},
				},
				{
					title: "Scripting",
					commands: []string{
						"tickerdash dashboard show --json      # Snapshot as JSON",
						"tickerdash news AAPL --limit 5 --yaml # Articles as YAML",
						"tickerdash tickers remove AAPL --yes  # No prompt",
					},
				},
			}

			for _, ex := range examples {
				output.Bold("%s", ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Paint(ToneAccent, strings.TrimSpace(parts[0])), output.Paint(ToneMuted, strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Paint(ToneAccent, c))
					}
				}
				output.Println()
			}
			return nil
		},
	}
}

func newQuickstartCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "quickstart",
		Short:       "New user guide",
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("tickerdash - Quick Start Guide")
			output.Println()

			steps := []struct {
				title string
				desc  string
				cmd   string
			}{
				{"Point at your backend", "Set server.base_url in config.toml or TICKERDASH_BASE_URL.", "tickerdash config path"},
				{"Sign in", "Your token is stored in the session store (file by default).", "tickerdash login"},
				{"Add tickers", "Stocks use exchange symbols, crypto uses pairs like BTC-USD.", "tickerdash tickers add AAPL"},
				{"Open the dashboard", "Press r to refresh, a to add, d to remove, q to quit.", "tickerdash dashboard"},
			}

			for i, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Paint(ToneAccent, "→"), i+1, output.Paint(ToneStrong, s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.Paint(ToneMuted, s.cmd))
			}

			output.Bold("Configuration Files")
			output.Printf("  %s - server, dashboard, session and logging settings\n", output.Paint(ToneAccent, "config.toml"))
			output.Printf("  %s - optional TICKERDASH_* overrides\n", output.Paint(ToneAccent, ".env"))
			return nil
		},
	}
}
