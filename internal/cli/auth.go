package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tickerdash/internal/config"
	"tickerdash/internal/tui"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newRegisterCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newWhoamiCmd(app))
}

// promptFields fills empty values through the terminal form. Flags that are
// already set are passed through untouched.
func promptFields(title string, fields []tui.Field) ([]string, error) {
	missing := false
	for _, f := range fields {
		if f.Value == "" {
			missing = true
			break
		}
	}
	if !missing {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = f.Value
		}
		return values, nil
	}
	return tui.Form(title, fields)
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with your username and password.

Missing credentials are asked for interactively; the password is never
echoed. The access token is kept in the configured session store.`,
		Example: `  tickerdash login
  tickerdash login -u alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			values, err := promptFields("Sign in", []tui.Field{
				{Label: "Username", Value: username},
				{Label: "Password", Value: password, Secret: true},
			})
			if err != nil {
				return err
			}

			if _, err := app.Auth.Login(ctx, values[0], values[1]); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Data(map[string]interface{}{"logged_in": true, "username": strings.TrimSpace(values[0])})
			}
			output.Success("✓ Login successful!")
			return nil
		},
	}

	cmd.Flags().StringP("username", "u", "", "username")
	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account on the backend.

Registration does not sign you in; run 'tickerdash login' afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			email, _ := cmd.Flags().GetString("email")
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			values, err := promptFields("Create account", []tui.Field{
				{Label: "Email", Value: email},
				{Label: "Username", Value: username},
				{Label: "Password", Value: password, Secret: true},
			})
			if err != nil {
				return err
			}

			msg, err := app.Auth.Register(ctx, values[0], values[1], values[2])
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Data(map[string]interface{}{"registered": true, "message": msg})
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}

	cmd.Flags().StringP("email", "e", "", "email address")
	cmd.Flags().StringP("username", "u", "", "username")
	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if _, err := app.Auth.Logout(); err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Data(map[string]bool{"logged_out": true})
			}
			output.Success("✓ Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := app.requestContext(cmd)
			defer cancel()

			_, user, err := app.Auth.Resume(ctx)
			if err != nil {
				return sessionHint(err)
			}

			if output.IsStructured() {
				return output.Data(user)
			}
			now := time.Now()
			output.Box("Signed in", []string{
				"Username:     " + user.Username,
				"Email:        " + user.Email,
				"News sync:    " + app.lastSync(config.VariantNews, now),
				"Tickers sync: " + app.lastSync(config.VariantSimple, now),
			})
			return nil
		},
	}
}
