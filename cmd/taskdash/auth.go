package main

import (
	"errors"
	"fmt"

	"github.com/ichigozero/taskdash/view"
	"github.com/spf13/cobra"
)

func registerCmd(a *app) *cobra.Command {
	var form view.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := view.NewRegister(a.client.Auth, a.session, a.ui, a.logger)
			c.Form = form
			if c.Form.Password == "" {
				c.Form.Password = a.ui.Prompt("Password")
			}
			return c.Submit(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, prompted for when empty")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var form view.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := view.NewLogin(a.client.Auth, a.session, a.ui, a.logger)
			c.Form = form
			if c.Form.Password == "" {
				c.Form.Password = a.ui.Prompt("Password")
			}
			return c.Submit(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, prompted for when empty")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.SignOut(); err != nil {
				return err
			}
			a.ui.Navigate(view.RouteLogin)
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user ID found in the session token",
		Long: `Print the user ID found in the session token.

The token is decoded locally and not verified, so the ID is only what the
token claims. The API checks the token on every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := view.CurrentUser(a.session)
			if !ok {
				a.ui.Alert("You are not logged in!")
				return errors.New("no session")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
}
