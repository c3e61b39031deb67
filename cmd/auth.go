package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Signs in to the Rosca API and stores the session token for later commands.

The password is asked for when --password is not given.`,
		Example: `  rosca login --email host@example.com
  rosca login google
  rosca login token <jwt>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email, err = p.valueOr(email, "Email: "); err != nil {
				return err
			}
			if password, err = p.valueOr(password, "Password: "); err != nil {
				return err
			}

			user, err := a.client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %s", api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	cmd.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Print the Google sign-in URL",
		Long: `Prints the URL that starts Google sign-in. After signing in in the
browser, pass the token from the redirect to "rosca login token".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.client.GoogleAuthURL(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get Google sign-in URL: %s", api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "token <token>",
		Short: "Sign in with a token from the Google redirect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.CompleteGoogleLogin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("login failed: %s", api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.DisplayName())
			return nil
		},
	})

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg api.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Creates an account on the Rosca API. Sign in with "rosca login" afterwards.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if reg.Email, err = p.valueOr(reg.Email, "Email: "); err != nil {
				return err
			}
			if reg.Password, err = p.valueOr(reg.Password, "Password: "); err != nil {
				return err
			}

			if err := a.client.Register(cmd.Context(), reg); err != nil {
				return fmt.Errorf("signup failed: %s", api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Sign in with: rosca login --email "+reg.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "Account password")

	return cmd
}
