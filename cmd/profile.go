package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user and their rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := a.dashboard(consoleNotifier{w: cmd.ErrOrStderr()})
			defer dash.Close()

			if err := dash.LoadProfile(cmd.Context()); err != nil {
				if errors.Is(err, api.ErrAuthRequired) || api.IsUnauthorized(err) {
					return errors.New("not signed in, run: rosca login")
				}
				return fmt.Errorf("failed to load profile: %s", api.Message(err))
			}

			snap := dash.Snapshot()
			out := cmd.OutOrStdout()
			if snap.User != nil {
				printUser(out, *snap.User, a.cfg.ServerBaseURL())
			}
			fmt.Fprintf(out, "\nMy rooms (%d)\n", len(snap.Rooms))
			return printRooms(out, snap.Rooms)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := media.OpenFile(args[0])
			if err != nil {
				return err
			}

			dash := a.dashboard(consoleNotifier{w: cmd.ErrOrStderr()})
			defer dash.Close()
			user, err := dash.UploadAvatar(cmd.Context(), file)
			if err != nil {
				return errors.New(api.Message(err))
			}
			printUser(cmd.OutOrStdout(), user, a.cfg.ServerBaseURL())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "type <host|user>",
		Short:     "Switch the account between host and regular user",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{api.UserTypeHost, api.UserTypeUser},
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.UpdateUserType(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, api.ErrInvalidUserType) {
					return err
				}
				return errors.New(api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account type is now %s\n", user.UserType)
			return nil
		},
	})

	return cmd
}
