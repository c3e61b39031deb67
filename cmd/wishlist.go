package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
)

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show your saved rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := a.client.Wishlist(cmd.Context())
			if err != nil {
				return errors.New(api.Message(err))
			}
			return printRooms(cmd.OutOrStdout(), rooms)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <room-id>",
		Short: "Save a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.AddToWishlist(cmd.Context(), args[0]); err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added to wishlist")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <room-id>",
		Short: "Remove a saved room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.RemoveFromWishlist(cmd.Context(), args[0]); err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed from wishlist")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <room-id>",
		Short: "Tell whether a room is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.client.InWishlist(cmd.Context(), args[0])
			if err != nil {
				return errors.New(api.Message(err))
			}
			if saved {
				fmt.Fprintln(cmd.OutOrStdout(), "Saved")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not saved")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <room-id>",
		Short: "Save a room, or remove it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.client.InWishlist(cmd.Context(), args[0])
			if err != nil {
				return errors.New(api.Message(err))
			}
			saved, err = a.client.ToggleWishlist(cmd.Context(), args[0], saved)
			if err != nil {
				return errors.New(api.Message(err))
			}
			if saved {
				fmt.Fprintln(cmd.OutOrStdout(), "Added to wishlist")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Removed from wishlist")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every saved room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.ClearWishlist(cmd.Context()); err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wishlist cleared")
			return nil
		},
	})

	return cmd
}
