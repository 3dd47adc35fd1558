package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hszk-dev/vidshare/internal/session"
)

var errNoSession = errors.New("no session in command context")

func sessionFrom(cmd *cobra.Command) (*session.Session, error) {
	s, ok := session.FromContext(cmd.Context())
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			u, ok, err := s.User(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", u.Username, u.AccountID)
			return err
		},
	}
}

func newLoginCmd() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Remember a user for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if accountID == "" {
				accountID = uuid.NewString()
			}
			u := session.User{AccountID: accountID, Username: args[0]}
			if err := s.Login(cmd.Context(), u); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", u.Username)
			return err
		},
	}
	cmd.Flags().StringVar(&accountID, "account-id", "", "account id to store (generated when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return err
		},
	}
}
