package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2mushr00m/dialLog/errors"
)

func newAuthCommand(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Service account utilities.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "token",
		Short: "Exchange a token and print its expiry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(cmd.Context()) }()
			if a.Tokens == nil {
				return errors.InvalidInput("auth.service_account_file", "is not configured")
			}
			if _, err := a.Tokens.Token(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token for %s expires %s\n", a.Tokens.Email(), a.Tokens.Expiry().Format(time.RFC3339))
			return nil
		},
	})
	return cmd
}
