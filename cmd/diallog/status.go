package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the wired components and the default engine.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(cmd.Context()) }()

			a.Summary.Render(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "default engine: %s\n", a.DefaultEngine())
			return nil
		},
	}
}
