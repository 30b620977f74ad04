package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2mushr00m/dialLog/app"
	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/media"
)

func newCacheCommand(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache.",
	}
	cmd.AddCommand(newCacheClearCommand(open), newCacheHasCommand(open))
	return cmd
}

func newCacheClearCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openCache(cmd, open)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(cmd.Context()) }()

			n, err := a.Cache.Len(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", n)
			return nil
		},
	}
}

func newCacheHasCommand(open openFunc) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "has <file>",
		Short: "Report whether a recording has a cached transcript.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCache(cmd, open)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(cmd.Context()) }()

			audio, err := a.Describe(args[0])
			if err != nil {
				return err
			}
			id, err := media.IdentityOf(a.Fs, audio)
			if err != nil {
				return err
			}
			key := id.Qualified(language)
			ok, err := a.Cache.Has(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %t %s\n", args[0], ok, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "language code the transcript was requested with")
	return cmd
}

func openCache(cmd *cobra.Command, open openFunc) (*app.App, error) {
	a, err := open(cmd)
	if err != nil {
		return nil, err
	}
	if a.Cache == nil {
		_ = a.Close(cmd.Context())
		return nil, errors.InvalidInput("cache.enabled", "cache is disabled")
	}
	return a, nil
}
