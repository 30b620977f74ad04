package main

import (
	"github.com/spf13/cobra"

	"github.com/2mushr00m/dialLog/app"
	"github.com/2mushr00m/dialLog/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
}

// NewRootCommand returns the root command with all subcommands attached.
// appOpts are passed to every App the subcommands build.
func NewRootCommand(appOpts ...app.Option) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "diallog",
		Short: "Transcribe call recordings.",
		Long: `diallog transcribes call recordings. It probes a short snippet to detect the
spoken language, sends Korean calls to CLOVA Speech and everything else to
Google Speech-to-Text, and caches results by media identity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: search ., ./config, $HOME/.diallog)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", ".env file to load")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.level")

	open := func(cmd *cobra.Command) (*app.App, error) {
		return openApp(cmd, flags, appOpts)
	}
	rootCmd.AddCommand(newTranscribeCommand(open))
	rootCmd.AddCommand(newCacheCommand(open))
	rootCmd.AddCommand(newAuthCommand(open))
	rootCmd.AddCommand(newStatusCommand(open))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

type openFunc func(cmd *cobra.Command) (*app.App, error)

func openApp(cmd *cobra.Command, flags *globalFlags, appOpts []app.Option) (*app.App, error) {
	var opts []config.LoaderOption
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return app.New(cmd.Context(), cfg, appOpts...)
}
