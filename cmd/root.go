package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/lib/config"
	"github.com/shiroyk/crumb/lib/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd returns the crumb command with all sub commands.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	rootCmd := &cobra.Command{
		Use:          "crumb",
		Short:        "crumb reads and writes cookies of a cookie store.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(logger.NewConsoleHandler(cmd.ErrOrStderr(), level)))

			cfg, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(config.NewContext(cmd.Context(), *cfg))
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "output the debug log")
	rootCmd.SetContext(context.Background())

	rootCmd.AddCommand(
		newGetCmd(),
		newSetCmd(),
		newRemoveCmd(),
		newListCmd(),
		newParseCmd(),
		newRunCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// withCodec opens the configured store and calls fn with a codec over it.
func withCodec(cmd *cobra.Command, fn func(*crumb.Codec, config.Config) error) error {
	cfg := config.FromContext(cmd.Context())
	store, closeStore, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", err)
		}
	}()
	return fn(crumb.NewCodec(store), cfg)
}

func outputJSON(cmd *cobra.Command, data any) error {
	bytes, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
	return err
}
