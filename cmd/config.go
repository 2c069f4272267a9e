package cmd

import (
	"github.com/shiroyk/crumb/lib/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var gen string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the configuration, or generate the default one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if gen != "" {
				return config.WriteConfig(gen)
			}
			bytes, err := yaml.Marshal(config.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bytes)
			return err
		},
	}
	cmd.Flags().StringVarP(&gen, "gen", "g", "", "generate default configuration file")
	return cmd
}
