package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/js"
	"github.com/shiroyk/crumb/lib/config"
	"github.com/spf13/cobra"
)

// DefaultTimeout the default script timeout
const DefaultTimeout = time.Minute

func newRunCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "run a JavaScript file with the global cookie object, - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var bytes []byte
			if args[0] == "-" {
				bytes, err = io.ReadAll(cmd.InOrStdin())
			} else {
				bytes, err = os.ReadFile(args[0]) //nolint:gosec
			}
			if err != nil {
				return
			}

			return withCodec(cmd, func(codec *crumb.Codec, _ config.Config) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()

				value, err := js.NewVM(codec, slog.Default()).RunString(ctx, string(bytes))
				if err != nil {
					return err
				}
				if value == nil {
					return nil
				}
				return outputJSON(cmd, value)
			})
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", DefaultTimeout, "run timeout")
	return cmd
}
