package cmd

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/lib/config"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrCookieNotFound the cookie does not exist in the store.
var ErrCookieNotFound = errors.New("cookie not found")

type writeFlags struct {
	expires int
	domain  string
	path    string
	secure  bool
	raw     bool
}

func (f *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.expires, "expires", "e", 0, "expire after days, 0 uses the configured default")
	cmd.Flags().StringVar(&f.domain, "domain", "", "cookie domain")
	cmd.Flags().StringVar(&f.path, "path", "", "cookie path")
	cmd.Flags().BoolVar(&f.secure, "secure", false, "set the secure flag")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "write the value without percent-encoding")
}

// options merges the flags that were set over the configured defaults.
func (f *writeFlags) options(cmd *cobra.Command, defaults config.Cookie) crumb.Options {
	opt := defaults.Options()
	flags := cmd.Flags()
	if flags.Changed("expires") && f.expires != 0 {
		opt.Expires = crumb.Days(f.expires)
	}
	if flags.Changed("domain") {
		opt.Domain = f.domain
	}
	if flags.Changed("path") {
		opt.Path = f.path
	}
	if flags.Changed("secure") {
		opt.Secure = f.secure
	}
	if flags.Changed("raw") {
		opt.Raw = f.raw
	}
	return opt
}

func newGetCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "print the value of a cookie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCodec(cmd, func(codec *crumb.Codec, _ config.Config) error {
				value, ok, err := codec.Lookup(args[0], crumb.Options{Raw: raw})
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s", ErrCookieNotFound, args[0])
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the value without percent-decoding")
	return cmd
}

func newSetCmd() *cobra.Command {
	flags := new(writeFlags)
	cmd := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "write a cookie and print the directive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCodec(cmd, func(codec *crumb.Codec, cfg config.Config) error {
				directive, err := codec.Set(args[0], args[1], flags.options(cmd, cfg.Cookie))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), directive)
				return err
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	flags := new(writeFlags)
	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm", "del"},
		Short:   "expire a cookie and print the directive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCodec(cmd, func(codec *crumb.Codec, cfg config.Config) error {
				directive, err := codec.Remove(args[0], flags.options(cmd, cfg.Cookie))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), directive)
				return err
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		raw   bool
		match string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "print all cookies as name=value lines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var re *regexp2.Regexp
			if match != "" {
				var err error
				if re, err = regexp2.Compile(match, regexp2.ECMAScript); err != nil {
					return err
				}
			}
			return withCodec(cmd, func(codec *crumb.Codec, _ config.Config) error {
				jar := codec.All(crumb.Options{Raw: raw})
				names := maps.Keys(jar)
				slices.Sort(names)
				for _, name := range names {
					if re != nil {
						ok, err := re.MatchString(name)
						if err != nil {
							return err
						}
						if !ok {
							continue
						}
					}
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, jar[name]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print values without percent-decoding")
	cmd.Flags().StringVarP(&match, "match", "m", "", "only names matching the ECMAScript regular expression")
	return cmd
}

func newParseCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "parse COOKIE",
		Short: "parse a cookie header string and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputJSON(cmd, crumb.Parse(args[0], !raw))
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "keep values percent-encoded")
	return cmd
}
