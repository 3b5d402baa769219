package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hfs/internal/config"
	herrors "github.com/vango-dev/hfs/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		herrors.PrintError(err)
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "hfs",
		Short: "A minimal HTTP/1.1 server with a first-match-wins router",
		Long: `hfs parses HTTP/1.1 requests off raw TCP connections, dispatches
them through an ordered table of path patterns, and writes the
handler's response back byte for byte.

Commands:
  serve     run the demo server and its admin listener
  routes    print the demo route table and any shadowed routes
  parse     parse a raw request from a file or stdin
  version   print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Config file (default: hfs.yaml, hfs.yml or hfs.json in the working directory)")

	rootCmd.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		parseCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the --config file, or the working directory's config
// file when the flag is empty. Defaults apply when neither exists.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.LoadOrDefault(".")
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
