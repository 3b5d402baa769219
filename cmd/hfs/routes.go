package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Print the demo server's route table in dispatch order, followed by
any duplicate or shadowed routes. Earlier routes win.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tMETHOD\tPATTERN")
			for _, info := range app.Routes() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", info.Index, info.Method, info.Pattern)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, w := range app.Validate() {
				warn(out, "%s", w)
			}
			return nil
		},
	}
}
