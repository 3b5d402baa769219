package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hfs/internal/admin"
	"github.com/vango-dev/hfs/internal/config"
	"github.com/vango-dev/hfs/pkg/server"
)

// serveFlags are command-line overrides for the config file.
type serveFlags struct {
	addr      string
	adminAddr string
	logLevel  string
	logFormat string
}

func serveCmd(root *rootOptions) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		Long: `Run the demo server and, when an admin address is configured,
the admin listener serving /metrics, /healthz and /routes.

Routes:
  POST    /echo          echo the body and count the hit
  GET     /hits          number of /echo hits so far
  GET     /users/:id     greet a numeric user id
  *       /files/*key    object store (only with files.backend set)
  OPTIONS /*any          list allowed methods

Examples:
  hfs serve
  hfs serve --addr=127.0.0.1:9000 --admin-addr=:9090
  hfs serve --config=prod.yaml --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&flags.adminAddr, "admin-addr", "", "Admin listen address (default from config)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format: text, json")

	return cmd
}

// apply copies the flags that were set onto cfg.
func (f *serveFlags) apply(cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Address = f.addr
	}
	if f.adminAddr != "" {
		cfg.Admin.Address = f.adminAddr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

// runServe runs the server, and the admin listener when configured,
// until ctx is cancelled or either of them fails.
func runServe(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	logger := newLogger(cfg.Log, logOut)
	slog.SetDefault(logger)

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	for _, w := range app.Validate() {
		logger.Warn("route table", "kind", w.Kind, "warning", w.Message)
	}

	srvConfig := server.DefaultConfig().
		WithAddress(cfg.Server.Address).
		WithTimeouts(cfg.Server.ReadTimeoutDuration(), cfg.Server.WriteTimeoutDuration()).
		WithShutdownTimeout(cfg.Server.ShutdownTimeoutDuration())
	srvConfig.LenientCookies = cfg.Parser.LenientCookies

	srv := server.New(app, srvConfig)
	srv.SetLogger(logger.With("component", "server"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	if cfg.Admin.Address != "" {
		running++
		adm := admin.New(app, admin.Options{Logger: logger})
		go func() {
			errCh <- adm.ListenAndServe(ctx, cfg.Admin.Address)
		}()
	}

	// The first failure stops the other listener.
	var firstErr error
	for i := 0; i < running; i++ {
		err := <-errCh
		if err != nil && !errors.Is(err, server.ErrServerClosed) && firstErr == nil {
			firstErr = err
		}
		cancel()
	}
	return firstErr
}
