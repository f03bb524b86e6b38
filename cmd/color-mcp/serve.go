package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/config"
	"github.com/ironsheep/color-tools-mcp/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		httpAddr string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Serve the color tools to an MCP client as JSON-RPC 2.0 over stdin/stdout,
one message per line. Logs go to stderr.

While serving, edits to the config file replace the default reference,
threshold and binning without a restart. Disable with --watch=false.

With --http the same tools are served over HTTP instead:
  GET  /healthz
  GET  /v1/tools
  POST /v1/tools/{name}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.classifier,
				server.WithLogger(a.logger),
				server.WithVersion(Version),
				server.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
			)

			if watch {
				a.watchConfig(srv)
			}

			if httpAddr != "" {
				return serveHTTP(ctx, a.logger, httpAddr, srv.HTTPHandler())
			}

			a.logger.Info("serving MCP on stdio", "version", Version)
			err := srv.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over HTTP on this address (e.g. :8080) instead of stdio")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the classifier when the config file changes")
	return cmd
}

// watchConfig swaps the server's classifier whenever the config file in use
// changes. An invalid edit is logged and the previous classifier kept.
func (a *app) watchConfig(srv *server.Server) {
	if a.v.ConfigFileUsed() == "" {
		return
	}
	a.v.OnConfigChange(func(e fsnotify.Event) {
		c, err := reloadClassifier(a.v)
		if err != nil {
			a.logger.Warn("ignoring config change", "file", e.Name, "err", err)
			return
		}
		srv.SetClassifier(c)
		opts := c.Options()
		a.logger.Info("configuration reloaded",
			"file", e.Name,
			"reference", opts.Reference.Hex(),
			"threshold", opts.Threshold,
			"bin_size", opts.BinSize,
		)
	})
	a.v.WatchConfig()
	a.logger.Debug("watching config", "file", a.v.ConfigFileUsed())
}

func reloadClassifier(v *viper.Viper) (*classify.Classifier, error) {
	cfg, err := config.Decode(v)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ClassifierOptions()
	if err != nil {
		return nil, err
	}
	return classify.New(opts)
}

// serveHTTP runs h on addr until ctx is done, then shuts down gracefully.
func serveHTTP(ctx context.Context, logger *slog.Logger, addr string, h http.Handler) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving HTTP", "addr", addr, "version", Version)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP server")
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}
