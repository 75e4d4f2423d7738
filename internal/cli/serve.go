package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazorkit/lazor/internal/api"
	"github.com/lazorkit/lazor/pkg/store"
)

// shutdownTimeout bounds graceful shutdown on interrupt.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // HTTP listen address
	mongoURI string // MongoDB URI for the run archive
	noCache  bool   // disable the result cache
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes the solve pipeline under /api and archives every run.
Runs are archived in MongoDB when a URI is configured (config file or
--mongo-uri); otherwise an in-memory archive is used and runs are lost on
restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for the run archive")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the server from config and flags and runs it until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.mongoURI != "" {
		cfg.Server.MongoURI = opts.mongoURI
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	runs, err := newRunStore(ctx, cfg.Server.MongoURI, cfg.Server.MongoDatabase, c)
	if err != nil {
		return fmt.Errorf("initialize run archive: %w", err)
	}
	defer runs.Close(context.Background())

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewServer(runner, runs, c.Logger).Router(),
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRunStore selects the run archive backend.
func newRunStore(ctx context.Context, mongoURI, database string, c *CLI) (store.Store, error) {
	if mongoURI == "" {
		c.Logger.Warn("no MongoDB URI configured; runs are archived in memory only")
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, mongoURI, database)
}
