package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pivotreport/internal/api"
	"pivotreport/internal/config"
	"pivotreport/internal/engine"
	"pivotreport/internal/logging"
)

type options struct {
	configPath string
	addr       string
	dataFiles  []string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "server",
		Short:        "Serve pivot reports over a transaction dataset",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "pivotreport.yaml", "path to the YAML config file")
	root.PersistentFlags().StringSliceVar(&opts.dataFiles, "data", nil, "dataset files (.csv or .json), overrides config")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&opts.addr, "addr", "", "listen address, overrides config")

	root.AddCommand(newPivotCmd(opts))
	return root
}

// setup loads config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = opts.addr
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.Files = opts.dataFiles
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// The API answers 503 until the dataset is in the store, or for good if the load fails.
	store := engine.NewStore()
	h := api.NewHandler(store, cfg.Pivot, log)
	e := api.NewServer(h, cfg.Server, log)

	go func() {
		log.Info("loading dataset in background", zap.Strings("files", cfg.Data.Files))
		t0 := time.Now()

		recs, err := engine.LoadFiles(ctx, cfg.Data.Files, log)
		if err != nil {
			log.Error("dataset load failed", zap.Error(err))
			store.Fail(err)
			return
		}
		store.Set(recs)

		log.Info("dataset ready", zap.Int("rows", len(recs)), zap.Duration("elapsed", time.Since(t0)))
	}()

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		errc <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
