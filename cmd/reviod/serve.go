package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/revio/revio"
	"github.com/revio/revio/pkg/httpapi"
)

var (
	serveAddr        string
	serveDataDir     string
	serveConfigPath  string
	serveEventBuffer int
	serveWatch       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review server",
	Long: `Serve the reviews API and the websocket push channel.

Without --data-dir reviews are kept in memory only; with it, each review
is a JSON document under the directory and out-of-band edits to those
files are broadcast to connected clients when --watch is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		cfg, err := loadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = serveDataDir
		}
		if cmd.Flags().Changed("event-buffer") {
			cfg.EventBuffer = serveEventBuffer
		}

		opts := []revio.Option{
			revio.WithLogger(logger),
			revio.WithEventBuffer(cfg.EventBuffer),
		}
		if cfg.DataDir != "" {
			opts = append(opts, revio.WithDataDir(cfg.DataDir))
		}

		app, err := revio.New(opts...)
		if err != nil {
			return err
		}
		defer app.Broker.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if serveWatch {
			if err := app.Watch(ctx); err != nil {
				return err
			}
		}

		server := httpapi.NewServer(app.Service, app.Broker, logger)
		httpServer := &http.Server{Addr: cfg.Addr, Handler: server.Router()}

		wg := new(sync.WaitGroup)
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("listening", "addr", cfg.Addr, "data_dir", cfg.DataDir)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server listen failed", "error", err)
			}
		}()

		exit := make(chan os.Signal, 1) // buffer of 1 so the notifier is not blocked
		signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-exit
		logger.Info("signal caught", "sig", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)

		wg.Wait()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:6060", "Address to listen on")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory for persisted reviews (memory-only when empty)")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a YAML config file")
	serveCmd.Flags().IntVar(&serveEventBuffer, "event-buffer", 0, "Per-subscriber event buffer size")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Broadcast out-of-band edits to the data directory")
	rootCmd.AddCommand(serveCmd)
}
