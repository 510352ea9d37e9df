package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comigor/bridge-go/internal/journal"
	"github.com/comigor/bridge-go/internal/logger"
	"github.com/comigor/bridge-go/internal/relay"
	"github.com/comigor/bridge-go/internal/server"
)

// serve: run the relay until SIGINT/SIGTERM.
func serveCmd() *cobra.Command {
	var (
		host        string
		port        int
		journalPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory message relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				appCfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				appCfg.Server.Port = port
			}
			if cmd.Flags().Changed("journal") {
				appCfg.Journal.Path = journalPath
			}
			if err := appCfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRelay(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config, localhost)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config, 9999)")
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal file; empty disables it")
	return cmd
}

func runRelay(ctx context.Context) error {
	opts := []relay.Option{relay.WithLogger(logger.L)}
	if appCfg.Journal.Path != "" {
		j, err := journal.Open(appCfg.Journal.Path, logger.L)
		if err != nil {
			return err
		}
		defer func() {
			if err := j.Close(); err != nil {
				logger.L.Warn("journal close failed", "error", err)
			}
		}()
		opts = append(opts, relay.WithJournal(j))
	}

	store := relay.NewStore(opts...)
	srv := server.New(store, logger.L, server.WithShutdownTimeout(appCfg.Server.ShutdownTimeout))
	return srv.ListenAndServe(ctx, appCfg.Server.Addr())
}
