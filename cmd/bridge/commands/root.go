package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/bridge-go/internal/client"
	"github.com/comigor/bridge-go/internal/config"
	"github.com/comigor/bridge-go/internal/logger"
)

// version is set with -ldflags "-X .../commands.version=..." at release time.
var version = "dev"

var (
	configPath string
	relayURL   string
	logLevel   string

	appCfg *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	configPath, relayURL, logLevel = "", "", ""

	root := &cobra.Command{
		Use:          "bridge",
		Short:        "In-memory message relay between two cooperating agents",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.Client.URL = relayURL
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			logger.SetLevel(cfg.Log.Level)
			slog.SetDefault(logger.L)
			appCfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml or $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&relayURL, "url", "", "relay base URL (e.g. http://localhost:9999)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		serveCmd(),
		mcpCmd(),
		sendCmd(),
		listCmd(),
		unreadCmd(),
		getCmd(),
		readCmd(),
		deleteCmd(),
		healthCmd(),
		journalCmd(),
	)
	return root
}

func relayClient() *client.Client {
	timeout := appCfg.Client.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return client.New(appCfg.Client.URL, timeout)
}
