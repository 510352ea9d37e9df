package commands

import (
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/comigor/bridge-go/internal/logger"
	"github.com/comigor/bridge-go/pkg/tools"
)

// mcp: expose the relay as MCP tools on stdin/stdout.
func mcpCmd() *cobra.Command {
	var agent, peer string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the relay tools to an agent over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol.
			logger.SetOutput(os.Stderr)
			slog.SetDefault(logger.L)

			if agent == "" {
				agent = appCfg.MCP.Agent
			}
			if peer == "" {
				peer = appCfg.MCP.Peer
			}

			manager := tools.NewToolManager()
			for _, t := range tools.RelayTools(relayClient(), agent, peer) {
				manager.RegisterTool(t)
			}
			logger.L.Info("mcp server starting", "agent", agent, "peer", peer, "relay", appCfg.Client.URL)
			return mcpserver.ServeStdio(manager.Server("bridge", version))
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "name this agent sends as (default from config, claude-code)")
	cmd.Flags().StringVar(&peer, "peer", "", "default recipient (default from config, browser)")
	return cmd
}
