package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/comigor/bridge-go/internal/journal"
	"github.com/comigor/bridge-go/internal/logger"
	"github.com/comigor/bridge-go/internal/relay"
)

// journal: print the most recent audit events.
func journalCmd() *cobra.Command {
	var (
		path  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recent events from the SQLite journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = appCfg.Journal.Path
			}
			if path == "" {
				return fmt.Errorf("no journal configured. set journal.path or use --path")
			}

			j, err := journal.Open(path, logger.L)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Events(cmd.Context(), limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Seq", "Kind", "Message", "From", "To", "At"})
			for _, e := range entries {
				table.Append([]string{
					strconv.FormatInt(e.Seq, 10),
					string(e.Kind),
					strconv.FormatInt(e.MessageID, 10),
					e.From,
					e.To,
					relay.Timestamp(e.At).String(),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "journal file (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of events; 0 for all")
	return cmd
}
