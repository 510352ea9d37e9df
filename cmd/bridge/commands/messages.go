package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/comigor/bridge-go/internal/relay"
)

// send --from A --to B <content>: create a message.
func sendCmd() *cobra.Command {
	var from, to, typ string
	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Send a message through the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := relayClient().Send(cmd.Context(), from, to, args[0], typ)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent #%d: %s -> %s\n", m.ID, m.From, m.To)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "sender name")
	cmd.Flags().StringVar(&to, "to", "", "recipient name")
	cmd.Flags().StringVar(&typ, "type", "", "message type (default text)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func listCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := relayClient().List(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), msgs)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "only messages from this sender")
	cmd.Flags().StringVar(&to, "to", "", "only messages to this recipient")
	return cmd
}

func unreadCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "unread",
		Short: "List unread messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := relayClient().Unread(cmd.Context(), to)
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), msgs)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "only messages to this recipient")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := relayClient().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderMessages(cmd.OutOrStdout(), []relay.Message{m})
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark one message read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := relayClient().MarkRead(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d read at %s\n", m.ID, m.ReadAt)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := relayClient().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show relay status and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := relayClient().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d messages, %d unread\n", h.Status, h.MessageCount, h.UnreadCount)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid message id %q", s)
	}
	return id, nil
}

func renderMessages(w io.Writer, msgs []relay.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "From", "To", "Type", "Status", "Timestamp", "Content"})
	table.SetAutoWrapText(false)
	for _, m := range msgs {
		table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			m.From,
			m.To,
			m.Type,
			string(m.Status),
			m.Timestamp.String(),
			m.Content,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "Total", strconv.Itoa(len(msgs))})
	table.Render()
}
