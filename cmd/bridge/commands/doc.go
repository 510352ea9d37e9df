// Package commands defines the bridge CLI.
//
// Commands
//
//   - serve    Run the in-memory message relay
//   - mcp      Serve the relay tools to an agent over MCP stdio
//   - send     Send a message
//   - list     List messages, optionally filtered by --from / --to
//   - unread   List unread messages, optionally for --to
//   - get      Show one message
//   - read     Mark one message read
//   - delete   Delete one message
//   - health   Show relay status and counters
//   - journal  Print recent audit events from the SQLite journal
//
// The root command loads configuration (config.yaml, $CONFIG_PATH or
// --config, then BRIDGE_* variables, then flags) before any subcommand runs.
package commands
