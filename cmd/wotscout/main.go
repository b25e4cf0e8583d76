// Wotscout is a discovery toolkit for W3C Web-of-Things devices.
//
// It locates Things on the network, retrieves their Thing Descriptions
// over HTTP, WebSocket, or MQTT, and validates the documents against
// the W3C Thing Description model. An interactive browser, a
// scriptable discover command, and saved discovery targets cover both
// exploratory and repeated lookups.
//
// Usage:
//
//	wotscout [command] [flags]
//
// Running without arguments launches the interactive browser.
// See 'wotscout --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wotscout/wotscout/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wotscout",
	Short: "Web-of-Things Discovery Toolkit",
	Long: `A toolkit for discovering Things and their descriptions on the network.

Provides mDNS scanning, direct and directory-driven Thing Description
retrieval over HTTP, WebSocket, and MQTT, an interactive browser, and
offline document validation.

If no command is specified, the interactive browser will launch automatically.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the browser when no subcommand provided
		return runBrowse(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wotscout %s (commit: %s)\n", version.Version, version.Commit)
	},
}
