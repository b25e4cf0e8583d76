// Thingsimd hosts a catalog of Thing Descriptions for discovery clients.
//
// It serves each document as its own HTTP resource, exposes a CoRE
// link-format index for directory-driven discovery, streams the
// catalog over WebSocket, and announces every hosted Thing over
// mDNS/DNS-SD. The daemon exists so wotscout has something real to
// discover during demos and integration testing.
//
// Usage:
//
//	thingsimd serve [flags]
//
// See 'thingsimd serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wotscout/wotscout/internal/server"
	"github.com/wotscout/wotscout/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "thingsimd",
	Short: "Thing Description Host",
	Long: `A standalone host for W3C Web-of-Things Thing Descriptions.

The daemon loads Thing Description documents from a directory and
serves them to discovery clients: one HTTP resource per document, a
CoRE link-format index at /.well-known/core, a WebSocket stream of the
whole catalog, and optional mDNS announcements.

Note: for discovering Things hosted here, use the separate 'wotscout'
utility.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	thingDir     string
	host         string
	port         int
	certPath     string
	keyPath      string
	generateCert bool
	announce     bool
	logLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Thing Description host",
	Long: `Start the host and serve the catalog until interrupted.

Every .json file in the things directory is validated and served under
/things/<name>, where <name> is the file name without its extension.
The link-format index at /.well-known/core lists each document with
rt="wot.thing", so directory-driven discovery finds them.

By default the host speaks plain HTTP. Provide --cert and --key to
serve TLS with your own certificate, or --generate-cert to serve TLS
with an in-memory self-signed certificate.`,
	Example: `  # Host a directory of Thing Descriptions on port 8080
  thingsimd serve --things ./things

  # Host on a specific address without mDNS announcements
  thingsimd serve --things ./things --host 192.168.1.10 --port 9000 --announce=false

  # Serve TLS with a self-signed certificate
  thingsimd serve --things ./things --generate-cert

  # Serve TLS with your own certificate
  thingsimd serve --things ./things --cert fullchain.pem --key privkey.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&thingDir, "things", "", "Directory of Thing Description .json files to host")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (optional)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file (optional)")
	serveCmd.Flags().BoolVar(&generateCert, "generate-cert", false, "Serve TLS with an in-memory self-signed certificate")
	serveCmd.Flags().BoolVar(&announce, "announce", true, "Announce hosted Things over mDNS")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Either both cert and key are provided, or neither
	if (certPath != "" && keyPath == "") || (certPath == "" && keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if generateCert && certPath != "" {
		return fmt.Errorf("--generate-cert cannot be combined with --cert/--key")
	}

	// If files are provided, validate they exist
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	// Validate the things directory if specified
	if thingDir != "" {
		info, err := os.Stat(thingDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("things directory does not exist: %s", thingDir)
		}
		if err != nil {
			return fmt.Errorf("cannot access things directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("things path is not a directory: %s", thingDir)
		}
	}

	config := &server.Config{
		Host:         host,
		Port:         port,
		CertPath:     certPath,
		KeyPath:      keyPath,
		GenerateCert: generateCert,
		LogLevel:     logLevel,
		ThingDir:     thingDir,
		Announce:     announce,
	}

	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("thingsimd %s (commit: %s)\n", version.Version, version.Commit)
	},
}
