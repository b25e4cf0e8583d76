package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wotscout/wotscout/internal/browse"
	"github.com/wotscout/wotscout/internal/config"
	"github.com/wotscout/wotscout/internal/discovery"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/protocol/httpbinding"
	"github.com/wotscout/wotscout/internal/protocol/mqttbinding"
	"github.com/wotscout/wotscout/internal/protocol/wsbinding"
	"github.com/wotscout/wotscout/internal/td"
)

// Discovery command flags
var (
	insecureSkipVerify bool
	outputFormat       string
	discoverMethod     string
	discoverRT         string
	discoverTimeout    int
	discoverSave       string
	browseTimeout      int
	scanTimeout        int
	targetMethod       string
	targetRT           string
)

func init() {
	// Common flags for discovery commands (persistent on root)
	rootCmd.PersistentFlags().BoolVar(&insecureSkipVerify, "insecure", false, "Skip TLS certificate verification for HTTPS targets")

	// Add subcommands directly to root
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(saveTargetCmd)
	rootCmd.AddCommand(removeTargetCmd)
}

// browseCmd launches the interactive Thing browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive Thing browser",
	Long: `Launch an interactive TUI for exploring Things on the network.

The browser provides a user-friendly interface for:
- Scanning the local network for announced Things
- Entering Thing Description URLs manually
- Fetching and inspecting Thing Descriptions

This is the recommended way to explore a network for most users.`,
	Example: `  # Launch the browser
  wotscout browse
  # Or simply (browse is default):
  wotscout

  # Browse with a longer network scan
  wotscout browse --timeout 30`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseTimeout, "timeout", 0, "Network scan timeout in seconds (0 = use configured preference)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}

	registry := loadRegistryOrDefaults()
	prefs := registry.Preferences

	timeout := time.Duration(prefs.ScanTimeout) * time.Second
	if cmd.Flags().Changed("timeout") {
		timeout = time.Duration(browseTimeout) * time.Second
	}

	return browse.Run(newRuntime(), timeout, prefs.AutoIntroduce)
}

// discoverCmd retrieves Thing Descriptions from a URL or saved target
var discoverCmd = &cobra.Command{
	Use:   "discover <url-or-target>",
	Short: "Retrieve Thing Descriptions from a URL or saved target",
	Long: `Retrieve Thing Descriptions from a discovery target.

The argument is either an absolute URL or the name of a saved target
(see 'wotscout targets'). With the direct method the target URL is
fetched once and must yield a single Thing Description. With the
core-link-format method the target is treated as a CoRE resource
directory: its link-format document is filtered for Thing Description
links and every linked document is fetched.

The URL scheme selects the transport: http/https, ws/wss, or
mqtt/mqtts.`,
	Example: `  # Fetch one Thing Description directly
  wotscout discover http://192.168.1.50/.well-known/wot

  # Query a resource directory over its link-format index
  wotscout discover http://directory.local/.well-known/core --method core-link-format

  # Collect Thing publications from an MQTT broker for 10 seconds
  wotscout discover mqtt://broker.local/wot/td --timeout 10

  # Use a saved target and emit JSON for scripting
  wotscout discover home-directory --format json

  # Save the target under a name for later runs
  wotscout discover http://192.168.1.50/.well-known/wot --save lamp`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverMethod, "method", "", "Discovery method (direct, core-link-format)")
	discoverCmd.Flags().StringVar(&discoverRT, "rt", "", "CoRE resource type that marks Thing Description links")
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 30, "Overall discovery timeout in seconds")
	discoverCmd.Flags().StringVar(&discoverSave, "save", "", "Save the target under this name for later runs")
	discoverCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}

	registry := loadRegistryOrDefaults()

	filter, targetName, err := resolveTarget(cmd, registry, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(discoverTimeout)*time.Second)
	defer cancel()

	if outputFormat != "json" {
		fmt.Printf("Discovering from %s (method: %s)...\n\n", filter.URL, filter.Method)
	}

	session := newRuntime().NewSession(filter)
	things, err := session.Collect(ctx)

	if len(things) == 0 {
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}
		fmt.Println("No Thing Descriptions found.")
		return nil
	}

	if printErr := printThings(things); printErr != nil {
		return printErr
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "\n✗ Some fetches failed: %v\n", err)
	}

	// Record the run against the saved target, or save a new one
	if discoverSave != "" {
		registry.SetTarget(discoverSave, filter.URL.String(), filter.Method.String(), filter.ResourceType)
		targetName = discoverSave
	}
	if targetName != "" {
		registry.UpdateTargetUsed(targetName, things[0].Title)
		if saveErr := registry.Save(); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", saveErr)
		}
	}

	return nil
}

// scanCmd discovers announced Things on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the local network for announced Things",
	Long: `Scan for Things using mDNS/DNS-SD discovery.

This command listens for Things announcing themselves under the
_wot._tcp service and displays each one with its address and the URL
of its Thing Description.`,
	Example: `  # Scan for 10 seconds (default)
  wotscout scan

  # Quick 3-second scan
  wotscout scan --timeout 3

  # Longer scan for networks with many Things
  wotscout scan --timeout 30`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}

	fmt.Printf("Scanning for Things (timeout: %ds)...\n\n", scanTimeout)

	candidates, err := discovery.Browse(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(candidates) == 0 {
		fmt.Println("No Things found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the Thing is powered on and announcing itself over mDNS")
		fmt.Println("  - Check that multicast traffic is allowed on this network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use 'wotscout discover <url>' if you know the Thing's address")
		return nil
	}

	fmt.Printf("Found %d Thing(s):\n\n", len(candidates))

	for i, candidate := range candidates {
		fmt.Printf("%d. %s\n", i+1, candidate.Instance)
		fmt.Printf("   Host:    %s\n", candidate.Hostname)
		fmt.Printf("   Address: %s:%d\n", candidate.IP, candidate.Port)
		fmt.Printf("   TD URL:  %s\n", candidate.TDURL())
		if len(candidate.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", candidate.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'wotscout discover <td-url>' to fetch a Thing Description")
	fmt.Println("Use 'wotscout' without arguments for the interactive browser")

	return nil
}

// validateCmd checks Thing Description documents offline
var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate Thing Description documents",
	Long: `Validate Thing Description JSON documents without touching the network.

Each file is parsed against the W3C Thing Description model: required
fields, field types, affordance and form structure, and security
definitions. The command exits non-zero when any document fails.`,
	Example: `  # Validate a single document
  wotscout validate lamp.td.json

  # Validate a directory of documents
  wotscout validate things/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failures := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", path, err)
			failures++
			continue
		}

		thing, err := td.Parse(data)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", path, err)
			failures++
			continue
		}

		fmt.Printf("✓ %s: %q (%d properties, %d actions, %d events)\n",
			path, thing.Title, len(thing.Properties), len(thing.Actions), len(thing.Events))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d document(s) failed validation", failures, len(args))
	}
	return nil
}

// targetsCmd lists saved discovery targets
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List saved discovery targets",
	Long: `List the discovery targets saved in the configuration file.

A target names a Thing or directory URL plus the discovery method to
use against it. Run 'wotscout discover <name>' to use one.`,
	Example: `  wotscout targets`,
	RunE:    runTargets,
}

func runTargets(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := registry.TargetNames()
	if len(names) == 0 {
		fmt.Println("No saved targets.")
		fmt.Println("\nSave one with 'wotscout save-target <name> <url>' or")
		fmt.Println("'wotscout discover <url> --save <name>'.")
		return nil
	}

	for _, name := range names {
		target := registry.GetTarget(name)

		fmt.Println(name)
		fmt.Printf("  URL:    %s\n", target.URL)
		method := target.Method
		if method == "" {
			method = "(default)"
		}
		fmt.Printf("  Method: %s\n", method)
		if target.ResourceType != "" {
			fmt.Printf("  Resource type: %s\n", target.ResourceType)
		}
		if !target.LastUsed.IsZero() {
			if target.LastTitle != "" {
				fmt.Printf("  Last used: %s (found %q)\n", target.LastUsed.Format("2006-01-02 15:04"), target.LastTitle)
			} else {
				fmt.Printf("  Last used: %s\n", target.LastUsed.Format("2006-01-02 15:04"))
			}
		}
		fmt.Println()
	}

	return nil
}

// saveTargetCmd saves a discovery target under a name
var saveTargetCmd = &cobra.Command{
	Use:   "save-target <name> <url>",
	Short: "Save a discovery target under a name",
	Long: `Save a discovery target so later runs can refer to it by name.

The URL must be absolute. The method and resource type are optional;
when omitted, discovery fills them from the configured preferences.`,
	Example: `  # Save a Thing for direct discovery
  wotscout save-target lamp http://192.168.1.50/.well-known/wot

  # Save a resource directory
  wotscout save-target home-directory http://directory.local/.well-known/core --method core-link-format`,
	Args: cobra.ExactArgs(2),
	RunE: runSaveTarget,
}

func init() {
	saveTargetCmd.Flags().StringVar(&targetMethod, "method", "", "Discovery method (direct, core-link-format)")
	saveTargetCmd.Flags().StringVar(&targetRT, "rt", "", "CoRE resource type that marks Thing Description links")
}

func runSaveTarget(cmd *cobra.Command, args []string) error {
	name, rawURL := args[0], args[1]

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%q is not an absolute URL (scheme://host/path)", rawURL)
	}
	if targetMethod != "" {
		if _, err := discovery.ParseMethod(targetMethod); err != nil {
			return err
		}
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry.SetTarget(name, parsed.String(), targetMethod, targetRT)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Saved target %q\n", name)
	fmt.Printf("  Run 'wotscout discover %s' to use it\n", name)
	return nil
}

// removeTargetCmd deletes a saved discovery target
var removeTargetCmd = &cobra.Command{
	Use:     "remove-target <name>",
	Short:   "Remove a saved discovery target",
	Example: `  wotscout remove-target lamp`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemoveTarget,
}

func runRemoveTarget(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if registry.GetTarget(name) == nil {
		return fmt.Errorf("no saved target named %q", name)
	}

	registry.RemoveTarget(name)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Removed target %q\n", name)
	return nil
}

// newRuntime builds the discovery runtime every command shares, with
// protocol clients for HTTP(S), WebSocket, and MQTT targets.
func newRuntime() *discovery.Runtime {
	clients := protocol.NewRegistry()
	if insecureSkipVerify {
		clients.Register(httpbinding.NewInsecureClient())
	} else {
		clients.Register(httpbinding.NewClient())
	}
	clients.Register(wsbinding.NewClient())
	clients.Register(mqttbinding.NewClient())
	return discovery.NewRuntime(clients, nil)
}

// loadRegistryOrDefaults loads the saved configuration, falling back
// to defaults when the file is unreadable so ad-hoc discovery still
// works without one.
func loadRegistryOrDefaults() *config.Registry {
	registry, err := config.LoadRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		return config.NewRegistry()
	}
	return registry
}

// resolveTarget turns the discover argument into a filter. A saved
// target name takes priority; anything else must parse as an absolute
// URL. Explicit flags win over saved values and preferences.
func resolveTarget(cmd *cobra.Command, registry *config.Registry, arg string) (discovery.ThingFilter, string, error) {
	var filter discovery.ThingFilter
	name := ""

	if target := registry.GetTarget(arg); target != nil {
		resolved, err := target.Filter(registry.Preferences)
		if err != nil {
			return filter, "", fmt.Errorf("saved target %q: %w", arg, err)
		}
		filter = resolved
		name = arg
	} else {
		parsed, err := url.Parse(strings.TrimSpace(arg))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return filter, "", fmt.Errorf("%q is neither a saved target nor an absolute URL (scheme://host/path)", arg)
		}
		filter.URL = parsed
		filter.Method, filter.ResourceType = preferenceDefaults(registry.Preferences)
	}

	if cmd.Flags().Changed("method") {
		method, err := discovery.ParseMethod(discoverMethod)
		if err != nil {
			return filter, "", err
		}
		filter.Method = method
	}
	if cmd.Flags().Changed("rt") {
		filter.ResourceType = discoverRT
	}

	return filter, name, nil
}

// preferenceDefaults reads the method and resource type an ad-hoc URL
// starts from.
func preferenceDefaults(prefs *config.Preferences) (discovery.Method, string) {
	if prefs == nil {
		return discovery.MethodDirect, ""
	}
	method := discovery.MethodDirect
	if prefs.DefaultMethod != "" {
		if parsed, err := discovery.ParseMethod(prefs.DefaultMethod); err == nil {
			method = parsed
		}
	}
	return method, prefs.ResourceType
}

// thingSummary is the JSON shape of one discovery result.
type thingSummary struct {
	Title      string   `json:"title"`
	ID         string   `json:"id,omitempty"`
	Security   []string `json:"security,omitempty"`
	Properties int      `json:"properties"`
	Actions    int      `json:"actions"`
	Events     int      `json:"events"`
	Forms      int      `json:"forms,omitempty"`
	Links      int      `json:"links,omitempty"`
}

func summarize(thing *td.ThingDescription) thingSummary {
	return thingSummary{
		Title:      thing.Title,
		ID:         thing.ID,
		Security:   thing.Security,
		Properties: len(thing.Properties),
		Actions:    len(thing.Actions),
		Events:     len(thing.Events),
		Forms:      len(thing.Forms),
		Links:      len(thing.Links),
	}
}

// printThings writes discovery results in the selected output format.
func printThings(things []*td.ThingDescription) error {
	switch outputFormat {
	case "json":
		summaries := make([]thingSummary, len(things))
		for i, thing := range things {
			summaries[i] = summarize(thing)
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))

	case "compact":
		for _, thing := range things {
			line := thing.Title
			if thing.ID != "" {
				line += " (" + thing.ID + ")"
			}
			fmt.Printf("%s: %d properties, %d actions, %d events\n",
				line, len(thing.Properties), len(thing.Actions), len(thing.Events))
		}

	case "detailed":
		fallthrough
	default:
		fmt.Printf("Found %d Thing Description(s):\n\n", len(things))
		for i, thing := range things {
			fmt.Printf("%d. %s\n", i+1, thing.Title)
			if thing.ID != "" {
				fmt.Printf("   ID:       %s\n", thing.ID)
			}
			if thing.Description != "" {
				fmt.Printf("   About:    %s\n", thing.Description)
			}
			if len(thing.Security) > 0 {
				fmt.Printf("   Security: %s\n", strings.Join(thing.Security, ", "))
			}
			fmt.Printf("   Affordances: %d properties, %d actions, %d events\n",
				len(thing.Properties), len(thing.Actions), len(thing.Events))
			if len(thing.Links) > 0 {
				fmt.Printf("   Links:    %d\n", len(thing.Links))
			}
			fmt.Println()
		}
	}

	return nil
}
