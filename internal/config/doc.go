// Package config provides user configuration management for wotscout.
//
// This package manages a YAML-based configuration file that stores
// saved discovery targets (a name bound to a Thing or directory URL
// plus the discovery method for it) and application preferences. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/wotscout/config.yaml or $HOME/.config/wotscout/config.yaml
//   - macOS: $HOME/.config/wotscout/config.yaml
//   - Windows: %LOCALAPPDATA%\wotscout\config.yaml
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Save a directory target
//	registry.SetTarget("home", "http://directory.local/.well-known/core",
//	    "core-link-format", "wot.thing")
//
//	// Turn it into a discovery filter later
//	filter, err := registry.GetTarget("home").Filter(registry.Preferences)
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
