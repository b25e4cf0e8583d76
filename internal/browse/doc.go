// Package browse implements the interactive terminal browser for Things
// on the local network.
//
// The browser is a full-screen TUI built on the Bubble Tea framework,
// following the Elm architecture with immutable state updates and a
// Model-Update-View pattern.
//
// # Architecture
//
// The browser is organized into two screens:
//   - Scan: browse mDNS for Thing advertisements, or enter a Thing
//     Description URL manually
//   - Detail: fetch and summarize the selected Thing's description
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area, and a
// context-sensitive footer.
//
// # Framework Components
//
// The browser leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: Loading indicators
//   - bubbles/textinput: Manual URL entry
//   - bubbles/progress: Scan progress bar
//   - bubbles/list: Thing lists with filtering
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	runtime := discovery.NewRuntime(clients, nil)
//	if err := browse.Run(runtime, 10*time.Second); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
//  1. Scan Screen:
//     - Automatically browses the network for Thing advertisements (mDNS)
//     - Displays found Things as cards with address and TD path
//     - Allows manual URL entry if a Thing is not advertised
//     - User selects a Thing to inspect
//
//  2. Detail Screen:
//     - Fetches the selected Thing's description through a discovery
//       session (validated like any other discovery result)
//     - Summarizes identity, security, interactions, and links
//     - Options to reload, go back, or quit
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Scan: ↑/↓ navigate, Enter inspect, r rescan, m manual URL, q quit
//   - Manual entry: Enter confirm, ESC cancel
//   - Detail: b/ESC back, r reload, q quit
//
// Help text automatically updates based on screen state (e.g. during
// scanning or manual entry).
//
// # State Management
//
// Models contain all state; Update() returns a new model plus commands,
// View() is a pure function of model state, and commands represent
// async operations (the mDNS browse and the Thing Description fetch).
// The Bubble Tea framework ensures thread safety through message
// passing: all model updates occur in a single goroutine.
package browse
