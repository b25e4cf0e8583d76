package browse

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wotscout/wotscout/internal/discovery"
)

// Run launches the interactive Thing browser and blocks until the user
// quits. The runtime supplies the protocol clients used to fetch Thing
// Descriptions from selected candidates; scanTimeout bounds each mDNS
// browse. With autoScan set, the browser scans the network on startup
// instead of waiting for an explicit rescan.
func Run(runtime *discovery.Runtime, scanTimeout time.Duration, autoScan bool) error {
	model := NewAppModel(runtime, scanTimeout, autoScan)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}

	return nil
}
