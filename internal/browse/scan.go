package browse

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wotscout/wotscout/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	candidates []*discovery.Candidate
	err        error
}

// scanKeyMap defines key bindings for the scan results screen
type scanKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k scanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k scanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// scanningKeyMap defines key bindings while a scan is in progress
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Manual, s.Quit},
	}
}

// emptyScreenKeyMap defines key bindings for the empty results screen
type emptyScreenKeyMap struct {
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (e emptyScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{e.Rescan, e.Manual, e.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (e emptyScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{e.Rescan, e.Manual, e.Quit},
	}
}

// candidateItem wraps a Candidate for use with bubbles/list
type candidateItem struct {
	candidate *discovery.Candidate
}

// Implement list.Item interface
func (c candidateItem) FilterValue() string {
	// Filter by instance name, IP, or hostname
	return c.candidate.Instance + " " + c.candidate.IP + " " + c.candidate.Hostname
}

// Title returns the Thing's instance name for list display
func (c candidateItem) Title() string {
	if c.candidate.Instance == "manual" {
		return fmt.Sprintf("Manual: %s", c.candidate.TDURL())
	}
	return c.candidate.Instance
}

// Description returns candidate details for list display
func (c candidateItem) Description() string {
	return fmt.Sprintf("%s:%d • %s • %s", c.candidate.IP, c.candidate.Port, c.candidate.Scheme, c.candidate.TDPath)
}

// candidateDelegate is a custom list delegate for rendering Thing cards
type candidateDelegate struct {
	width int
}

func (d candidateDelegate) Height() int { return 8 } // Card height including borders

func (d candidateDelegate) Spacing() int { return 1 } // Spacing between cards

func (d candidateDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	candidateItem, ok := item.(candidateItem)
	if !ok {
		return
	}

	candidate := candidateItem.candidate
	selected := index == m.Index()

	// Build the display name
	var name string
	if candidate.Instance == "manual" {
		name = fmt.Sprintf("Manual: %s", candidate.TDURL())
	} else {
		name = candidate.Instance
	}

	// Origin of the candidate
	origin := "mDNS advertisement"
	if candidate.Instance == "manual" {
		origin = "manual entry"
	}

	// Build content lines
	var content strings.Builder

	// Add selection indicator to the Thing name
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + name))
	} else {
		content.WriteString("  " + name)
	}
	content.WriteString("\n\n")

	// Candidate details
	content.WriteString(fmt.Sprintf("  Address:  %s:%d (%s)\n", candidate.IP, candidate.Port, candidate.Scheme))
	content.WriteString(fmt.Sprintf("  TD path:  %s\n", candidate.TDPath))
	content.WriteString(fmt.Sprintf("  Source:   %s\n", origin))

	// Status with inline color styling (no border)
	statusStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	content.WriteString(fmt.Sprintf("  Status:   %s", statusStyle.Render("Reachable target")))

	// Create responsive card style
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	// Calculate card width (leave room for margins and borders)
	cardWidth := d.width - 6 // 2 for margin-left, 4 for border + padding
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	// Highlight selected card
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// ScanModel represents the network scan screen state
type ScanModel struct {
	// Scan state
	Scanning    bool
	ThingList   list.Model
	Selected    bool
	Err         error
	ScanTimeout time.Duration

	// AutoScan starts a browse as soon as the screen opens. When off,
	// the screen waits for an explicit rescan or manual entry.
	AutoScan bool

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model
	ManualErr  error

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          scanKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap
	EmptyKeys     emptyScreenKeyMap
}

// NewScanModel creates a new scan screen model
func NewScanModel(scanTimeout time.Duration) ScanModel {
	if scanTimeout <= 0 {
		scanTimeout = discovery.DefaultBrowseTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	// Initialize URL input for manual entry
	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.1.50/.well-known/wot"
	urlInput.CharLimit = 200
	urlInput.Width = 50

	// Initialize progress bar
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	// Initialize Thing list with custom delegate
	delegate := candidateDelegate{width: MinTerminalWidth}
	thingList := list.New([]list.Item{}, delegate, 0, 0)
	thingList.Title = "Discovered Things"
	thingList.SetShowStatusBar(false)
	thingList.SetFilteringEnabled(true)
	thingList.Styles.Title = TitleStyle

	// Initialize help
	h := help.New()

	// Initialize key bindings for normal mode
	keys := scanKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "inspect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for manual entry mode
	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	// Initialize key bindings for scanning mode
	scanningKeys := scanningKeyMap{
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for empty results
	emptyKeys := emptyScreenKeyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return ScanModel{
		Scanning:     false,
		ThingList:    thingList,
		Selected:     false,
		ScanTimeout:  scanTimeout,
		AutoScan:     true,
		ManualMode:   false,
		URLInput:     urlInput,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         h,
		Keys:         keys,
		ManualKeys:   manualKeys,
		ScanningKeys: scanningKeys,
		EmptyKeys:    emptyKeys,
	}
}

// Init initializes the scan model
func (m ScanModel) Init() tea.Cmd {
	if !m.AutoScan {
		// Wait on the empty screen for an explicit rescan or manual entry
		return m.Spinner.Tick
	}

	// Start scanning immediately - send start message then begin scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanNetwork(m.ScanTimeout),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Update list size
		m.ThingList.SetWidth(msg.Width - 4)
		m.ThingList.SetHeight(msg.Height - 10) // Leave room for header/footer

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		// Convert candidates to list items
		items := make([]list.Item, len(msg.candidates))
		for i, c := range msg.candidates {
			items[i] = candidateItem{candidate: c}
		}
		m.ThingList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Update list if not in manual mode or scanning
	if !m.ManualMode && !m.Scanning {
		m.ThingList, cmd = m.ThingList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in normal results-list mode
func (m ScanModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// While the list filter input is active, every key belongs to it
	if m.ThingList.FilterState() == list.Filtering {
		m.ThingList, cmd = m.ThingList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "enter", " ":
		// Select the highlighted Thing for inspection
		if selectedItem := m.ThingList.SelectedItem(); selectedItem != nil {
			m.Selected = true
		}
		return m, nil

	case "r":
		// Rescan
		m.ThingList.SetItems([]list.Item{})
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			scanNetwork(m.ScanTimeout),
			m.Spinner.Tick,
		)

	case "m":
		// Switch to manual URL entry mode
		m.ManualMode = true
		m.ManualErr = nil
		m.URLInput.SetValue("")
		m.URLInput.Focus()
		return m, nil
	}

	// Let the list handle up/down navigation
	m.ThingList, cmd = m.ThingList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m ScanModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		// Cancel manual entry
		m.ManualMode = false
		m.ManualErr = nil
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case "enter":
		value := m.URLInput.Value()
		if value != "" {
			candidate, err := manualCandidate(value)
			if err != nil {
				m.ManualErr = err
				return m, nil
			}
			// Add to the top of the list and select it
			newItem := candidateItem{candidate: candidate}
			items := append([]list.Item{newItem}, m.ThingList.Items()...)
			m.ThingList.SetItems(items)
			m.ThingList.Select(0)
			m.ManualMode = false
			m.ManualErr = nil
			m.URLInput.SetValue("")
			m.URLInput.Blur()
			return m, nil
		}
	}

	// Update the text input
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the scan screen
func (m ScanModel) View() string {
	// Use default width if not set
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	// Build main content area
	var content string
	if m.ManualMode {
		content = m.renderManualEntry()
	} else if m.Scanning {
		content = m.renderScanning(width)
	} else {
		content = m.renderScanResults()
	}

	// Determine context-sensitive help text using bubbles/help
	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else if len(m.ThingList.Items()) > 0 {
		helpText = m.Help.View(m.Keys)
	} else {
		helpText = m.Help.View(m.EmptyKeys)
	}

	// Wrap with application container (full-screen layout with height)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderScanning renders a prominent, centered scanning progress display
func (m ScanModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	elapsedSec := int(elapsed.Seconds())

	// Progress runs against the configured browse timeout
	totalSec := int(m.ScanTimeout.Seconds())
	if totalSec <= 0 {
		totalSec = 1
	}
	progressPercent := min(100, (elapsedSec*100)/totalSec)
	progressFloat := float64(progressPercent) / 100.0

	// Build content components
	title := fmt.Sprintf("%s SEARCHING FOR THINGS", m.Spinner.View())
	subtitle := "Browsing the local network for Thing advertisements..."

	// Use bubbles/progress component (ViewAs already includes percentage display)
	progressBar := m.ProgressBar.ViewAs(progressFloat)
	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsedSec)

	// Use lipgloss.JoinVertical for layout composition
	content := lipgloss.JoinVertical(lipgloss.Center,
		"", // Top spacing
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		progressBar,
		"",
		SubtitleStyle.Render(elapsedText),
		"", // Bottom spacing
	)

	// Use lipgloss.Place for centering; height 0 lets content determine height
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderScanResults renders the Thing list or a "nothing found" message
func (m ScanModel) renderScanResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		// Error state
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")

		// Troubleshooting hints
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Check that multicast DNS is allowed on this network\n")
		b.WriteString("    • Some VPNs and corporate networks block mDNS traffic\n")
		b.WriteString("    • Use 'm' to enter a Thing Description URL directly\n")
		b.WriteString("    • Use 'r' to rescan\n")

	} else if len(m.ThingList.Items()) == 0 {
		// No Things found
		b.WriteString("  ")
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render("⚠ No Things advertised on your network"))
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the Thing is powered on and connected\n")
		b.WriteString("    • Things must advertise the _wot._tcp service over mDNS\n")
		b.WriteString("    • Use 'm' to enter a Thing Description URL directly\n")
		b.WriteString("    • Use 'r' to rescan\n")
		b.WriteString("\n")

	} else {
		// Things found - render the list
		b.WriteString(m.ThingList.View())
	}

	return b.String()
}

// renderManualEntry renders the manual URL entry dialog
func (m ScanModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter a Thing Description URL"))
	b.WriteString("\n\n")

	// Input box using textinput component
	b.WriteString("  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")

	if m.ManualErr != nil {
		b.WriteString(RenderError(m.ManualErr.Error()))
		b.WriteString("\n\n")
	}

	return b.String()
}

// GetSelectedCandidate returns the selected Thing candidate (if any)
func (m ScanModel) GetSelectedCandidate() *discovery.Candidate {
	if m.Selected {
		if selectedItem := m.ThingList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(candidateItem); ok {
				return item.candidate
			}
		}
	}
	return nil
}

// scanNetwork returns a command that browses for Thing advertisements
func scanNetwork(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		candidates, err := discovery.Browse(timeout)
		return scanCompleteMsg{
			candidates: candidates,
			err:        err,
		}
	}
}

// schemePorts maps URI schemes to the port assumed when a manual URL
// names none.
var schemePorts = map[string]int{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"mqtt":  1883,
	"mqtts": 8883,
}

// manualCandidate builds a Candidate from a user-entered Thing
// Description URL.
func manualCandidate(rawURL string) (*discovery.Candidate, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("URL must be absolute, like %q", "http://192.168.1.50/.well-known/wot")
	}

	port := schemePorts[u.Scheme]
	if port == 0 {
		port = discovery.DefaultPort
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", p)
		}
	}

	tdPath := u.Path
	if tdPath == "" {
		tdPath = discovery.DefaultTDPath
	}

	return &discovery.Candidate{
		Instance:     "manual",
		Hostname:     u.Hostname(),
		IP:           u.Hostname(),
		Port:         port,
		Scheme:       u.Scheme,
		TDPath:       tdPath,
		DiscoveredAt: time.Now(),
	}, nil
}
