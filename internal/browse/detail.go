package browse

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wotscout/wotscout/internal/discovery"
	"github.com/wotscout/wotscout/internal/td"
)

// fetchTimeout bounds one Thing Description fetch, including redirects
// and decoding.
const fetchTimeout = 15 * time.Second

// maxListedNames caps how many interaction names a summary row lists
// before collapsing the rest into a count.
const maxListedNames = 5

// Messages for async operations
type loadStartMsg struct{}
type thingLoadedMsg struct {
	things []*td.ThingDescription
	err    error
}

// detailKeyMap defines key bindings for the Thing detail screen
type detailKeyMap struct {
	Back   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Reload, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Reload, k.Quit},
	}
}

// loadingKeyMap defines key bindings while a fetch is in progress
type loadingKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (l loadingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{l.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (l loadingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{l.Quit},
	}
}

// DetailModel represents the Thing detail screen state
type DetailModel struct {
	// The Thing being inspected and the runtime that fetches it
	Candidate *discovery.Candidate
	runtime   *discovery.Runtime

	// Fetch state
	Loading bool
	Things  []*td.ThingDescription
	Err     error

	// Set when the user asked to return to the scan screen
	BackRequested bool

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	LoadStartTime time.Time
	Help          help.Model
	Keys          detailKeyMap
	LoadingKeys   loadingKeyMap
}

// NewDetailModel creates a detail screen model for one candidate
func NewDetailModel(runtime *discovery.Runtime, candidate *discovery.Candidate) DetailModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	// Initialize help
	h := help.New()

	// Initialize key bindings for the loaded state
	keys := detailKeyMap{
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for the loading state
	loadingKeys := loadingKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DetailModel{
		Candidate:   candidate,
		runtime:     runtime,
		Loading:     false,
		Spinner:     s,
		Help:        h,
		Keys:        keys,
		LoadingKeys: loadingKeys,
	}
}

// Init initializes the detail model and starts fetching
func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return loadStartMsg{} },
		fetchThings(m.runtime, m.Candidate),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case loadStartMsg:
		m.Loading = true
		m.LoadStartTime = time.Now()

	case thingLoadedMsg:
		m.Loading = false
		m.Things = msg.things
		m.Err = msg.err

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// updateKeys handles keyboard input
func (m DetailModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Loading {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "b", "esc":
		m.BackRequested = true
		return m, nil

	case "r":
		// Reload the Thing Description
		m.Things = nil
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return loadStartMsg{} },
			fetchThings(m.runtime, m.Candidate),
			m.Spinner.Tick,
		)
	}

	return m, nil
}

// View renders the detail screen
func (m DetailModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content string
	if m.Loading {
		content = m.renderLoading(width)
	} else if m.Err != nil && len(m.Things) == 0 {
		content = m.renderLoadError()
	} else {
		content = m.renderThings()
	}

	var helpText string
	if m.Loading {
		helpText = m.Help.View(m.LoadingKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderLoading renders a centered fetch progress display
func (m DetailModel) renderLoading(width int) string {
	elapsed := int(time.Since(m.LoadStartTime).Seconds())

	title := fmt.Sprintf("%s FETCHING THING DESCRIPTION", m.Spinner.View())
	subtitle := m.Candidate.TDURL()
	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsed)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"", // Top spacing
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		SubtitleStyle.Render(elapsedText),
		"", // Bottom spacing
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderLoadError renders the failure state with troubleshooting hints
func (m DetailModel) renderLoadError() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderError(fmt.Sprintf("Could not fetch %s: %v", m.Candidate.TDURL(), m.Err)))
	b.WriteString("\n\n")

	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Check that the Thing is still reachable at the advertised address\n")
	b.WriteString("    • The resource must serve a JSON Thing Description with a title\n")
	b.WriteString("    • Use 'r' to retry or 'b' to pick another Thing\n")

	return b.String()
}

// renderThings renders a summary card for each fetched Thing Description
func (m DetailModel) renderThings() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Thing Description"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Fetched from " + m.Candidate.TDURL()))
	b.WriteString("\n")

	for _, thing := range m.Things {
		b.WriteString(RenderInfo(renderThingSummary(thing)))
		b.WriteString("\n")
	}

	if m.Err != nil {
		// Partial result: some payloads failed while others decoded
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render(fmt.Sprintf("⚠ Some fetches failed: %v", m.Err)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderThingSummary builds the text body of one Thing Description card
func renderThingSummary(t *td.ThingDescription) string {
	var b strings.Builder

	nameStyle := lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
	b.WriteString(nameStyle.Render(t.Title))
	b.WriteString("\n")

	if t.ID != "" {
		b.WriteString(fmt.Sprintf("ID:          %s\n", t.ID))
	}
	if t.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", truncate(t.Description, 70)))
	}
	if t.Base != "" {
		b.WriteString(fmt.Sprintf("Base:        %s\n", t.Base))
	}
	if t.Version != nil {
		b.WriteString(fmt.Sprintf("Version:     %s\n", t.Version.Instance))
	}
	if len(t.Security) > 0 {
		b.WriteString(fmt.Sprintf("Security:    %s\n", strings.Join(t.Security, ", ")))
	}

	b.WriteString(fmt.Sprintf("Properties:  %s\n", summarizeNames(propertyNames(t))))
	b.WriteString(fmt.Sprintf("Actions:     %s\n", summarizeNames(actionNames(t))))
	b.WriteString(fmt.Sprintf("Events:      %s\n", summarizeNames(eventNames(t))))

	if len(t.Links) > 0 {
		b.WriteString(fmt.Sprintf("Links:       %d", len(t.Links)))
		for i, link := range t.Links {
			if i >= maxListedNames {
				b.WriteString(" …")
				break
			}
			b.WriteString("\n  • " + link.Href)
		}
		b.WriteString("\n")
	}
	if len(t.Forms) > 0 {
		b.WriteString(fmt.Sprintf("Forms:       %d\n", len(t.Forms)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// propertyNames returns the sorted property names of a Thing
func propertyNames(t *td.ThingDescription) []string {
	names := make([]string, 0, len(t.Properties))
	for name := range t.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// actionNames returns the sorted action names of a Thing
func actionNames(t *td.ThingDescription) []string {
	names := make([]string, 0, len(t.Actions))
	for name := range t.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// eventNames returns the sorted event names of a Thing
func eventNames(t *td.ThingDescription) []string {
	names := make([]string, 0, len(t.Events))
	for name := range t.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// summarizeNames formats an interaction name list as "3 (a, b, c)",
// collapsing long lists into a leading count.
func summarizeNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	listed := names
	suffix := ""
	if len(names) > maxListedNames {
		listed = names[:maxListedNames]
		suffix = ", …"
	}
	return fmt.Sprintf("%d (%s%s)", len(names), strings.Join(listed, ", "), suffix)
}

// truncate shortens s to at most n runes, appending an ellipsis when
// something was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// fetchThings returns a command that fetches the candidate's Thing
// Description through a direct-discovery session.
func fetchThings(runtime *discovery.Runtime, candidate *discovery.Candidate) tea.Cmd {
	return func() tea.Msg {
		filter, err := candidate.Filter()
		if err != nil {
			return thingLoadedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		session := runtime.NewSession(filter)
		things, err := session.Collect(ctx)
		return thingLoadedMsg{things: things, err: err}
	}
}
