package browse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wotscout/wotscout/internal/discovery"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenScan   Screen = "scan"
	ScreenDetail Screen = "detail"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	ScanModel   ScanModel
	DetailModel DetailModel

	// Shared application state
	SelectedCandidate *discovery.Candidate

	runtime     *discovery.Runtime
	scanTimeout time.Duration

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the scan screen.
// The runtime supplies the protocol clients used to fetch Thing
// Descriptions from selected candidates. With autoScan set, the scan
// screen browses the network as soon as it opens.
func NewAppModel(runtime *discovery.Runtime, scanTimeout time.Duration, autoScan bool) AppModel {
	// Size the first frame from the terminal; bubbletea delivers the
	// authoritative WindowSizeMsg right after startup
	width, height := GetTerminalSize()

	model := AppModel{
		CurrentScreen: ScreenScan,
		runtime:       runtime,
		scanTimeout:   scanTimeout,
		Width:         width,
		Height:        height,
	}

	model.ScanModel = NewScanModel(scanTimeout)
	model.ScanModel.AutoScan = autoScan
	model.ScanModel = resizeScan(model.ScanModel, width, height)

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenScan:
		return m.ScanModel.Init()
	case ScreenDetail:
		return m.DetailModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens so each resizes its components
		m.ScanModel = resizeScan(m.ScanModel, msg.Width, msg.Height)
		updatedDetail, _ := m.DetailModel.Update(msg)
		m.DetailModel = updatedDetail.(DetailModel)
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenScan:
		updated, c := m.ScanModel.Update(msg)
		m.ScanModel = updated.(ScanModel)
		cmd = c

		// Check if the user selected a Thing to inspect
		if m.ScanModel.Selected {
			m.SelectedCandidate = m.ScanModel.GetSelectedCandidate()
			if m.SelectedCandidate != nil {
				return m.transitionTo(ScreenDetail)
			}
			m.ScanModel.Selected = false
		}

	case ScreenDetail:
		updated, c := m.DetailModel.Update(msg)
		m.DetailModel = updated.(DetailModel)
		cmd = c

		// Check if the user wants to go back
		if m.DetailModel.BackRequested {
			return m.goBack()
		}
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	// Initialize the target screen with current state
	switch screen {
	case ScreenScan:
		m.ScanModel = NewScanModel(m.scanTimeout)
		m.ScanModel = resizeScan(m.ScanModel, m.Width, m.Height)
		cmd = m.ScanModel.Init()

	case ScreenDetail:
		m.DetailModel = NewDetailModel(m.runtime, m.SelectedCandidate)
		m.DetailModel.Width = m.Width
		m.DetailModel.Height = m.Height
		cmd = m.DetailModel.Init()
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenScan:
		// Can't go back from the scan screen - quit instead
		return m, tea.Quit

	case ScreenDetail:
		// Back to the scan screen; a fresh scan starts on entry
		return m.transitionTo(ScreenScan)

	default:
		return m, tea.Quit
	}
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenScan:
		return m.ScanModel.View()
	case ScreenDetail:
		return m.DetailModel.View()
	default:
		return "Unknown screen"
	}
}

// resizeScan applies terminal dimensions to a scan model through its
// own WindowSizeMsg handling, keeping the list sized consistently.
func resizeScan(scan ScanModel, width, height int) ScanModel {
	updated, _ := scan.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(ScanModel)
}
