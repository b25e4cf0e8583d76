package browse

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wotscout/wotscout/internal/discovery"
)

func newTestApp() AppModel {
	return NewAppModel(discovery.NewRuntime(nil, nil), 5*time.Second, true)
}

func TestAppModelStartsOnScanScreen(t *testing.T) {
	app := newTestApp()

	if app.CurrentScreen != ScreenScan {
		t.Errorf("CurrentScreen = %q, want %q", app.CurrentScreen, ScreenScan)
	}
	if app.Init() == nil {
		t.Error("Init() = nil, want the scan start command")
	}
}

func TestAppModelCtrlCQuits(t *testing.T) {
	app := newTestApp()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Update(ctrl+c) cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestAppModelQuitFromScanResults(t *testing.T) {
	app := newTestApp()

	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("Update(q) cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestAppModelWindowSizePropagates(t *testing.T) {
	app := newTestApp()

	updated, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = updated.(AppModel)

	if app.Width != 100 || app.Height != 40 {
		t.Errorf("app size = %dx%d, want 100x40", app.Width, app.Height)
	}
	if app.ScanModel.Width != 100 || app.ScanModel.Height != 40 {
		t.Errorf("scan size = %dx%d, want 100x40", app.ScanModel.Width, app.ScanModel.Height)
	}
}

func TestAppModelScanToDetailTransition(t *testing.T) {
	app := newTestApp()

	// Deliver scan results to the scan screen
	updated, _ := app.Update(scanCompleteMsg{candidates: []*discovery.Candidate{testCandidate("lamp")}})
	app = updated.(AppModel)

	// Select the only result
	updated, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenDetail {
		t.Fatalf("CurrentScreen = %q, want %q", app.CurrentScreen, ScreenDetail)
	}
	if app.PreviousScreen != ScreenScan {
		t.Errorf("PreviousScreen = %q, want %q", app.PreviousScreen, ScreenScan)
	}
	if app.SelectedCandidate == nil || app.SelectedCandidate.Instance != "lamp" {
		t.Errorf("SelectedCandidate = %v, want instance lamp", app.SelectedCandidate)
	}
	if app.DetailModel.Candidate != app.SelectedCandidate {
		t.Error("detail screen does not carry the selected candidate")
	}
	if cmd == nil {
		t.Error("transition cmd = nil, want the detail fetch command")
	}
}

func TestAppModelDetailBackReturnsToScan(t *testing.T) {
	app := newTestApp()

	updated, _ := app.Update(scanCompleteMsg{candidates: []*discovery.Candidate{testCandidate("lamp")}})
	app = updated.(AppModel)
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = updated.(AppModel)

	// Back from the detail screen restarts the scan screen
	updated, cmd := app.Update(keyMsg("b"))
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenScan {
		t.Fatalf("CurrentScreen = %q, want %q", app.CurrentScreen, ScreenScan)
	}
	if got := len(app.ScanModel.ThingList.Items()); got != 0 {
		t.Errorf("len(Items()) = %d after back, want 0 (fresh scan)", got)
	}
	if cmd == nil {
		t.Error("back cmd = nil, want the scan start command")
	}
}

func TestAppModelViewPerScreen(t *testing.T) {
	app := newTestApp()
	updated, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = updated.(AppModel)

	if app.View() == "" {
		t.Error("View() on scan screen is empty")
	}

	updated, _ = app.Update(scanCompleteMsg{candidates: []*discovery.Candidate{testCandidate("lamp")}})
	app = updated.(AppModel)
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = updated.(AppModel)

	if app.View() == "" {
		t.Error("View() on detail screen is empty")
	}
}
