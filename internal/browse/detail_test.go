package browse

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wotscout/wotscout/internal/discovery"
	"github.com/wotscout/wotscout/internal/td"
)

func newTestDetail() DetailModel {
	return NewDetailModel(discovery.NewRuntime(nil, nil), testCandidate("lamp"))
}

func TestDetailModelLoadLifecycle(t *testing.T) {
	m := newTestDetail()

	updated, _ := m.Update(loadStartMsg{})
	m = updated.(DetailModel)
	if !m.Loading {
		t.Error("Loading = false after loadStartMsg, want true")
	}

	thing := &td.ThingDescription{Title: "Lamp", ID: "urn:dev:ops:lamp-1"}
	updated, _ = m.Update(thingLoadedMsg{things: []*td.ThingDescription{thing}})
	m = updated.(DetailModel)

	if m.Loading {
		t.Error("Loading = true after thingLoadedMsg, want false")
	}
	if len(m.Things) != 1 {
		t.Fatalf("len(Things) = %d, want 1", len(m.Things))
	}
	if m.Err != nil {
		t.Errorf("Err = %v, want nil", m.Err)
	}
}

func TestDetailModelLoadFailure(t *testing.T) {
	m := newTestDetail()

	updated, _ := m.Update(loadStartMsg{})
	m = updated.(DetailModel)
	updated, _ = m.Update(thingLoadedMsg{err: errors.New("connection refused")})
	m = updated.(DetailModel)

	if m.Loading {
		t.Error("Loading = true after failure, want false")
	}
	if m.Err == nil {
		t.Error("Err = nil after failure, want error")
	}
}

func TestDetailModelBackRequested(t *testing.T) {
	m := newTestDetail()

	updated, _ := m.Update(keyMsg("b"))
	m = updated.(DetailModel)
	if !m.BackRequested {
		t.Error("BackRequested = false after 'b', want true")
	}

	m = newTestDetail()
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(DetailModel)
	if !m.BackRequested {
		t.Error("BackRequested = false after esc, want true")
	}
}

func TestDetailModelBackIgnoredWhileLoading(t *testing.T) {
	m := newTestDetail()

	updated, _ := m.Update(loadStartMsg{})
	m = updated.(DetailModel)
	updated, _ = m.Update(keyMsg("b"))
	m = updated.(DetailModel)

	if m.BackRequested {
		t.Error("BackRequested = true during load, want false")
	}
}

func TestDetailModelReloadResets(t *testing.T) {
	m := newTestDetail()

	thing := &td.ThingDescription{Title: "Lamp"}
	updated, _ := m.Update(thingLoadedMsg{things: []*td.ThingDescription{thing}, err: errors.New("partial")})
	m = updated.(DetailModel)

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(DetailModel)

	if len(m.Things) != 0 {
		t.Errorf("len(Things) = %d after reload, want 0", len(m.Things))
	}
	if m.Err != nil {
		t.Errorf("Err = %v after reload, want nil", m.Err)
	}
	if cmd == nil {
		t.Error("reload cmd = nil, want the fetch command")
	}
}

func TestRenderThingSummary(t *testing.T) {
	thing := &td.ThingDescription{
		Title:       "Kitchen Lamp",
		ID:          "urn:dev:ops:lamp-1",
		Description: "A dimmable ceiling lamp",
		Security:    []string{"nosec_sc"},
		Properties: map[string]td.Property{
			"brightness": {},
			"status":     {},
		},
		Actions: map[string]td.Action{
			"toggle": {},
		},
		Links: []td.Link{
			{Href: "https://example.com/manual.pdf"},
		},
	}

	summary := renderThingSummary(thing)

	for _, want := range []string{
		"Kitchen Lamp",
		"urn:dev:ops:lamp-1",
		"2 (brightness, status)",
		"1 (toggle)",
		"nosec_sc",
		"https://example.com/manual.pdf",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if !strings.Contains(summary, "none") {
		t.Errorf("summary should report the empty event set as none:\n%s", summary)
	}
}

func TestSummarizeNames(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{name: "empty", names: nil, want: "none"},
		{name: "single", names: []string{"on"}, want: "1 (on)"},
		{name: "several", names: []string{"a", "b", "c"}, want: "3 (a, b, c)"},
		{
			name:  "collapsed",
			names: []string{"a", "b", "c", "d", "e", "f", "g"},
			want:  "7 (a, b, c, d, e, …)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizeNames(tt.names); got != tt.want {
				t.Errorf("summarizeNames(%v) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "short unchanged", s: "lamp", n: 10, want: "lamp"},
		{name: "exact unchanged", s: "lamp", n: 4, want: "lamp"},
		{name: "cut", s: "a very long description", n: 6, want: "a very…"},
		{name: "multibyte safe", s: "héllo wörld", n: 5, want: "héllo…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.s, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}
