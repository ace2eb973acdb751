package omnibox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// recordingNavigator records every opened destination.
type recordingNavigator struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (n *recordingNavigator) Open(_ context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, url)
	return n.err
}

// recordingSink records the outputs of Suggest.
type recordingSink struct {
	presented [][]Suggestion
	defaults  []string
}

func (s *recordingSink) Present(suggestions []Suggestion) {
	s.presented = append(s.presented, suggestions)
}

func (s *recordingSink) SetDefault(description string) {
	s.defaults = append(s.defaults, description)
}

// countingSource serves a fixed list and counts loads.
type countingSource struct {
	names []string
	err   error
	loads int
}

func (s *countingSource) Load(context.Context) ([]string, error) {
	s.loads++
	return s.names, s.err
}

// newTestOmnibox creates an Omnibox over names with a recording navigator.
func newTestOmnibox(t *testing.T, names ...string) (*Omnibox, *recordingNavigator) {
	t.Helper()
	nav := &recordingNavigator{}
	o, err := New(Options{
		BaseURL:   testBase,
		Source:    &countingSource{names: names},
		Navigator: nav,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, nav
}

func TestNewValidation(t *testing.T) {
	src := &countingSource{}
	if _, err := New(Options{Source: src}); err == nil {
		t.Error("expected error for missing base url, got nil")
	}
	if _, err := New(Options{BaseURL: testBase}); err == nil {
		t.Error("expected error for missing source, got nil")
	}
	_, err := New(Options{BaseURL: testBase, Source: src, Commands: []Command{PathCommand(testBase, "(", "x", "x")}})
	if !errors.Is(err, ErrInvalidTrigger) {
		t.Errorf("error = %v, want ErrInvalidTrigger", err)
	}
}

func TestNewTrimsBaseURL(t *testing.T) {
	o, err := New(Options{BaseURL: testBase + "/", Source: &countingSource{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.BaseURL() != testBase {
		t.Errorf("BaseURL() = %q, want %q", o.BaseURL(), testBase)
	}
}

func TestInferWritingName(t *testing.T) {
	o, _ := newTestOmnibox(t, "sequence", "movida-account-setup-scripts", "movid", "movida", "sheriff", "support", "tron")

	inf := o.Infer(context.Background(), "mov")
	if inf.State.Kind != WritingName {
		t.Fatalf("State = %s, want writing_name", inf.State.Kind)
	}
	if inf.Event == "" {
		t.Error("expected event id")
	}
	if len(inf.Suggestions) != DefaultSuggestionLimit {
		t.Fatalf("len(Suggestions) = %d, want %d", len(inf.Suggestions), DefaultSuggestionLimit)
	}

	first := inf.Suggestions[0]
	if first.Description != "movid" || first.Destination != testBase+"/movid" {
		t.Errorf("first suggestion = %+v, want movid", first)
	}
	if inf.Suggestions[1].Description != "movida" {
		t.Errorf("second suggestion = %q, want movida", inf.Suggestions[1].Description)
	}
	if inf.Suggestions[2].Description != "movida-account-setup-scripts" {
		t.Errorf("third suggestion = %q, want movida-account-setup-scripts", inf.Suggestions[2].Description)
	}

	want := FormatWritingName("movid", testBase+"/movid")
	if inf.Default != want {
		t.Errorf("Default = %q, want %q", inf.Default, want)
	}
}

func TestInferWritingNameFewerCandidatesThanLimit(t *testing.T) {
	o, _ := newTestOmnibox(t, "movida", "sequence")

	inf := o.Infer(context.Background(), "seq")
	if len(inf.Suggestions) != 2 {
		t.Fatalf("len(Suggestions) = %d, want 2", len(inf.Suggestions))
	}
	if inf.Suggestions[0].Description != "sequence" {
		t.Errorf("first suggestion = %q, want sequence", inf.Suggestions[0].Description)
	}
}

func TestInferNameConfirmed(t *testing.T) {
	o, _ := newTestOmnibox(t, "sequence", "movida")

	inf := o.Infer(context.Background(), "movida#")
	if inf.State.Kind != NameConfirmed {
		t.Fatalf("State = %s, want name_confirmed", inf.State.Kind)
	}

	want := []Suggestion{
		{Destination: testBase + "/movida/pulls", Description: "movida#p"},
		{Destination: testBase + "/movida/issues", Description: "movida#i"},
		{Destination: testBase + "/movida/wiki/_pages", Description: "movida#w"},
		{Destination: testBase + "/movida/issues/123", Description: `movida#\d+`},
	}
	if len(inf.Suggestions) != len(want) {
		t.Fatalf("Suggestions = %+v, want %d entries", inf.Suggestions, len(want))
	}
	for i := range want {
		if inf.Suggestions[i] != want[i] {
			t.Errorf("Suggestions[%d] = %+v, want %+v", i, inf.Suggestions[i], want[i])
		}
	}

	for _, fragment := range []string{"<match>p</match> (pull requests)", "<match>i</match> (issues)", "<match>w</match> (wiki)", `<match>\d+</match> (issue detail)`} {
		if !strings.Contains(inf.Default, fragment) {
			t.Errorf("Default = %q, want to contain %q", inf.Default, fragment)
		}
	}
}

func TestInferCommandTyped(t *testing.T) {
	o, _ := newTestOmnibox(t, "movida", "sequence")

	inf := o.Infer(context.Background(), "seq#i")
	if inf.State.Kind != CommandTyped {
		t.Fatalf("State = %s, want command_typed", inf.State.Kind)
	}
	if len(inf.Suggestions) != 0 {
		t.Errorf("Suggestions = %+v, want none", inf.Suggestions)
	}
	if inf.Default != testBase+"/sequence/issues" {
		t.Errorf("Default = %q, want %q", inf.Default, testBase+"/sequence/issues")
	}
}

func TestInferUnrecognizedSkipsSource(t *testing.T) {
	src := &countingSource{names: []string{"movida"}}
	o, err := New(Options{BaseURL: testBase, Source: src, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inf := o.Infer(context.Background(), "mov!")
	if inf.State.Kind != Unrecognized {
		t.Fatalf("State = %s, want unrecognized", inf.State.Kind)
	}
	if inf.Default != UnrecognizedHint {
		t.Errorf("Default = %q, want hint", inf.Default)
	}
	if src.loads != 0 {
		t.Errorf("source loaded %d times, want 0", src.loads)
	}
}

func TestInferNoCandidates(t *testing.T) {
	o, _ := newTestOmnibox(t)

	for _, text := range []string{"mov", "movida#", "movida#p"} {
		inf := o.Infer(context.Background(), text)
		if len(inf.Suggestions) != 0 {
			t.Errorf("Infer(%q) Suggestions = %+v, want none", text, inf.Suggestions)
		}
		if inf.Default != FormatNoCandidates(inf.State.NameFragment()) {
			t.Errorf("Infer(%q) Default = %q", text, inf.Default)
		}
	}
}

func TestInferSourceErrorIsAbsorbed(t *testing.T) {
	nav := &recordingNavigator{}
	o, err := New(Options{
		BaseURL:   testBase,
		Source:    &countingSource{err: errors.New("network down")},
		Navigator: nav,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inf := o.Infer(context.Background(), "mov")
	if len(inf.Suggestions) != 0 {
		t.Errorf("Suggestions = %+v, want none", inf.Suggestions)
	}
	if err := o.Enter(context.Background(), "mov"); err != nil {
		t.Errorf("Enter: %v", err)
	}
	if len(nav.opened) != 0 {
		t.Errorf("opened = %v, want nothing", nav.opened)
	}
}

func TestSuggestCallsSinkOnce(t *testing.T) {
	o, _ := newTestOmnibox(t, "movida")

	for _, text := range []string{"mov", "movida#", "movida#p", "mov!"} {
		sink := &recordingSink{}
		inf := o.Suggest(context.Background(), text, sink)
		if len(sink.presented) != 1 {
			t.Errorf("Suggest(%q) presented %d times, want 1", text, len(sink.presented))
		}
		if len(sink.defaults) != 1 {
			t.Fatalf("Suggest(%q) set default %d times, want 1", text, len(sink.defaults))
		}
		if sink.defaults[0] != inf.Default {
			t.Errorf("Suggest(%q) default = %q, want %q", text, sink.defaults[0], inf.Default)
		}
	}
}

func TestEnterResolvesPullRequests(t *testing.T) {
	o, nav := newTestOmnibox(t, "movida", "sequence")

	if err := o.Enter(context.Background(), "movida#p"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/movida/pulls" {
		t.Errorf("opened = %v, want [%s/movida/pulls]", nav.opened, testBase)
	}
}

func TestEnterResolvesIssueNumber(t *testing.T) {
	o, nav := newTestOmnibox(t, "movida")

	if err := o.Enter(context.Background(), "movida#42"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/movida/issues/42" {
		t.Errorf("opened = %v, want [%s/movida/issues/42]", nav.opened, testBase)
	}
}

func TestEnterOpensRepository(t *testing.T) {
	o, nav := newTestOmnibox(t, "sequence", "movida")

	for _, text := range []string{"mov", "movida#"} {
		nav.opened = nil
		if err := o.Enter(context.Background(), text); err != nil {
			t.Fatalf("Enter(%q): %v", text, err)
		}
		if len(nav.opened) != 1 || nav.opened[0] != testBase+"/movida" {
			t.Errorf("Enter(%q) opened = %v, want [%s/movida]", text, nav.opened, testBase)
		}
	}
}

func TestEnterRanksNameFragmentOnly(t *testing.T) {
	// Ranked against the full text "ab#p", "b#p" would share three characters.
	o, nav := newTestOmnibox(t, "b#p", "abx")

	if err := o.Enter(context.Background(), "ab#p"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/abx/pulls" {
		t.Errorf("opened = %v, want [%s/abx/pulls]", nav.opened, testBase)
	}

	nav.opened = nil
	if err := o.Enter(context.Background(), "ab#"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/abx" {
		t.Errorf("opened = %v, want [%s/abx]", nav.opened, testBase)
	}
}

func TestEnterNoOps(t *testing.T) {
	o, nav := newTestOmnibox(t)
	if err := o.Enter(context.Background(), "anything"); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	withNames, nav2 := newTestOmnibox(t, "movida")
	for _, text := range []string{"mov!", "movida#zz", "a#b#c", ""} {
		if err := withNames.Enter(context.Background(), text); err != nil {
			t.Errorf("Enter(%q): %v", text, err)
		}
	}

	if len(nav.opened)+len(nav2.opened) != 0 {
		t.Errorf("opened = %v %v, want nothing", nav.opened, nav2.opened)
	}
}

func TestEnterNavigatorError(t *testing.T) {
	o, nav := newTestOmnibox(t, "movida")
	nav.err = errors.New("no browser")

	err := o.Enter(context.Background(), "movida")
	if err == nil || !strings.Contains(err.Error(), "no browser") {
		t.Errorf("Enter error = %v, want navigator error", err)
	}
	if len(nav.opened) != 1 {
		t.Errorf("opened %d times, want 1", len(nav.opened))
	}
}

func TestEnterFirstRegisteredCommandWins(t *testing.T) {
	nav := &recordingNavigator{}
	o, err := New(Options{
		BaseURL: testBase,
		Commands: []Command{
			PathCommand(testBase, `\d+`, "numbered", "first"),
			IssueCommand(testBase, `\d+`, "issue detail"),
		},
		Source:    &countingSource{names: []string{"movida"}},
		Navigator: nav,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := o.Enter(context.Background(), "movida#42"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/movida/first" {
		t.Errorf("opened = %v, want [%s/movida/first]", nav.opened, testBase)
	}
}

func TestResolve(t *testing.T) {
	o, nav := newTestOmnibox(t, "movida", "sequence")

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"seq", testBase + "/sequence", true},
		{"seq#", testBase + "/sequence", true},
		{"seq#w", testBase + "/sequence/wiki/_pages", true},
		{"seq#zz", "", false},
		{"seq!", "", false},
	}
	for _, tt := range tests {
		got, ok := o.Resolve(context.Background(), tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
	if len(nav.opened) != 0 {
		t.Errorf("Resolve opened %v, want nothing", nav.opened)
	}
}

func TestDefaultNavigatorIsNoop(t *testing.T) {
	o, err := New(Options{BaseURL: testBase, Source: &countingSource{names: []string{"movida"}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Enter(context.Background(), "movida"); err != nil {
		t.Errorf("Enter: %v", err)
	}
}

func TestEnterCapitalizedNameWithCommand(t *testing.T) {
	o, nav := newTestOmnibox(t, "movida", "sequence")

	if err := o.Enter(context.Background(), "Movida#P"); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(nav.opened) != 1 || nav.opened[0] != testBase+"/movida/pulls" {
		t.Errorf("opened = %v, want [%s/movida/pulls]", nav.opened, testBase)
	}
}
