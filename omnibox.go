// Package omnibox turns text typed in a launcher into ranked repository
// suggestions and, on confirmation, a single destination to open.
package omnibox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Suggestion is a navigable option with its display text.
type Suggestion struct {
	Destination string `json:"destination"`
	Description string `json:"description"`
}

// CandidateSource provides the current list of repository names. Errors are
// absorbed by the Omnibox and treated as an empty list.
type CandidateSource interface {
	Load(ctx context.Context) ([]string, error)
}

// SourceFunc adapts a function to CandidateSource.
type SourceFunc func(ctx context.Context) ([]string, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Navigator opens a destination.
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// SuggestionSink receives the two outputs of a suggestion request.
type SuggestionSink interface {
	Present(suggestions []Suggestion)
	SetDefault(description string)
}

// Options configures an Omnibox.
type Options struct {
	BaseURL   string          // Organization URL, ex. https://github.com/bebanjo
	Commands  []Command       // Command table in priority order (nil = DefaultCommands(BaseURL))
	Source    CandidateSource // Repository names (required)
	Navigator Navigator       // Destination sink (nil = no-op)
	Limit     int             // Suggestions while writing a name (default DefaultSuggestionLimit)
	Logger    *slog.Logger    // Logger (nil = slog.Default())
}

// Omnibox resolves typed text against the repositories of an organization.
// It keeps no state between events; concurrent calls are independent.
type Omnibox struct {
	base       string
	registry   *Registry
	classifier *Classifier
	source     CandidateSource
	navigator  Navigator
	limit      int
	log        *slog.Logger
}

// Inference is the outcome of a suggestion request.
type Inference struct {
	Event       string // Identifier of the input event, for log correlation
	State       State
	Suggestions []Suggestion
	Default     string // Default suggestion description, with match markup
}

// New builds an Omnibox. The command registry and the classifier grammar are
// fixed here.
func New(cfg Options) (*Omnibox, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("candidate source is required")
	}

	cmds := cfg.Commands
	if cmds == nil {
		cmds = DefaultCommands(base)
	}
	registry, err := NewRegistry(cmds...)
	if err != nil {
		return nil, fmt.Errorf("build command registry: %w", err)
	}

	if cfg.Navigator == nil {
		cfg.Navigator = NavigatorFunc(func(context.Context, string) error { return nil })
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultSuggestionLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Omnibox{
		base:       base,
		registry:   registry,
		classifier: NewClassifier(registry),
		source:     cfg.Source,
		navigator:  cfg.Navigator,
		limit:      cfg.Limit,
		log:        cfg.Logger,
	}, nil
}

// BaseURL returns the organization URL without trailing slash.
func (o *Omnibox) BaseURL() string {
	return o.base
}

// Registry returns the command table.
func (o *Omnibox) Registry() *Registry {
	return o.registry
}

// Classify returns the state for text.
func (o *Omnibox) Classify(text string) State {
	return o.classifier.Classify(text)
}

// RepositoryURL returns the page of a repository.
func (o *Omnibox) RepositoryURL(name string) string {
	return o.base + "/" + name
}

// Infer computes the suggestions and the default suggestion for text.
func (o *Omnibox) Infer(ctx context.Context, text string) Inference {
	state := o.Classify(text)
	inf := Inference{
		Event:       uuid.NewString(),
		State:       state,
		Suggestions: []Suggestion{},
	}
	o.log.Debug("infer", "event", inf.Event, "state", state.Kind, "text", text)

	switch state.Kind {
	case WritingName:
		names := o.rank(ctx, inf.Event, state.Text, o.limit)
		if len(names) == 0 {
			inf.Default = FormatNoCandidates(state.Text)
			break
		}
		for _, name := range names {
			inf.Suggestions = append(inf.Suggestions, Suggestion{
				Destination: o.RepositoryURL(name),
				Description: escape(name),
			})
		}
		inf.Default = FormatWritingName(names[0], o.RepositoryURL(names[0]))

	case NameConfirmed:
		name, ok := o.best(ctx, inf.Event, state.NameFragment())
		if !ok {
			inf.Default = FormatNoCandidates(state.NameFragment())
			break
		}
		cmds := o.registry.Commands()
		for _, cmd := range cmds {
			inf.Suggestions = append(inf.Suggestions, Suggestion{
				Destination: cmd.URL(name, ""),
				Description: escape(name + Separator + cmd.Trigger),
			})
		}
		inf.Default = FormatCommandList(cmds)

	case CommandTyped:
		dest, ok := o.commandDestination(ctx, inf.Event, state)
		if !ok {
			inf.Default = FormatNoCandidates(state.NameFragment())
			break
		}
		inf.Default = escape(dest)

	case Unrecognized:
		inf.Default = UnrecognizedHint
	}

	return inf
}

// Suggest runs Infer and hands its outputs to sink: Present and SetDefault
// are each called exactly once. When calls overlap, the last SetDefault wins.
func (o *Omnibox) Suggest(ctx context.Context, text string, sink SuggestionSink) Inference {
	inf := o.Infer(ctx, text)
	sink.Present(inf.Suggestions)
	sink.SetDefault(inf.Default)
	return inf
}

// Resolve returns the single destination text confirms to. It reports false
// for unrecognized text and when no repository is available.
func (o *Omnibox) Resolve(ctx context.Context, text string) (string, bool) {
	return o.resolve(ctx, uuid.NewString(), o.Classify(text))
}

// Enter resolves text and opens the destination. The navigator is called at
// most once; nothing happens when there is nothing to resolve.
func (o *Omnibox) Enter(ctx context.Context, text string) error {
	event := uuid.NewString()
	state := o.Classify(text)
	o.log.Debug("enter", "event", event, "state", state.Kind, "text", text)

	dest, ok := o.resolve(ctx, event, state)
	if !ok {
		return nil
	}
	if err := o.navigator.Open(ctx, dest); err != nil {
		return fmt.Errorf("open %s: %w", dest, err)
	}
	return nil
}

func (o *Omnibox) resolve(ctx context.Context, event string, state State) (string, bool) {
	switch state.Kind {
	case WritingName, NameConfirmed:
		name, ok := o.best(ctx, event, state.NameFragment())
		if !ok {
			return "", false
		}
		return o.RepositoryURL(name), true
	case CommandTyped:
		return o.commandDestination(ctx, event, state)
	default:
		return "", false
	}
}

func (o *Omnibox) commandDestination(ctx context.Context, event string, state State) (string, bool) {
	fragment := state.CommandFragment()
	cmd, ok := o.registry.FirstMatching(fragment)
	if !ok {
		return "", false
	}
	name, ok := o.best(ctx, event, state.NameFragment())
	if !ok {
		return "", false
	}
	return cmd.URL(name, fragment), true
}

func (o *Omnibox) best(ctx context.Context, event, query string) (string, bool) {
	names := o.rank(ctx, event, query, 1)
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

func (o *Omnibox) rank(ctx context.Context, event, query string, limit int) []string {
	candidates, err := o.source.Load(ctx)
	if err != nil {
		// Non-fatal: an unavailable source behaves as an empty one
		o.log.Warn("load candidates failed", "event", event, "error", err)
		return nil
	}
	return Rank(query, candidates, limit)
}
