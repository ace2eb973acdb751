package omnibox

import (
	"regexp"
	"strings"
)

// Separator divides the repository name from the command in typed text.
const Separator = "#"

// StateKind identifies what the user is doing with the typed text.
type StateKind int

const (
	// Unrecognized text drives to no known action (ex. "mo!").
	Unrecognized StateKind = iota
	// WritingName is a partial repository name (ex. "mov").
	WritingName
	// NameConfirmed is a name followed by the separator (ex. "movida#").
	NameConfirmed
	// CommandTyped is a name, the separator and a registered trigger (ex. "movida#i").
	CommandTyped
)

func (k StateKind) String() string {
	switch k {
	case WritingName:
		return "writing_name"
	case NameConfirmed:
		return "name_confirmed"
	case CommandTyped:
		return "command_typed"
	default:
		return "unrecognized"
	}
}

// State is the classification of one input event. States are built fresh for
// every event and carry nothing but the text they were built from.
type State struct {
	Kind StateKind
	Text string
}

// NameFragment returns the text before the separator.
func (s State) NameFragment() string {
	name, _, _ := strings.Cut(s.Text, Separator)
	return name
}

// CommandFragment returns the text after the separator, if any.
func (s State) CommandFragment() string {
	_, fragment, _ := strings.Cut(s.Text, Separator)
	return fragment
}

const nameChars = `[a-z0-9_-]+`

var (
	writingNameRe   = regexp.MustCompile(`^` + nameChars + `$`)
	nameConfirmedRe = regexp.MustCompile(`^` + nameChars + Separator + `$`)
)

// Classifier maps typed text to a State. The command grammar is built once
// from the registry, so the registry must be complete before the classifier
// is created.
type Classifier struct {
	commandTypedRe *regexp.Regexp // nil when no command is registered
}

// NewClassifier builds a classifier for the triggers of reg.
func NewClassifier(reg *Registry) *Classifier {
	c := &Classifier{}
	if pattern := reg.Pattern(); pattern != "" {
		c.commandTypedRe = regexp.MustCompile(`^(?i:` + nameChars + `)` + Separator + `(?:` + pattern + `)$`)
	}
	return c
}

// Classify returns the state for text. It is total: anything outside the
// three recognized shapes, including text with more than one separator, is
// Unrecognized. Names must be lowercase while written or confirmed; followed
// by a command they match regardless of case.
func (c *Classifier) Classify(text string) State {
	switch {
	case writingNameRe.MatchString(text):
		return State{Kind: WritingName, Text: text}
	case nameConfirmedRe.MatchString(text):
		return State{Kind: NameConfirmed, Text: strings.TrimSuffix(text, Separator)}
	case c.commandTypedRe != nil && c.commandTypedRe.MatchString(text):
		return State{Kind: CommandTyped, Text: text}
	default:
		return State{Kind: Unrecognized, Text: text}
	}
}
