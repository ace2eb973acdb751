package omnibox

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidTrigger is returned when a command trigger is empty or does not compile.
var ErrInvalidTrigger = errors.New("invalid trigger")

// DefaultIssueNumber is used by the issue detail command when the typed
// fragment carries no digits.
const DefaultIssueNumber = "123"

// URLBuilder builds the destination of a command for the resolved repository
// name and the raw command fragment typed after the separator.
type URLBuilder func(name, fragment string) string

// Command is a single entry of the command table.
type Command struct {
	Trigger     string // Regular expression matched case-insensitively against the whole fragment
	Description string
	URL         URLBuilder
}

// PathCommand returns a command that opens base/<name>/<path>.
func PathCommand(base, trigger, description, path string) Command {
	base = strings.TrimRight(base, "/")
	path = strings.Trim(path, "/")
	return Command{
		Trigger:     trigger,
		Description: description,
		URL: func(name, _ string) string {
			return base + "/" + name + "/" + path
		},
	}
}

var nonDigits = regexp.MustCompile(`\D+`)

// IssueCommand returns a command that opens base/<name>/issues/<number>, where
// number is taken from the digits of the typed fragment.
func IssueCommand(base, trigger, description string) Command {
	base = strings.TrimRight(base, "/")
	return Command{
		Trigger:     trigger,
		Description: description,
		URL: func(name, fragment string) string {
			number := nonDigits.ReplaceAllString(fragment, "")
			if number == "" {
				number = DefaultIssueNumber
			}
			return base + "/" + name + "/issues/" + number
		},
	}
}

// DefaultCommands returns the built-in command table for an organization base URL.
// Order is match priority.
func DefaultCommands(base string) []Command {
	return []Command{
		PathCommand(base, "p", "pull requests", "pulls"),
		PathCommand(base, "i", "issues", "issues"),
		PathCommand(base, "w", "wiki", "wiki/_pages"),
		IssueCommand(base, `\d+`, "issue detail"),
	}
}

type compiledCommand struct {
	Command
	re *regexp.Regexp
}

// Registry is an immutable, ordered command table. When several triggers
// match the same fragment, the command registered first wins.
type Registry struct {
	commands []compiledCommand
	pattern  string
}

// NewRegistry compiles the triggers of cmds, keeping their order.
func NewRegistry(cmds ...Command) (*Registry, error) {
	reg := &Registry{commands: make([]compiledCommand, 0, len(cmds))}
	alternatives := make([]string, 0, len(cmds))

	for i, cmd := range cmds {
		if cmd.Trigger == "" {
			return nil, fmt.Errorf("command %d: %w: empty trigger", i, ErrInvalidTrigger)
		}
		if cmd.URL == nil {
			return nil, fmt.Errorf("command %q: missing url builder", cmd.Trigger)
		}
		if _, err := regexp.Compile(cmd.Trigger); err != nil {
			return nil, fmt.Errorf("command %q: %w: %v", cmd.Trigger, ErrInvalidTrigger, err)
		}
		re, err := regexp.Compile(`^(?i:` + cmd.Trigger + `)$`)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w: %v", cmd.Trigger, ErrInvalidTrigger, err)
		}
		reg.commands = append(reg.commands, compiledCommand{Command: cmd, re: re})
		alternatives = append(alternatives, "(?:"+cmd.Trigger+")")
	}

	reg.pattern = "(?i:" + strings.Join(alternatives, "|") + ")"
	return reg, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(cmds ...Command) *Registry {
	reg, err := NewRegistry(cmds...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, len(r.commands))
	for i, c := range r.commands {
		cmds[i] = c.Command
	}
	return cmds
}

// Triggers returns the trigger patterns in registration order.
func (r *Registry) Triggers() []string {
	triggers := make([]string, len(r.commands))
	for i, c := range r.commands {
		triggers[i] = c.Trigger
	}
	return triggers
}

// Pattern returns the case-insensitive union of all triggers, unanchored.
// It is empty when the registry has no commands.
func (r *Registry) Pattern() string {
	if len(r.commands) == 0 {
		return ""
	}
	return r.pattern
}

// FirstMatching returns the first registered command whose trigger matches the
// whole fragment.
func (r *Registry) FirstMatching(fragment string) (Command, bool) {
	for _, c := range r.commands {
		if c.re.MatchString(fragment) {
			return c.Command, true
		}
	}
	return Command{}, false
}
