package omnibox

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Markup tags understood by suggestion renderers.
const (
	MatchOpen  = "<match>"
	MatchClose = "</match>"
)

// UnrecognizedHint is the default suggestion for text that drives to no action.
const UnrecognizedHint = "No match, try typing the first letters of a repository (ex. " + MatchOpen + "mov" + MatchClose + ")"

// Match wraps s in match tags, escaping it for the markup.
func Match(s string) string {
	return MatchOpen + html.EscapeString(s) + MatchClose
}

// FormatWritingName is the default suggestion while a name is typed: how to
// reach the commands of the best candidate, or visit it directly.
func FormatWritingName(name, url string) string {
	return fmt.Sprintf("Type %s to show commands for %s, or %s to visit %s",
		Match(Separator), Match(name), Match("⏎"), Match(url))
}

// FormatCommandList is the default suggestion once a name is confirmed: every
// trigger with its description, in registration order.
func FormatCommandList(cmds []Command) string {
	var b strings.Builder
	b.WriteString("Type one of [")
	for i, cmd := range cmds {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(fmt.Sprintf("%s (%s)", Match(cmd.Trigger), html.EscapeString(cmd.Description)))
	}
	b.WriteString("]")
	return b.String()
}

// FormatNoCandidates is the default suggestion when no repository is available.
func FormatNoCandidates(text string) string {
	return "No repository matches " + Match(text)
}

// Segment is a piece of a markup string.
type Segment struct {
	Text  string
	Match bool
}

var markupTag = regexp.MustCompile(`</?match>`)

// ParseMarkup splits a suggestion description into plain and matched
// segments, unescaping entities. Unbalanced tags are tolerated.
func ParseMarkup(s string) []Segment {
	var segments []Segment
	inMatch := false
	last := 0
	for _, loc := range markupTag.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: html.UnescapeString(s[last:loc[0]]), Match: inMatch})
		}
		inMatch = s[loc[0]:loc[1]] == MatchOpen
		last = loc[1]
	}
	if last < len(s) {
		segments = append(segments, Segment{Text: html.UnescapeString(s[last:]), Match: inMatch})
	}
	return segments
}

// RenderMarkup rebuilds s with matched segments passed through highlight.
func RenderMarkup(s string, highlight func(string) string) string {
	var b strings.Builder
	for _, seg := range ParseMarkup(s) {
		if seg.Match && highlight != nil {
			b.WriteString(highlight(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// StripMarkup returns s as plain text.
func StripMarkup(s string) string {
	return RenderMarkup(s, nil)
}

// escape makes s safe to embed in a markup description.
func escape(s string) string {
	return html.EscapeString(s)
}
