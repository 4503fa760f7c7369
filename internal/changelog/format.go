package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// tagColors maps well-known tags to their terminal color. Tags outside
// the map render with the default color.
var tagColors = map[string]*color.Color{
	"bug":        color.New(color.FgYellow),
	"feature":    color.New(color.FgGreen),
	"change":     color.New(color.FgBlue),
	"changed":    color.New(color.FgBlue),
	"removed":    color.New(color.FgRed),
	"deprecated": color.New(color.FgRed),
	"moved":      color.New(color.FgCyan),
	"security":   color.New(color.FgMagenta),
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes entries to the writer with terminal styling,
// grouped by version with colored tag badges.
func FormatTerminal(entries []FlatEntry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i, group := range groupEntriesByVersion(entries) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatVersionGroup(group, w, opts, width); err != nil {
			return fmt.Errorf("formatting version %s: %w", group.version, err)
		}
	}

	return nil
}

// FormatRelease writes a single release's entries to the writer.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(r.Version, r.Released, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range r.Flatten() {
		if err := writeEntryLine(e, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

type versionGroup struct {
	version string
	entries []FlatEntry
}

// groupEntriesByVersion groups entries by version, preserving order.
func groupEntriesByVersion(entries []FlatEntry) []versionGroup {
	var groups []versionGroup
	var current *versionGroup

	for _, e := range entries {
		if current == nil || current.version != e.Version {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &versionGroup{version: e.Version}
		}
		current.entries = append(current.entries, e)
	}

	if current != nil {
		groups = append(groups, *current)
	}

	return groups
}

func formatVersionGroup(group versionGroup, w io.Writer, opts FormatOptions, width int) error {
	if err := writeVersionHeader(group.version, "", w, opts); err != nil {
		return err
	}

	for _, e := range group.entries {
		if err := writeEntryLine(e, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

func writeVersionHeader(version, released string, w io.Writer, opts FormatOptions) error {
	var header string
	switch {
	case version == VersionUnreleased:
		header = "Unreleased"
	case released != "":
		header = fmt.Sprintf("v%s (%s)", version, released)
	default:
		header = fmt.Sprintf("v%s", version)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeEntryLine writes one entry: tag badges, wrapped body, tickets.
func writeEntryLine(e FlatEntry, w io.Writer, opts FormatOptions, width int) error {
	badges := formatBadges(e.Tags, opts)
	tickets := formatTicketList(e.Entry.Tickets, opts)

	prefix := "  - "
	body := strings.ReplaceAll(e.Body, "\n\n", " ")
	wrapped := wrapText(body, width-len(prefix), "    ")

	line := prefix + badges + wrapped + tickets
	_, err := fmt.Fprintln(w, line)
	return err
}

func formatBadges(tags []string, opts FormatOptions) string {
	if len(tags) == 0 {
		return ""
	}

	var b strings.Builder
	for _, tag := range tags {
		if opts.Plain {
			fmt.Fprintf(&b, "[%s] ", tag)
			continue
		}
		c, ok := tagColors[tag]
		if !ok {
			c = color.New(color.FgWhite)
		}
		fmt.Fprintf(&b, "[%s] ", c.Sprint(tag))
	}
	return b.String()
}

func formatTicketList(tickets []int, opts FormatOptions) string {
	if len(tickets) == 0 {
		return ""
	}

	refs := make([]string, len(tickets))
	for i, t := range tickets {
		refs[i] = fmt.Sprintf("#%d", t)
	}
	annotation := " (" + strings.Join(refs, ", ") + ")"

	if opts.Plain {
		return annotation
	}
	return color.New(color.Faint).Sprint(annotation)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for
// continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(e FlatEntry, opts FormatOptions) string {
	text := truncateText(strings.ReplaceAll(e.Body, "\n\n", " "), 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", e.PrimaryTag(), text)
	}

	c, ok := tagColors[e.PrimaryTag()]
	if !ok {
		c = color.New(color.FgWhite)
	}
	return fmt.Sprintf("[%s] %s", c.Sprint(e.PrimaryTag()), text)
}

func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
