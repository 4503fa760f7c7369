package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderOptions configures markdown rendering. Zero values disable the
// corresponding links and fall back to plain text.
type RenderOptions struct {
	// RepoURL enables the footer comparison links
	// (e.g. "https://github.com/example/project").
	RepoURL string
	// TicketURLTemplate turns ticket references into links; "{ticket}"
	// is replaced by the ID (e.g. "https://tracker.example.com/issues/{ticket}").
	TicketURLTemplate string
	// RefURLTemplate turns cross-reference labels into links; "{ref}"
	// is replaced by the label.
	RefURLTemplate string
}

// RenderMarkdown generates a markdown document from the compiled
// changelog. The function is idempotent: identical input produces
// identical output.
func RenderMarkdown(doc *Document, w io.Writer, opts RenderOptions) error {
	if err := renderHeader(doc, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i, r := range doc.Releases {
		if err := renderRelease(&r, w, opts, i == 0); err != nil {
			return fmt.Errorf("rendering release %s: %w", r.Version, err)
		}
	}

	if err := renderFooterLinks(doc, w, opts); err != nil {
		return fmt.Errorf("rendering footer links: %w", err)
	}

	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(doc *Document, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(doc, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderHeader(doc *Document, w io.Writer) error {
	header := `# Changelog

All notable changes to ` + doc.Project + ` are documented in this file.

`
	_, err := w.Write([]byte(header))
	return err
}

func renderRelease(r *Release, w io.Writer, opts RenderOptions, isFirst bool) error {
	if !isFirst {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte(formatReleaseHeader(r) + "\n")); err != nil {
		return err
	}

	for _, group := range groupByPrimaryTag(r.Entries) {
		if err := renderTagSection(group, w, opts); err != nil {
			return err
		}
	}

	return nil
}

func formatReleaseHeader(r *Release) string {
	if r.IsUnreleased() {
		return "## [Unreleased]"
	}
	return fmt.Sprintf("## [%s] - %s", r.Version, r.Released)
}

// tagGroup holds a release's entries sharing a primary tag, in the
// order the tag first appears.
type tagGroup struct {
	tag     string
	entries []Entry
}

func groupByPrimaryTag(entries []Entry) []tagGroup {
	var groups []tagGroup
	index := make(map[string]int)

	for _, e := range entries {
		tag := e.PrimaryTag()
		i, ok := index[tag]
		if !ok {
			i = len(groups)
			index[tag] = i
			groups = append(groups, tagGroup{tag: tag})
		}
		groups[i].entries = append(groups[i].entries, e)
	}

	return groups
}

func renderTagSection(group tagGroup, w io.Writer, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "\n### %s\n", group.tag); err != nil {
		return err
	}

	for _, e := range group.entries {
		if _, err := fmt.Fprintf(w, "- %s\n", formatEntryMarkdown(e, opts)); err != nil {
			return err
		}
	}

	return nil
}

// formatEntryMarkdown renders one entry as a list item: secondary tags
// in brackets, the body, then ticket and ref annotations.
func formatEntryMarkdown(e Entry, opts RenderOptions) string {
	var b strings.Builder

	if len(e.Tags) > 1 {
		b.WriteString("**[")
		b.WriteString(strings.Join(e.Tags[1:], ", "))
		b.WriteString("]** ")
	}

	b.WriteString(strings.ReplaceAll(e.Body, "\n\n", " "))

	var annotations []string
	for _, t := range e.Tickets {
		annotations = append(annotations, formatTicket(t, opts))
	}
	for _, ref := range e.Refs {
		if opts.RefURLTemplate != "" {
			annotations = append(annotations,
				fmt.Sprintf("[%s](%s)", ref, strings.ReplaceAll(opts.RefURLTemplate, "{ref}", ref)))
		}
	}
	if len(annotations) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(annotations, ", "))
		b.WriteString(")")
	}

	return b.String()
}

func formatTicket(ticket int, opts RenderOptions) string {
	if opts.TicketURLTemplate == "" {
		return fmt.Sprintf("#%d", ticket)
	}
	url := strings.ReplaceAll(opts.TicketURLTemplate, "{ticket}", fmt.Sprintf("%d", ticket))
	return fmt.Sprintf("[#%d](%s)", ticket, url)
}

// renderFooterLinks writes version comparison links at the end of the
// document when a repository URL is configured.
func renderFooterLinks(doc *Document, w io.Writer, opts RenderOptions) error {
	if opts.RepoURL == "" || len(doc.Releases) == 0 {
		return nil
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}

	for i, r := range doc.Releases {
		link := formatVersionLink(r, doc.Releases, i, opts.RepoURL)
		if link == "" {
			continue
		}
		if _, err := w.Write([]byte(link + "\n")); err != nil {
			return err
		}
	}
	return nil
}

func formatVersionLink(r Release, releases []Release, index int, repoURL string) string {
	// Tag names always carry a single "v" prefix regardless of how the
	// document writes its versions.
	tag := func(version string) string {
		return "v" + NormalizeVersion(version)
	}

	if r.IsUnreleased() {
		if index+1 < len(releases) {
			return fmt.Sprintf("[Unreleased]: %s/compare/%s...HEAD", repoURL, tag(releases[index+1].Version))
		}
		return ""
	}

	if index+1 < len(releases) {
		return fmt.Sprintf("[%s]: %s/compare/%s...%s", r.Version, repoURL, tag(releases[index+1].Version), tag(r.Version))
	}
	return fmt.Sprintf("[%s]: %s/releases/tag/%s", r.Version, repoURL, tag(r.Version))
}
