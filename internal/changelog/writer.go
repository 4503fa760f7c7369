package changelog

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteDirective re-emits a document as canonical directive markup.
// Includes are not written; the output of a compiled document is
// self-contained. Parsing the output yields an equivalent document.
func WriteDirective(doc *Document, w io.Writer) error {
	if doc.Project != "" {
		if _, err := fmt.Fprintf(w, ".. project:: %s\n", doc.Project); err != nil {
			return err
		}
	}

	for _, r := range doc.Releases {
		if err := writeRelease(&r, w); err != nil {
			return fmt.Errorf("writing release %s: %w", r.Version, err)
		}
	}

	return nil
}

// WriteDirectiveString renders directive markup to a string.
func WriteDirectiveString(doc *Document) (string, error) {
	var b strings.Builder
	if err := WriteDirective(doc, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeRelease(r *Release, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\n.. changelog::\n    :version: %s\n", r.Version); err != nil {
		return err
	}
	if r.Released != "" {
		if _, err := fmt.Fprintf(w, "    :released: %s\n", r.Released); err != nil {
			return err
		}
	}

	for _, e := range r.Entries {
		if err := writeEntry(&e, w); err != nil {
			return err
		}
	}

	return nil
}

func writeEntry(e *Entry, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\n    .. change::\n        :tags: %s\n", strings.Join(e.Tags, ", ")); err != nil {
		return err
	}

	if len(e.Tickets) > 0 {
		tickets := make([]string, len(e.Tickets))
		for i, t := range e.Tickets {
			tickets[i] = fmt.Sprintf("%d", t)
		}
		if _, err := fmt.Fprintf(w, "        :tickets: %s\n", strings.Join(tickets, ", ")); err != nil {
			return err
		}
	}

	// Refs extracted from body roles round-trip through the body
	// itself; only labels absent from the body need an explicit field.
	var explicit []string
	for _, ref := range e.Refs {
		if !strings.Contains(e.Body, ":ref:`"+ref+"`") {
			explicit = append(explicit, ref)
		}
	}
	if len(explicit) > 0 {
		if _, err := fmt.Fprintf(w, "        :ref: %s\n", strings.Join(explicit, ", ")); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	for i, paragraph := range strings.Split(e.Body, "\n\n") {
		if i > 0 {
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
		}
		if err := writeWrapped(paragraph, "        ", 72, w); err != nil {
			return err
		}
	}

	return nil
}

// writeWrapped writes text wrapped at width with the given indent.
func writeWrapped(text, indent string, width int, w io.Writer) error {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	line := indent + words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			line = indent + word
			continue
		}
		line += " " + word
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// MarshalYAML serializes a document to YAML for downstream tooling.
func MarshalYAML(doc *Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return out, nil
}
