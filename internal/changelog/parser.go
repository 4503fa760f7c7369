package changelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ParseError is a markup error with source location context.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Directive markers recognized at the start of a line (after leading
// whitespace is stripped).
const (
	directiveProject   = ".. project::"
	directiveChangelog = ".. changelog::"
	directiveChange    = ".. change::"
	directiveInclude   = ".. include::"
)

var (
	fieldRe = regexp.MustCompile(`^:([a-z]+):(?:\s+(.*))?$`)
	refRe   = regexp.MustCompile(":ref:`([^`]+)`")
)

// Load reads and parses a changelog document from the given path.
// It does not resolve includes or validate; see Compile and Validate.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog document: %w", err)
	}
	defer f.Close()

	doc, err := LoadFromReader(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}

	doc.Path = path
	return doc, nil
}

// LoadFromReader parses a changelog document from an io.Reader.
// This is useful for testing and for loading embedded content.
func LoadFromReader(r io.Reader) (*Document, error) {
	p := &parser{doc: &Document{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading changelog document: %w", err)
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	if len(p.doc.Releases) == 0 && len(p.doc.Includes) == 0 {
		return nil, &ParseError{Line: p.line, Message: "empty document: no changelog or include directives"}
	}

	return p.doc, nil
}

// parser holds the line scanner state. ctx tracks which directive the
// current field and body lines attach to.
type parser struct {
	doc  *Document
	line int
	ctx  parseContext

	release *Release
	entry   *Entry

	// inBody flips once the first body line of a change is seen;
	// field-shaped lines after that point are body text.
	inBody     bool
	paragraphs []string
	current    []string
}

type parseContext int

const (
	ctxTop parseContext = iota
	ctxChangelog
	ctxChange
)

func (p *parser) consume(raw string) error {
	text := strings.TrimSpace(raw)

	switch {
	case text == "":
		p.breakParagraph()
		return nil

	case strings.HasPrefix(text, directiveProject):
		return p.openProject(strings.TrimSpace(strings.TrimPrefix(text, directiveProject)))

	case text == directiveChangelog:
		return p.openChangelog()

	case text == directiveChange:
		return p.openChange()

	case strings.HasPrefix(text, directiveInclude):
		return p.openInclude(strings.TrimSpace(strings.TrimPrefix(text, directiveInclude)))

	case strings.HasPrefix(text, ".. ") && strings.HasSuffix(text, "::"):
		return &ParseError{Line: p.line, Message: fmt.Sprintf("unknown directive %q", text)}
	}

	if m := fieldRe.FindStringSubmatch(text); m != nil && !p.inBody {
		return p.consumeField(m[1], strings.TrimSpace(m[2]))
	}

	return p.consumeBody(text)
}

func (p *parser) openProject(name string) error {
	if err := p.closeChange(); err != nil {
		return err
	}
	p.closeRelease()
	if name == "" {
		return &ParseError{Line: p.line, Message: "project directive requires a name"}
	}
	if p.doc.Project != "" {
		return &ParseError{Line: p.line, Message: "duplicate project directive"}
	}
	p.doc.Project = name
	p.ctx = ctxTop
	return nil
}

func (p *parser) openChangelog() error {
	if err := p.closeChange(); err != nil {
		return err
	}
	p.closeRelease()
	p.release = &Release{Line: p.line}
	p.ctx = ctxChangelog
	return nil
}

func (p *parser) openChange() error {
	if err := p.closeChange(); err != nil {
		return err
	}
	if p.release == nil {
		return &ParseError{Line: p.line, Message: "change directive outside a changelog block"}
	}
	p.entry = &Entry{Line: p.line}
	p.inBody = false
	p.ctx = ctxChange
	return nil
}

func (p *parser) openInclude(target string) error {
	if err := p.closeChange(); err != nil {
		return err
	}
	p.closeRelease()
	if target == "" {
		return &ParseError{Line: p.line, Message: "include directive requires a target path"}
	}
	p.doc.Includes = append(p.doc.Includes, Include{
		Target: target,
		After:  len(p.doc.Releases),
		Line:   p.line,
	})
	p.ctx = ctxTop
	return nil
}

func (p *parser) consumeField(key, value string) error {
	switch p.ctx {
	case ctxChangelog:
		return p.releaseField(key, value)
	case ctxChange:
		return p.entryField(key, value)
	default:
		return &ParseError{Line: p.line, Message: fmt.Sprintf("field :%s: outside a directive block", key)}
	}
}

func (p *parser) releaseField(key, value string) error {
	switch key {
	case "version":
		if p.release.Version != "" {
			return &ParseError{Line: p.line, Message: "duplicate :version: field"}
		}
		p.release.Version = value
	case "released":
		if p.release.Released != "" {
			return &ParseError{Line: p.line, Message: "duplicate :released: field"}
		}
		p.release.Released = value
	default:
		return &ParseError{Line: p.line, Message: fmt.Sprintf("unknown changelog field :%s:", key)}
	}
	return nil
}

func (p *parser) entryField(key, value string) error {
	switch key {
	case "tags":
		p.entry.Tags = append(p.entry.Tags, splitList(value)...)
	case "tickets":
		for _, tok := range splitList(value) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return &ParseError{Line: p.line, Message: fmt.Sprintf("invalid ticket reference %q (expected an integer)", tok)}
			}
			p.entry.Tickets = append(p.entry.Tickets, n)
		}
	case "ref":
		p.entry.Refs = append(p.entry.Refs, splitList(value)...)
	default:
		return &ParseError{Line: p.line, Message: fmt.Sprintf("unknown change field :%s:", key)}
	}
	return nil
}

func (p *parser) consumeBody(text string) error {
	if p.ctx != ctxChange {
		return &ParseError{Line: p.line, Message: fmt.Sprintf("unexpected text outside a change block: %q", truncateMessage(text))}
	}
	p.inBody = true
	p.current = append(p.current, text)
	return nil
}

func (p *parser) breakParagraph() {
	if len(p.current) > 0 {
		p.paragraphs = append(p.paragraphs, strings.Join(p.current, " "))
		p.current = nil
	}
}

// closeChange finalizes the open change entry: the body paragraphs are
// joined and :ref: roles in the body are collected into Refs.
func (p *parser) closeChange() error {
	if p.entry == nil {
		return nil
	}
	p.breakParagraph()

	p.entry.Body = strings.Join(p.paragraphs, "\n\n")
	p.paragraphs = nil

	for _, m := range refRe.FindAllStringSubmatch(p.entry.Body, -1) {
		if !containsString(p.entry.Refs, m[1]) {
			p.entry.Refs = append(p.entry.Refs, m[1])
		}
	}

	p.release.Entries = append(p.release.Entries, *p.entry)
	p.entry = nil
	p.inBody = false
	p.ctx = ctxChangelog
	return nil
}

func (p *parser) closeRelease() {
	if p.release == nil {
		return
	}
	p.doc.Releases = append(p.doc.Releases, *p.release)
	p.release = nil
	p.ctx = ctxTop
}

func (p *parser) finish() error {
	if err := p.closeChange(); err != nil {
		return err
	}
	p.closeRelease()
	return nil
}

// splitList splits a comma or whitespace separated field value.
func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func truncateMessage(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:37] + "..."
}

// NormalizeVersion normalizes a version string by removing the "v"
// prefix. This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(version), "v")
}
