package changelog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// CycleError reports a cycle in the include graph. Path lists the
// documents along the cycle, ending at the repeated one.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle detected: %s", strings.Join(e.Path, " -> "))
}

// IncludeError wraps a failure to resolve one include directive.
type IncludeError struct {
	Source string
	Line   int
	Target string
	Err    error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s:%d: include %q: %v", e.Source, e.Line, e.Target, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// Compile loads the document at path and resolves its include
// directives transitively, producing a single document whose releases
// are spliced in encounter order. Include targets resolve relative to
// the including file's directory and may be doublestar globs. A cycle
// in the include graph is an error.
func Compile(path string) (*Document, error) {
	c := &compiler{
		cache:   make(map[string]*Document),
		visited: make(map[string]visitState),
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving document path: %w", err)
	}

	root, err := c.parse(abs)
	if err != nil {
		return nil, err
	}

	releases, err := c.resolve(root, []string{abs})
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Project:  root.Project,
		Releases: releases,
		Path:     path,
	}
	for cached := range c.cache {
		doc.Sources = append(doc.Sources, cached)
	}
	sort.Strings(doc.Sources)
	return doc, nil
}

type visitState int

const (
	visitInProgress visitState = iota + 1
	visitDone
)

type compiler struct {
	mu      sync.Mutex
	cache   map[string]*Document
	visited map[string]visitState
}

// parse loads and caches a document by absolute path.
func (c *compiler) parse(abs string) (*Document, error) {
	c.mu.Lock()
	if doc, ok := c.cache[abs]; ok {
		c.mu.Unlock()
		return doc, nil
	}
	c.mu.Unlock()

	doc, err := Load(abs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[abs] = doc
	c.mu.Unlock()
	return doc, nil
}

// resolve splices a document's includes into its release list.
// stack carries the DFS path from the root for cycle reporting;
// the document itself is already on it.
func (c *compiler) resolve(doc *Document, stack []string) ([]Release, error) {
	self := stack[len(stack)-1]
	c.visited[self] = visitInProgress
	defer func() { c.visited[self] = visitDone }()

	releases := make([]Release, 0, len(doc.Releases))
	next := 0

	for _, inc := range doc.Includes {
		releases = append(releases, doc.Releases[next:inc.After]...)
		next = inc.After

		targets, err := c.expand(doc, inc)
		if err != nil {
			return nil, err
		}

		// Parse siblings concurrently; splice sequentially so the
		// cycle bookkeeping stays single-threaded.
		grp := new(errgroup.Group)
		for _, target := range targets {
			grp.Go(func() error {
				_, err := c.parse(target)
				return err
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, &IncludeError{Source: self, Line: inc.Line, Target: inc.Target, Err: err}
		}

		for _, target := range targets {
			switch c.visited[target] {
			case visitInProgress:
				return nil, &CycleError{Path: append(append([]string{}, stack...), target)}
			case visitDone:
				continue
			}

			child, err := c.parse(target)
			if err != nil {
				return nil, err
			}
			spliced, err := c.resolve(child, append(stack, target))
			if err != nil {
				return nil, err
			}
			releases = append(releases, spliced...)
		}
	}

	releases = append(releases, doc.Releases[next:]...)
	return releases, nil
}

// expand resolves an include target to absolute file paths, relative
// to the including document's directory.
func (c *compiler) expand(doc *Document, inc Include) ([]string, error) {
	base := filepath.Dir(doc.Path)
	pattern := inc.Target
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(base, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, &IncludeError{Source: doc.Path, Line: inc.Line, Target: inc.Target, Err: err}
	}
	if len(matches) == 0 {
		return nil, &IncludeError{
			Source: doc.Path, Line: inc.Line, Target: inc.Target,
			Err: fmt.Errorf("no document matches the target"),
		}
	}

	sort.Strings(matches)

	abs := make([]string, len(matches))
	for i, m := range matches {
		a, err := filepath.Abs(m)
		if err != nil {
			return nil, &IncludeError{Source: doc.Path, Line: inc.Line, Target: inc.Target, Err: err}
		}
		abs[i] = a
	}
	return abs, nil
}
