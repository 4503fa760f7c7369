package changelog

// VersionUnreleased is the only non-semver version identifier a
// release may carry.
const VersionUnreleased = "unreleased"

// Document represents a parsed changelog document. It contains the
// project identifier and an ordered list of releases, with the newest
// releases appearing first. Includes hold the splice points for other
// documents referenced by this one; Compile resolves them.
type Document struct {
	Project  string    `yaml:"project"`
	Releases []Release `yaml:"releases"`
	Includes []Include `yaml:"-"`

	// Path is the file the document was read from, empty when parsed
	// from a reader. Include targets resolve relative to it.
	Path string `yaml:"-"`

	// Sources lists the absolute paths of every file a compilation
	// touched, including the root. Empty on uncompiled documents.
	Sources []string `yaml:"-"`
}

// Release represents a single version section in a document.
// The Version field is a bare semantic version (e.g., "0.9.0") or the
// special identifier "unreleased". The CLI normalizes "v" prefixes on
// input. Released is required for released versions (format:
// YYYY-MM-DD) and must be empty for unreleased.
type Release struct {
	Version  string  `yaml:"version"`
	Released string  `yaml:"released,omitempty"`
	Entries  []Entry `yaml:"entries"`

	// Line is the source line of the changelog directive, for
	// diagnostics. Zero when the release was built programmatically.
	Line int `yaml:"-"`
}

// Entry is a single change entry. Tags categorize the change (the
// first tag is the primary grouping tag when rendering), Tickets are
// issue-tracker references, and Refs are cross-reference labels
// linking the entry to prose elsewhere (collected from an explicit
// :ref: field and from roles embedded in the body).
type Entry struct {
	Body    string   `yaml:"body"`
	Tags    []string `yaml:"tags"`
	Tickets []int    `yaml:"tickets,omitempty"`
	Refs    []string `yaml:"refs,omitempty"`

	Line int `yaml:"-"`
}

// Include is an unresolved include directive. Target may be a glob.
// After records how many releases preceded the directive in the
// including document, so compilation can splice at the right position.
type Include struct {
	Target string
	After  int
	Line   int
}

// FlatEntry is a flattened view of an entry with its release context,
// used for querying and terminal display.
type FlatEntry struct {
	Entry
	Version string
}

// IsUnreleased returns true if this release holds unreleased changes.
func (r Release) IsUnreleased() bool {
	return r.Version == VersionUnreleased
}

// EntryCount returns the number of entries in the release.
func (r Release) EntryCount() int {
	return len(r.Entries)
}

// Flatten returns the release's entries with version context attached.
func (r Release) Flatten() []FlatEntry {
	flat := make([]FlatEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		flat = append(flat, FlatEntry{Entry: e, Version: r.Version})
	}
	return flat
}

// PrimaryTag returns the entry's first tag, or "" when the tag set is
// empty (which the validator rejects).
func (e Entry) PrimaryTag() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// HasTag reports whether the entry carries the given tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasTicket reports whether the entry references the given ticket.
func (e Entry) HasTicket(ticket int) bool {
	for _, t := range e.Tickets {
		if t == ticket {
			return true
		}
	}
	return false
}

// DefaultTags returns the recognized category labels accepted when the
// configuration does not override them. The set covers change kinds
// (bug, feature, ...) and subsystem/backend area tags.
func DefaultTags() []string {
	return []string{
		"bug", "feature", "change", "changed", "removed", "moved",
		"deprecated", "performance", "usecase", "security",
		"orm", "sql", "engine", "schema", "pool", "ext", "general",
		"mysql", "postgresql", "sqlite", "oracle", "mssql", "firebird",
	}
}
