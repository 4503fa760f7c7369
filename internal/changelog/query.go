package changelog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// GetRelease retrieves a specific release from the document.
// Accepts both "v0.6.0" and "0.6.0" formats (normalizes the input).
// Returns VersionNotFoundError if the version doesn't exist.
func (d *Document) GetRelease(version string) (*Release, error) {
	normalized := NormalizeVersion(version)

	for i := range d.Releases {
		if NormalizeVersion(d.Releases[i].Version) == normalized {
			return &d.Releases[i], nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: d.ListVersions(),
	}
}

// GetUnreleased retrieves the unreleased section, or nil if absent.
func (d *Document) GetUnreleased() *Release {
	for i := range d.Releases {
		if d.Releases[i].IsUnreleased() {
			return &d.Releases[i]
		}
	}
	return nil
}

// HasUnreleased returns true if the document has an unreleased section.
func (d *Document) HasUnreleased() bool {
	return d.GetUnreleased() != nil
}

// GetLatestRelease returns the most recent released version (not
// unreleased). Returns nil if there are no released versions.
func (d *Document) GetLatestRelease() *Release {
	for i := range d.Releases {
		if !d.Releases[i].IsUnreleased() {
			return &d.Releases[i]
		}
	}
	return nil
}

// ListVersions returns all version identifiers in document order
// (newest first).
func (d *Document) ListVersions() []string {
	versions := make([]string, len(d.Releases))
	for i, r := range d.Releases {
		versions[i] = r.Version
	}
	return versions
}

// ListVersionsSorted returns released version identifiers in
// descending semver order. Unparseable versions and the unreleased
// section are omitted.
func (d *Document) ListVersionsSorted() []string {
	parsed := make([]*semver.Version, 0, len(d.Releases))
	for _, r := range d.Releases {
		if r.IsUnreleased() {
			continue
		}
		if v, err := semver.NewVersion(NormalizeVersion(r.Version)); err == nil {
			parsed = append(parsed, v)
		}
	}

	sort.Sort(sort.Reverse(semver.Collection(parsed)))

	versions := make([]string, len(parsed))
	for i, v := range parsed {
		versions[i] = v.String()
	}
	return versions
}

// AllEntries returns all entries from all releases, newest first.
func (d *Document) AllEntries() []FlatEntry {
	var entries []FlatEntry
	for _, r := range d.Releases {
		entries = append(entries, r.Flatten()...)
	}
	return entries
}

// GetLastN retrieves the N most recent entries across all releases.
// If N exceeds the total number of entries, all entries are returned.
func (d *Document) GetLastN(n int) []FlatEntry {
	if n <= 0 {
		return []FlatEntry{}
	}

	entries := d.AllEntries()
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// FilterByTag returns entries carrying the given tag, newest first.
func (d *Document) FilterByTag(tag string) []FlatEntry {
	var matched []FlatEntry
	for _, e := range d.AllEntries() {
		if e.HasTag(tag) {
			matched = append(matched, e)
		}
	}
	return matched
}

// FilterByTicket returns entries referencing the given ticket.
func (d *Document) FilterByTicket(ticket int) []FlatEntry {
	var matched []FlatEntry
	for _, e := range d.AllEntries() {
		if e.HasTicket(ticket) {
			matched = append(matched, e)
		}
	}
	return matched
}

// ReleaseCount returns the number of releases in the document.
func (d *Document) ReleaseCount() int {
	return len(d.Releases)
}

// EntryCount returns the total number of entries across all releases.
func (d *Document) EntryCount() int {
	count := 0
	for _, r := range d.Releases {
		count += r.EntryCount()
	}
	return count
}

// Tickets returns every ticket referenced anywhere in the document,
// deduplicated and sorted ascending.
func (d *Document) Tickets() []int {
	seen := make(map[int]bool)
	var tickets []int
	for _, e := range d.AllEntries() {
		for _, t := range e.Entry.Tickets {
			if !seen[t] {
				seen[t] = true
				tickets = append(tickets, t)
			}
		}
	}
	sort.Ints(tickets)
	return tickets
}
