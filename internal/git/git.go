// Package git provides repository utilities for relog: cross-checking
// released versions against git tags and suggesting the next release
// version. It uses the go-git library so no git CLI installation is
// required.
package git

import (
	"fmt"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/relog-cli/relog/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode
// is enabled. By default it's a no-op; set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current
// working directory, traversing up the directory tree to find the
// repository root.
func openRepo(path string) (*gogit.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// ListVersionTags returns the normalized version identifiers of all
// semver-shaped tags in the repository enclosing path, sorted
// descending. Tags that are not semver (e.g. "nightly") are skipped.
func ListVersionTags(path string) ([]string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var parsed []*semver.Version
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		v, perr := semver.NewVersion(changelog.NormalizeVersion(name))
		if perr != nil {
			logDebug("[git] skipping non-semver tag %s", name)
			return nil
		}
		parsed = append(parsed, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.Sort(sort.Reverse(semver.Collection(parsed)))

	tags := make([]string, len(parsed))
	for i, v := range parsed {
		tags[i] = v.String()
	}
	return tags, nil
}

// TagReport is the result of cross-checking a document's released
// versions against the repository's tags.
type TagReport struct {
	// Matched lists versions present in both document and tags.
	Matched []string
	// MissingTags lists released versions with no corresponding tag.
	MissingTags []string
	// UntrackedTags lists semver tags with no release in the document.
	UntrackedTags []string
}

// Clean reports whether document and tags agree exactly.
func (r *TagReport) Clean() bool {
	return len(r.MissingTags) == 0 && len(r.UntrackedTags) == 0
}

// VerifyReleaseTags cross-checks the document's released versions
// against the repository tags found at repoPath.
func VerifyReleaseTags(doc *changelog.Document, repoPath string) (*TagReport, error) {
	tags, err := ListVersionTags(repoPath)
	if err != nil {
		return nil, err
	}

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	report := &TagReport{}
	versionSet := make(map[string]bool)

	for _, r := range doc.Releases {
		if r.IsUnreleased() {
			continue
		}
		version := changelog.NormalizeVersion(r.Version)
		versionSet[version] = true
		if tagSet[version] {
			report.Matched = append(report.Matched, version)
		} else {
			report.MissingTags = append(report.MissingTags, version)
		}
	}

	for _, t := range tags {
		if !versionSet[t] {
			report.UntrackedTags = append(report.UntrackedTags, t)
		}
	}

	return report, nil
}

// SuggestNextVersion proposes the next release version from the
// document's latest release and unreleased entry tags: a "removed"
// entry bumps major, "feature" bumps minor, anything else bumps patch.
// Returns an error when the document has no released versions or no
// unreleased section.
func SuggestNextVersion(doc *changelog.Document) (string, error) {
	unreleased := doc.GetUnreleased()
	if unreleased == nil {
		return "", fmt.Errorf("document has no unreleased section")
	}

	latest := doc.GetLatestRelease()
	if latest == nil {
		return "", fmt.Errorf("document has no released versions")
	}

	current, err := semver.NewVersion(changelog.NormalizeVersion(latest.Version))
	if err != nil {
		return "", fmt.Errorf("parsing latest version %q: %w", latest.Version, err)
	}

	var hasRemoval, hasFeature bool
	for _, e := range unreleased.Entries {
		if e.HasTag("removed") {
			hasRemoval = true
		}
		if e.HasTag("feature") {
			hasFeature = true
		}
	}

	var next semver.Version
	switch {
	case hasRemoval:
		next = current.IncMajor()
	case hasFeature:
		next = current.IncMinor()
	default:
		next = current.IncPatch()
	}

	return next.String(), nil
}
