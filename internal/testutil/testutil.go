// Package testutil provides test helpers for relog tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteDocument writes a document file under dir and returns its path.
func WriteDocument(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating document directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing document %s: %v", name, err)
	}
	return path
}

// MinimalDocument returns a valid single-release directive document.
func MinimalDocument(project, version, date string) string {
	return fmt.Sprintf(`.. project:: %s

.. changelog::
    :version: %s
    :released: %s

    .. change::
        :tags: bug, general
        :tickets: 101

        A representative change entry.
`, project, version, date)
}

// ReleaseSection returns one changelog block without a project
// directive, for building multi-file include fixtures.
func ReleaseSection(version, date string) string {
	return fmt.Sprintf(`.. changelog::
    :version: %s
    :released: %s

    .. change::
        :tags: bug, general

        Change recorded for %s.
`, version, date, version)
}
