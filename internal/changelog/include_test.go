package changelog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relog-cli/relog/internal/testutil"
)

func TestCompile_NoIncludes(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDocument(t, dir, "CHANGES.relog",
		testutil.MinimalDocument("myproject", "1.0.0", "2024-01-15"))

	doc, err := Compile(path)
	require.NoError(t, err)

	assert.Equal(t, "myproject", doc.Project)
	require.Len(t, doc.Releases, 1)
	assert.Equal(t, "1.0.0", doc.Releases[0].Version)
	require.Len(t, doc.Sources, 1)
}

func TestCompile_SplicesAtDirectivePosition(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "changelog_10.relog", testutil.ReleaseSection("1.0.0", "2024-01-15"))
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. changelog::
    :version: 1.1.0
    :released: 2024-03-05

    .. change::
        :tags: feature

        Current release.

.. include:: changelog_10.relog
`)

	doc, err := Compile(path)
	require.NoError(t, err)

	require.Len(t, doc.Releases, 2)
	// The include sits after the 1.1.0 block, so the older release
	// lands second.
	assert.Equal(t, "1.1.0", doc.Releases[0].Version)
	assert.Equal(t, "1.0.0", doc.Releases[1].Version)
	assert.Len(t, doc.Sources, 2)
}

func TestCompile_GlobIncludesSortedByPath(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "releases/changelog_10.relog", testutil.ReleaseSection("1.0.0", "2024-01-15"))
	testutil.WriteDocument(t, dir, "releases/changelog_11.relog", testutil.ReleaseSection("1.1.0", "2024-03-05"))
	testutil.WriteDocument(t, dir, "releases/changelog_12.relog", testutil.ReleaseSection("1.2.0", "2024-06-20"))
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: releases/changelog_*.relog
`)

	doc, err := Compile(path)
	require.NoError(t, err)

	versions := doc.ListVersions()
	assert.Equal(t, []string{"1.0.0", "1.1.0", "1.2.0"}, versions)
	assert.Len(t, doc.Sources, 4)
}

func TestCompile_TransitiveIncludes(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "old/changelog_09.relog", testutil.ReleaseSection("0.9.0", "2023-11-01"))
	testutil.WriteDocument(t, dir, "changelog_10.relog", `.. changelog::
    :version: 1.0.0
    :released: 2024-01-15

    .. change::
        :tags: feature

        First stable release.

.. include:: old/changelog_09.relog
`)
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: changelog_10.relog
`)

	doc, err := Compile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"1.0.0", "0.9.0"}, doc.ListVersions())
}

func TestCompile_NestedTargetsResolveAgainstIncludingFile(t *testing.T) {
	dir := t.TempDir()
	// The nested document names its sibling without the releases/
	// prefix; resolution must use the nested file's own directory.
	testutil.WriteDocument(t, dir, "releases/changelog_09.relog", testutil.ReleaseSection("0.9.0", "2023-11-01"))
	testutil.WriteDocument(t, dir, "releases/index.relog", `.. include:: changelog_09.relog
`)
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: releases/index.relog
`)

	doc, err := Compile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.9.0"}, doc.ListVersions())
}

func TestCompile_CycleDetected(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "a.relog", `.. project:: myproject

.. include:: b.relog
`)
	testutil.WriteDocument(t, dir, "b.relog", `.. include:: a.relog
`)

	_, err := Compile(filepath.Join(dir, "a.relog"))
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Len(t, cycleErr.Path, 3)
	assert.Contains(t, err.Error(), "include cycle detected")
}

func TestCompile_SelfInclude(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: CHANGES.relog
`)

	_, err := Compile(path)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestCompile_MissingTarget(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: does-not-exist.relog
`)

	_, err := Compile(path)
	require.Error(t, err)

	var incErr *IncludeError
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, "does-not-exist.relog", incErr.Target)
	assert.Equal(t, 3, incErr.Line)
	assert.Contains(t, incErr.Error(), "no document matches")
}

func TestCompile_ParseErrorInIncludedFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "bad.relog", `.. changelog::
    :version: 1.0.0
    :tickets: not-a-number
`)
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: bad.relog
`)

	_, err := Compile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.relog")
}

func TestCompile_SharedIncludeSplicedOnce(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, "shared.relog", testutil.ReleaseSection("0.5.0", "2023-06-01"))
	testutil.WriteDocument(t, dir, "a.relog", `.. include:: shared.relog
`)
	path := testutil.WriteDocument(t, dir, "CHANGES.relog", `.. project:: myproject

.. include:: a.relog

.. include:: shared.relog
`)

	doc, err := Compile(path)
	require.NoError(t, err)

	// Diamond includes resolve the shared document a single time.
	assert.Equal(t, []string{"0.5.0"}, doc.ListVersions())
}
