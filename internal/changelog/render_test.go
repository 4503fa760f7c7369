package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_FullDocument(t *testing.T) {
	doc := queryFixture()

	got, err := RenderMarkdownString(doc, RenderOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "# Changelog\n\nAll notable changes to myproject"))
	assert.Contains(t, got, "## [Unreleased]\n")
	assert.Contains(t, got, "## [1.1.0] - 2024-03-05\n")
	assert.Contains(t, got, "## [v1.0.0] - 2024-01-15\n")

	// Entries land under their primary tag heading.
	assert.Contains(t, got, "### feature\n- **[orm]** New loader option. (#350)")
	assert.Contains(t, got, "### bug\n- **[pool]** Pool fix. (#350, #361)")

	// Single-tag entries carry no secondary-tag prefix.
	assert.Contains(t, got, "- First stable release.\n")
	assert.NotContains(t, got, "**[general]**")
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	doc := queryFixture()

	first, err := RenderMarkdownString(doc, RenderOptions{})
	require.NoError(t, err)
	second, err := RenderMarkdownString(doc, RenderOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderMarkdown_TicketLinks(t *testing.T) {
	doc := &Document{Project: "p", Releases: []Release{
		{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
			{Body: "Fix.", Tags: []string{"bug"}, Tickets: []int{2887}},
		}},
	}}

	got, err := RenderMarkdownString(doc, RenderOptions{
		TicketURLTemplate: "https://tracker.example.com/issues/{ticket}",
	})
	require.NoError(t, err)

	assert.Contains(t, got, "- Fix. ([#2887](https://tracker.example.com/issues/2887))")
}

func TestRenderMarkdown_RefLinks(t *testing.T) {
	doc := &Document{Project: "p", Releases: []Release{
		{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
			{Body: "See migration notes.", Tags: []string{"change"}, Refs: []string{"migration_20"}},
		}},
	}}

	t.Run("template set", func(t *testing.T) {
		got, err := RenderMarkdownString(doc, RenderOptions{
			RefURLTemplate: "https://docs.example.com/{ref}.html",
		})
		require.NoError(t, err)
		assert.Contains(t, got, "([migration_20](https://docs.example.com/migration_20.html))")
	})

	t.Run("template unset drops the annotation", func(t *testing.T) {
		got, err := RenderMarkdownString(doc, RenderOptions{})
		require.NoError(t, err)
		assert.Contains(t, got, "- See migration notes.\n")
		assert.NotContains(t, got, "migration_20")
	})
}

func TestRenderMarkdown_MultiParagraphBodyFlattened(t *testing.T) {
	doc := &Document{Project: "p", Releases: []Release{
		{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
			{Body: "First paragraph.\n\nSecond paragraph.", Tags: []string{"bug"}},
		}},
	}}

	got, err := RenderMarkdownString(doc, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, got, "- First paragraph. Second paragraph.\n")
}

func TestRenderMarkdown_FooterLinks(t *testing.T) {
	doc := queryFixture()

	got, err := RenderMarkdownString(doc, RenderOptions{
		RepoURL: "https://github.com/example/myproject",
	})
	require.NoError(t, err)

	assert.Contains(t, got, "[Unreleased]: https://github.com/example/myproject/compare/v1.1.0...HEAD")
	assert.Contains(t, got, "[1.1.0]: https://github.com/example/myproject/compare/v1.0.0...v1.1.0")
	assert.Contains(t, got, "[v1.0.0]: https://github.com/example/myproject/releases/tag/v1.0.0")
}

func TestRenderMarkdown_NoFooterWithoutRepoURL(t *testing.T) {
	doc := queryFixture()

	got, err := RenderMarkdownString(doc, RenderOptions{})
	require.NoError(t, err)

	assert.NotContains(t, got, "compare/")
}
