package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTerminal_Plain(t *testing.T) {
	doc := queryFixture()

	var b strings.Builder
	err := FormatTerminal(doc.AllEntries(), &b, FormatOptions{Plain: true, MaxWidth: 120})
	require.NoError(t, err)
	got := b.String()

	assert.Contains(t, got, "## Unreleased\n")
	assert.Contains(t, got, "## v1.1.0\n")
	assert.Contains(t, got, "  - [bug] [orm] Pending fix. (#401)")
	assert.Contains(t, got, "  - [bug] [pool] Pool fix. (#350, #361)")
}

func TestFormatTerminal_EmptyInput(t *testing.T) {
	var b strings.Builder
	err := FormatTerminal(nil, &b, FormatOptions{Plain: true})
	require.NoError(t, err)
	assert.Empty(t, b.String())
}

func TestFormatTerminal_GroupsConsecutiveVersions(t *testing.T) {
	doc := queryFixture()

	var b strings.Builder
	err := FormatTerminal(doc.AllEntries(), &b, FormatOptions{Plain: true, MaxWidth: 120})
	require.NoError(t, err)

	// One header per version even when a version has several entries.
	assert.Equal(t, 1, strings.Count(b.String(), "## v1.1.0"))
}

func TestFormatRelease_Plain(t *testing.T) {
	doc := queryFixture()
	r, err := doc.GetRelease("1.1.0")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, FormatRelease(r, &b, FormatOptions{Plain: true, MaxWidth: 120}))
	got := b.String()

	assert.True(t, strings.HasPrefix(got, "## v1.1.0 (2024-03-05)\n"))
	assert.Contains(t, got, "New loader option.")
	assert.Contains(t, got, "Pool fix.")
}

func TestFormatRelease_UnreleasedHeader(t *testing.T) {
	doc := queryFixture()

	var b strings.Builder
	require.NoError(t, FormatRelease(doc.GetUnreleased(), &b, FormatOptions{Plain: true, MaxWidth: 120}))

	assert.True(t, strings.HasPrefix(b.String(), "## Unreleased\n"))
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"fits on one line": {
			text:     "short text",
			maxWidth: 40,
			want:     "short text",
		},
		"wraps at word boundary": {
			text:     "alpha beta gamma delta",
			maxWidth: 12,
			want:     "alpha beta\n    gamma delta",
		},
		"each continuation wraps again": {
			text:     "alpha beta gamma delta epsilon",
			maxWidth: 11,
			want:     "alpha beta\n    gamma\n    delta\n    epsilon",
		},
		"zero width disables wrapping": {
			text:     "anything at all",
			maxWidth: 0,
			want:     "anything at all",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrapText(tc.text, tc.maxWidth, "    "))
		})
	}
}

func TestFormatEntrySummary_Truncates(t *testing.T) {
	e := FlatEntry{
		Entry: Entry{
			Body: strings.Repeat("x", 100),
			Tags: []string{"bug"},
		},
		Version: "1.0.0",
	}

	got := FormatEntrySummary(e, FormatOptions{Plain: true})

	assert.True(t, strings.HasPrefix(got, "[bug] "))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), len("[bug] ")+60)
}
