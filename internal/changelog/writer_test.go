package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDirective_CanonicalForm(t *testing.T) {
	doc := &Document{
		Project: "myproject",
		Releases: []Release{
			{
				Version:  "1.0.0",
				Released: "2024-01-15",
				Entries: []Entry{
					{Body: "A fix.", Tags: []string{"bug", "orm"}, Tickets: []int{101, 102}},
				},
			},
		},
	}

	got, err := WriteDirectiveString(doc)
	require.NoError(t, err)

	want := `.. project:: myproject

.. changelog::
    :version: 1.0.0
    :released: 2024-01-15

    .. change::
        :tags: bug, orm
        :tickets: 101, 102

        A fix.
`
	assert.Equal(t, want, got)
}

func TestWriteDirective_UnreleasedOmitsDate(t *testing.T) {
	doc := &Document{
		Project: "p",
		Releases: []Release{
			{Version: "unreleased", Entries: []Entry{{Body: "Pending.", Tags: []string{"feature"}}}},
		},
	}

	got, err := WriteDirectiveString(doc)
	require.NoError(t, err)

	assert.Contains(t, got, ":version: unreleased\n")
	assert.NotContains(t, got, ":released:")
}

func TestWriteDirective_RefRoundTrip(t *testing.T) {
	doc := &Document{
		Project: "p",
		Releases: []Release{
			{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
				{
					Body: "See :ref:`migration_20` for details.",
					Tags: []string{"change"},
					Refs: []string{"migration_20", "orphan_label"},
				},
			}},
		},
	}

	got, err := WriteDirectiveString(doc)
	require.NoError(t, err)

	// The body role already carries migration_20; only the label with
	// no role needs an explicit field.
	assert.Contains(t, got, "        :ref: orphan_label\n")
	assert.NotContains(t, got, ":ref: migration_20")
}

func TestWriteDirective_ParsesBack(t *testing.T) {
	doc := &Document{
		Project: "myproject",
		Releases: []Release{
			{Version: "unreleased", Entries: []Entry{
				{Body: "Pending work.", Tags: []string{"feature"}},
			}},
			{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
				{Body: "First paragraph.\n\nSecond paragraph.", Tags: []string{"bug", "pool"}, Tickets: []int{7}},
			}},
		},
	}

	markup, err := WriteDirectiveString(doc)
	require.NoError(t, err)

	reparsed, err := LoadFromReader(strings.NewReader(markup))
	require.NoError(t, err)

	assert.Equal(t, doc.Project, reparsed.Project)
	require.Len(t, reparsed.Releases, 2)
	for i := range doc.Releases {
		assert.Equal(t, doc.Releases[i].Version, reparsed.Releases[i].Version)
		assert.Equal(t, doc.Releases[i].Released, reparsed.Releases[i].Released)
		require.Len(t, reparsed.Releases[i].Entries, len(doc.Releases[i].Entries))
		for j := range doc.Releases[i].Entries {
			assert.Equal(t, doc.Releases[i].Entries[j].Body, reparsed.Releases[i].Entries[j].Body)
			assert.Equal(t, doc.Releases[i].Entries[j].Tags, reparsed.Releases[i].Entries[j].Tags)
			assert.Equal(t, doc.Releases[i].Entries[j].Tickets, reparsed.Releases[i].Entries[j].Tickets)
		}
	}
}

func TestWriteWrapped_LongBody(t *testing.T) {
	doc := &Document{
		Project: "p",
		Releases: []Release{
			{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
				{
					Body: strings.Repeat("word ", 40) + "end.",
					Tags: []string{"bug"},
				},
			}},
		},
	}

	got, err := WriteDirectiveString(doc)
	require.NoError(t, err)

	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 72, "line exceeds wrap width: %q", line)
	}
}

func TestMarshalYAML(t *testing.T) {
	doc := &Document{
		Project: "myproject",
		Releases: []Release{
			{Version: "1.0.0", Released: "2024-01-15", Entries: []Entry{
				{Body: "A fix.", Tags: []string{"bug"}, Tickets: []int{101}},
			}},
		},
	}

	out, err := MarshalYAML(doc)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "project: myproject")
	assert.Contains(t, text, "version: 1.0.0")
	assert.Contains(t, text, "- 101")
}
