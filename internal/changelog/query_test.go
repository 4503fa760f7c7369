package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture() *Document {
	return &Document{
		Project: "myproject",
		Releases: []Release{
			{
				Version: "unreleased",
				Entries: []Entry{
					{Body: "Pending fix.", Tags: []string{"bug", "orm"}, Tickets: []int{401}},
				},
			},
			{
				Version:  "1.1.0",
				Released: "2024-03-05",
				Entries: []Entry{
					{Body: "New loader option.", Tags: []string{"feature", "orm"}, Tickets: []int{350}},
					{Body: "Pool fix.", Tags: []string{"bug", "pool"}, Tickets: []int{350, 361}},
				},
			},
			{
				Version:  "v1.0.0",
				Released: "2024-01-15",
				Entries: []Entry{
					{Body: "First stable release.", Tags: []string{"general"}},
				},
			},
		},
	}
}

func TestGetRelease(t *testing.T) {
	doc := queryFixture()

	tests := map[string]struct {
		version string
		want    string
	}{
		"exact match":           {version: "1.1.0", want: "1.1.0"},
		"v prefix on query":     {version: "v1.1.0", want: "1.1.0"},
		"v prefix on document":  {version: "1.0.0", want: "v1.0.0"},
		"unreleased by keyword": {version: "unreleased", want: "unreleased"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := doc.GetRelease(tc.version)
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.Version)
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, err := doc.GetRelease("9.9.9")

		var notFound *VersionNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "9.9.9", notFound.Version)
		assert.Equal(t, []string{"unreleased", "1.1.0", "v1.0.0"}, notFound.AvailableVersions)
	})
}

func TestGetUnreleased(t *testing.T) {
	doc := queryFixture()

	r := doc.GetUnreleased()
	require.NotNil(t, r)
	assert.Equal(t, 1, r.EntryCount())
	assert.True(t, doc.HasUnreleased())

	released := &Document{Releases: doc.Releases[1:]}
	assert.Nil(t, released.GetUnreleased())
	assert.False(t, released.HasUnreleased())
}

func TestGetLatestRelease(t *testing.T) {
	doc := queryFixture()

	r := doc.GetLatestRelease()
	require.NotNil(t, r)
	assert.Equal(t, "1.1.0", r.Version)

	empty := &Document{Releases: []Release{{Version: "unreleased"}}}
	assert.Nil(t, empty.GetLatestRelease())
}

func TestListVersions(t *testing.T) {
	doc := queryFixture()

	assert.Equal(t, []string{"unreleased", "1.1.0", "v1.0.0"}, doc.ListVersions())
}

func TestListVersionsSorted(t *testing.T) {
	doc := &Document{Releases: []Release{
		{Version: "unreleased"},
		{Version: "1.0.0"},
		{Version: "v1.10.0"},
		{Version: "1.2.0"},
		{Version: "not-semver"},
	}}

	assert.Equal(t, []string{"1.10.0", "1.2.0", "1.0.0"}, doc.ListVersionsSorted())
}

func TestGetLastN(t *testing.T) {
	doc := queryFixture()

	tests := map[string]struct {
		n    int
		want int
	}{
		"fewer than total":   {n: 2, want: 2},
		"exactly total":      {n: 4, want: 4},
		"more than total":    {n: 10, want: 4},
		"zero returns empty": {n: 0, want: 0},
		"negative is empty":  {n: -1, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := doc.GetLastN(tc.n)
			assert.Len(t, got, tc.want)
		})
	}

	t.Run("newest first", func(t *testing.T) {
		got := doc.GetLastN(2)
		require.Len(t, got, 2)
		assert.Equal(t, "unreleased", got[0].Version)
		assert.Equal(t, "1.1.0", got[1].Version)
	})
}

func TestFilterByTag(t *testing.T) {
	doc := queryFixture()

	bugs := doc.FilterByTag("bug")
	require.Len(t, bugs, 2)
	assert.Equal(t, "Pending fix.", bugs[0].Entry.Body)
	assert.Equal(t, "Pool fix.", bugs[1].Entry.Body)

	assert.Empty(t, doc.FilterByTag("security"))
}

func TestFilterByTicket(t *testing.T) {
	doc := queryFixture()

	matched := doc.FilterByTicket(350)
	require.Len(t, matched, 2)
	for _, e := range matched {
		assert.Equal(t, "1.1.0", e.Version)
	}

	assert.Empty(t, doc.FilterByTicket(999))
}

func TestCounts(t *testing.T) {
	doc := queryFixture()

	assert.Equal(t, 3, doc.ReleaseCount())
	assert.Equal(t, 4, doc.EntryCount())
}

func TestTickets(t *testing.T) {
	doc := queryFixture()

	// 350 appears twice; the result is deduplicated and ascending.
	assert.Equal(t, []int{350, 361, 401}, doc.Tickets())
}
