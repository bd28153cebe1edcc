package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/types"
)

func seedRegistry(t *testing.T) *registry.DocumentRegistry {
	t.Helper()
	reg := registry.NewDocumentRegistry()

	docs := []*types.DocumentInfo{
		{
			ID:          types.DocumentID("2021-01-15-newest.md"),
			RelPath:     "2021-01-15-newest.md",
			Slug:        "newest",
			Title:       "Newest Post",
			Date:        time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC),
			DateSource:  types.DateSourceFilename,
			Tags:        []string{"go", "tooling"},
			Language:    "en",
			WordCount:   800,
			ReadingTime: 4,
			Hash:        "bbbb",
			Body:        "New body.",
			Images: []types.ImageRef{
				{Alt: "chart", Target: "/images/chart.png", Line: 4},
				{Alt: "remote", Target: "https://cdn.example.com/x.png", Line: 6, External: true},
				{Alt: "quoted", Target: "images/quoted.png", Line: 9, InCode: true},
			},
		},
		{
			ID:          types.DocumentID("2019/first-post.md"),
			RelPath:     "2019/first-post.md",
			Slug:        "first-post",
			Title:       "First Post",
			Date:        time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
			DateSource:  types.DateSourceFrontMatter,
			Description: "Where it all began.",
			WordCount:   500,
			ReadingTime: 3,
			Hash:        "aaaa",
			Body:        "Old body.",
			Images: []types.ImageRef{
				{Alt: "chart", Target: "../images/chart.png", Line: 3},
				{Alt: "again", Target: "../images/chart.png", Line: 7},
			},
		},
		{
			ID:        types.DocumentID("about.md"),
			RelPath:   "about.md",
			Slug:      "about",
			WordCount: 120,
			Hash:      "cccc",
			Body:      "About body.",
		},
		{
			ID:      types.DocumentID("2022-06-01-wip.md"),
			RelPath: "2022-06-01-wip.md",
			Slug:    "wip",
			Title:   "Work In Progress",
			Date:    time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			Draft:   true,
			Hash:    "dddd",
		},
	}
	for _, doc := range docs {
		require.NoError(t, reg.Register(doc))
	}

	reg.RegisterAsset(&types.AssetInfo{RelPath: "images/chart.png", Size: 2048, Hash: "ffff"})
	return reg
}

func TestBuild(t *testing.T) {
	reg := seedRegistry(t)

	m := Build(reg, Options{ContentDir: "./content"})

	assert.Equal(t, "./content", m.ContentDir)
	assert.Equal(t, 3, m.Documents)
	assert.WithinDuration(t, time.Now(), m.GeneratedAt, 5*time.Second)

	require.Len(t, m.Records, 3)
	assert.Equal(t, "newest", m.Records[0].Slug)
	assert.Equal(t, "first-post", m.Records[1].Slug)
	assert.Equal(t, "about", m.Records[2].Slug)

	newest := m.Records[0]
	require.NotNil(t, newest.Date)
	assert.True(t, newest.Date.Equal(time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"go", "tooling"}, newest.Tags)
	assert.Equal(t, "en", newest.Language)
	assert.Empty(t, newest.Body)

	// Untitled documents still export something presentable.
	about := m.Records[2]
	assert.Nil(t, about.Date)
	assert.Equal(t, "About", about.Title)
}

func TestBuildIncludeDrafts(t *testing.T) {
	reg := seedRegistry(t)

	m := Build(reg, Options{IncludeDrafts: true})

	require.Len(t, m.Records, 4)
	assert.Equal(t, "wip", m.Records[0].Slug)
	assert.True(t, m.Records[0].Draft)
}

func TestBuildIncludeBody(t *testing.T) {
	reg := seedRegistry(t)

	m := Build(reg, Options{IncludeBody: true})

	assert.Equal(t, "New body.", m.Records[0].Body)
	assert.Equal(t, "About body.", m.Records[2].Body)
}

func TestBuildAssets(t *testing.T) {
	reg := seedRegistry(t)

	m := Build(reg, Options{})

	// Root-anchored reference from the top-level document.
	require.Len(t, m.Records[0].Assets, 1)
	assert.Equal(t, AssetRecord{Path: "images/chart.png", Size: 2048, Hash: "ffff"}, m.Records[0].Assets[0])

	// Relative reference out of a nested directory, deduplicated.
	require.Len(t, m.Records[1].Assets, 1)
	assert.Equal(t, "images/chart.png", m.Records[1].Assets[0].Path)

	assert.Empty(t, m.Records[2].Assets)
}

func TestWriteJSON(t *testing.T) {
	reg := seedRegistry(t)
	m := Build(reg, Options{ContentDir: "./content"})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, m))

	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"generated_at\":"))

	var decoded Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m.Documents, decoded.Documents)
	assert.Equal(t, "newest", decoded.Records[0].Slug)
}

func TestWriteNDJSON(t *testing.T) {
	reg := seedRegistry(t)
	m := Build(reg, Options{ContentDir: "./content"})

	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, m))

	assert.NotContains(t, buf.String(), "generated_at")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.NotEmpty(t, rec.ID)
	}
}

func TestWriteDispatch(t *testing.T) {
	reg := seedRegistry(t)
	m := Build(reg, Options{})

	var asJSON bytes.Buffer
	require.NoError(t, Write(&asJSON, m, "json"))
	assert.Contains(t, asJSON.String(), "generated_at")

	var asNDJSON bytes.Buffer
	require.NoError(t, Write(&asNDJSON, m, "ndjson"))
	assert.NotContains(t, asNDJSON.String(), "generated_at")

	var sink bytes.Buffer
	assert.Error(t, Write(&sink, m, "xml"))
}

func TestDeterminism(t *testing.T) {
	first := Build(seedRegistry(t), Options{ContentDir: "./content", IncludeBody: true})
	second := Build(seedRegistry(t), Options{ContentDir: "./content", IncludeBody: true})
	second.GeneratedAt = first.GeneratedAt

	var a, b bytes.Buffer
	require.NoError(t, WriteJSON(&a, first))
	require.NoError(t, WriteJSON(&b, second))
	assert.Equal(t, a.String(), b.String())

	a.Reset()
	b.Reset()
	require.NoError(t, WriteNDJSON(&a, first))
	require.NoError(t, WriteNDJSON(&b, second))
	assert.Equal(t, a.String(), b.String())
}
