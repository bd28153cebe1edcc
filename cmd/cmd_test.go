package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/srmagura/blog/internal/export"
)

func TestNewCommand(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", "content")

	// Reset flags
	newTags = []string{"go", "generics"}
	newDir = ""
	newDate = "2021-03-14"
	newTOML = false

	// Test new command
	err = runNew(&cobra.Command{}, []string{"Generics Have Landed"})
	require.NoError(t, err)

	// Check the scaffolded file
	path := filepath.Join("content", "2021-03-14-generics-have-landed.md")
	assert.FileExists(t, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "title: Generics Have Landed")
	assert.Contains(t, string(content), "date: \"2021-03-14\"")
	assert.Contains(t, string(content), "draft: true")
	assert.Contains(t, string(content), "generics")
}

func TestNewCommandRefusesOverwrite(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", "content")

	// Reset flags
	newTags = nil
	newDir = ""
	newDate = "2021-03-14"
	newTOML = false

	err = runNew(&cobra.Command{}, []string{"Generics Have Landed"})
	require.NoError(t, err)

	// A second run with the same title must not clobber the first file
	err = runNew(&cobra.Command{}, []string{"Generics Have Landed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")
}

func TestNewCommandTOML(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", "content")

	// Reset flags
	newTags = nil
	newDir = ""
	newDate = "2021-03-14"
	newTOML = true

	err = runNew(&cobra.Command{}, []string{"Config Notes"})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join("content", "2021-03-14-config-notes.md"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte("+++\n")))
	assert.Contains(t, string(content), "title = ")
}

func TestListCommand(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// Create document files
	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: First Post
tags: [go]
description: Where it all started.
---

Body text about the very first post.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-first-post.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Reset flags
	listFlags.Format = "table"
	listFlags.Verbose = false
	listFlags.Quiet = false
	listFlags.Tag = ""
	listFlags.Year = 0
	listFlags.Drafts = false
	listFlags.Search = ""

	// Test list command
	err = runList(&cobra.Command{}, []string{})
	require.NoError(t, err)
}

func TestListCommandJSON(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// Create document files
	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: First Post
tags: [go]
---

Body text about the very first post.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-first-post.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Set flags
	listFlags.Format = "json"
	listFlags.Verbose = false
	listFlags.Quiet = false
	listFlags.Tag = ""
	listFlags.Year = 0
	listFlags.Drafts = false
	listFlags.Search = ""

	// Test list command
	err = runList(&cobra.Command{}, []string{})
	require.NoError(t, err)
}

func TestLintCommandCleanCollection(t *testing.T) {
	// Create a temporary directory with a well-formed document
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: Clean Post
tags: [go]
description: Nothing wrong here.
---

A perfectly ordinary paragraph with enough words to count.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-clean-post.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Reset flags
	lintFormat = "text"
	lintStrict = false
	lintDisable = nil

	err = runLint(&cobra.Command{}, []string{})
	require.NoError(t, err)
}

func TestLintCommandBrokenImage(t *testing.T) {
	// Create a temporary directory with a document referencing a missing image
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: Broken Post
description: The screenshot vanished.
---

Look at this:

![screenshot](./img/missing.png)
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-broken-post.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Reset flags
	lintFormat = "text"
	lintStrict = false
	lintDisable = nil

	err = runLint(&cobra.Command{}, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lint failed")
}

func TestExportCommand(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	published := `---
title: Published Post
tags: [go]
---

Published body.
`
	draft := `---
title: Draft Post
draft: true
---

Draft body.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-published-post.md"), []byte(published), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(contentDir, "draft-post.md"), []byte(draft), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Reset flags
	exportOut = filepath.Join(tempDir, "manifest.json")
	exportFormat = "json"
	exportIncludeDrafts = false
	exportNoBody = false

	err = runExport(&cobra.Command{}, []string{})
	require.NoError(t, err)

	// Drafts stay out of the manifest by default
	data, err := os.ReadFile(exportOut)
	require.NoError(t, err)

	var manifest export.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Len(t, manifest.Records, 1)
	assert.Equal(t, "published-post", manifest.Records[0].Slug)
	assert.Equal(t, 1, manifest.Documents)
	assert.Contains(t, manifest.Records[0].Body, "Published body.")
}

func TestExportCommandIncludesDrafts(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	published := `---
title: Published Post
---

Published body.
`
	draft := `---
title: Draft Post
draft: true
---

Draft body.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-published-post.md"), []byte(published), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(contentDir, "draft-post.md"), []byte(draft), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Set flags
	exportOut = filepath.Join(tempDir, "manifest.json")
	exportFormat = "json"
	exportIncludeDrafts = true
	exportNoBody = true

	err = runExport(&cobra.Command{}, []string{})
	require.NoError(t, err)

	data, err := os.ReadFile(exportOut)
	require.NoError(t, err)

	var manifest export.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Len(t, manifest.Records, 2)
	for _, rec := range manifest.Records {
		assert.Empty(t, rec.Body)
	}
}

func TestStatsCommand(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: Numbers Post
tags: [go, stats]
---

Counting words is the whole point of this document.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-numbers-post.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)

	// Reset flags
	statsFormat = "table"

	err = runStats(&cobra.Command{}, []string{})
	require.NoError(t, err)

	// JSON output should work on the same collection
	statsFormat = "json"
	err = runStats(&cobra.Command{}, []string{})
	require.NoError(t, err)
}

func TestIndexAndSearchCommands(t *testing.T) {
	// Create a temporary directory with documents
	tempDir := t.TempDir()

	// Change to temp directory
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	contentDir := "content"
	err = os.MkdirAll(contentDir, 0755)
	require.NoError(t, err)

	docContent := `---
title: Generics Have Landed
tags: [go]
---

Type parameters finally arrived and generics change how Go libraries look.
`

	err = os.WriteFile(filepath.Join(contentDir, "2021-01-02-generics-have-landed.md"), []byte(docContent), 0644)
	require.NoError(t, err)

	indexPath := filepath.Join(tempDir, "index.db")

	// Set up viper configuration
	viper.Reset()
	viper.Set("content.dir", contentDir)
	viper.Set("index.path", indexPath)

	// Reset flags
	indexPrune = false
	indexShowStats = false

	err = runIndex(&cobra.Command{}, []string{})
	require.NoError(t, err)
	assert.FileExists(t, indexPath)

	// Index stats should read back without refreshing
	indexShowStats = true
	err = runIndex(&cobra.Command{}, []string{})
	require.NoError(t, err)
	indexShowStats = false

	// Reset flags
	searchFormat = "table"
	searchTag = ""
	searchYear = 0
	searchDrafts = false
	searchLimit = 20
	searchNoRefresh = false

	err = runSearch(&cobra.Command{}, []string{"generics"})
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	// Reset flags
	versionFormat = "text"
	versionShort = false

	err := runVersionCommand(&cobra.Command{}, []string{})
	require.NoError(t, err)

	versionFormat = "json"
	err = runVersionCommand(&cobra.Command{}, []string{})
	require.NoError(t, err)

	versionFormat = "text"
	versionShort = true
	err = runVersionCommand(&cobra.Command{}, []string{})
	require.NoError(t, err)
	versionShort = false
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr string
	}{
		{"exact match", "json", ""},
		{"typo gets a suggestion", "jsn", "did you mean"},
		{"unknown format", "xml", "unsupported format"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateFormatWithSuggestion(test.format, "table", "json", "yaml")
			if test.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErr)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(""))
	assert.NoError(t, ValidateDate("2021-03-14"))
	assert.Error(t, ValidateDate("14/03/2021"))
	assert.Error(t, ValidateDate("2021-13-40"))
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear("2021"))
	assert.NoError(t, ValidateYear("0"))
	assert.Error(t, ValidateYear("-3"))
	assert.Error(t, ValidateYear("twenty"))
}

func TestMatchSnippet(t *testing.T) {
	body := "Type parameters finally arrived and generics change how Go libraries look."

	snippet := matchSnippet(body, "generics", 40)
	assert.Contains(t, snippet, "generics")

	// A title-only match falls back to the leading text
	snippet = matchSnippet(body, "nowhere", 40)
	assert.Contains(t, snippet, "Type parameters")

	assert.Empty(t, matchSnippet("", "anything", 40))
}

func TestSearchItemDate(t *testing.T) {
	date := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)
	rec := export.Record{
		Slug:  "generics-have-landed",
		Title: "Generics Have Landed",
		Date:  &date,
		Body:  "generics everywhere",
	}

	item := searchItem(rec, "generics")
	assert.Equal(t, "2021-01-02", item["date"])
	assert.Contains(t, item["snippet"], "generics")

	rec.Date = nil
	item = searchItem(rec, "generics")
	_, hasDate := item["date"]
	assert.False(t, hasDate)
}
