package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srmagura/blog/internal/errors"
	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/types"
)

func writeFixture(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestScanner(t *testing.T, root string) (*ContentScanner, *registry.DocumentRegistry) {
	t.Helper()
	reg := registry.NewDocumentRegistry()
	s, err := NewContentScanner(reg, root)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, reg
}

func TestNewContentScanner(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	assert.Equal(t, reg, s.GetRegistry())
	assert.True(t, filepath.IsAbs(s.Root()))
}

func TestNewContentScannerMissingRoot(t *testing.T) {
	reg := registry.NewDocumentRegistry()

	_, err := NewContentScanner(reg, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewContentScannerFileRoot(t *testing.T) {
	root := t.TempDir()
	file := writeFixture(t, root, "plain.txt", "not a directory")

	reg := registry.NewDocumentRegistry()
	_, err := NewContentScanner(reg, file)
	assert.Error(t, err)
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	path := writeFixture(t, root, "2019-06-06-zeit-is-now-vercel.md", `---
title: Zeit is now Vercel
tags:
  - hosting
  - news
---

Zeit has renamed itself to Vercel and the deployment platform keeps
working exactly like it always did for our little static site.
`)

	require.NoError(t, s.ScanFile(path))
	require.Equal(t, 1, reg.Count())

	doc, ok := reg.Get("zeit-is-now-vercel")
	require.True(t, ok)
	assert.Equal(t, "Zeit is now Vercel", doc.Title)
	assert.Equal(t, "2019-06-06-zeit-is-now-vercel.md", doc.RelPath)
	assert.Equal(t, types.DateSourceFilename, doc.DateSource)
	assert.Equal(t, time.Date(2019, 6, 6, 0, 0, 0, 0, time.UTC), doc.Date)
	assert.Equal(t, []string{"hosting", "news"}, doc.Tags)
	assert.Equal(t, "yaml", doc.Format)
	assert.Len(t, doc.ID, 32)
	assert.NotEmpty(t, doc.Hash)
	assert.NotEmpty(t, doc.Language)
	assert.Greater(t, doc.WordCount, 10)
	assert.Equal(t, 1, doc.ReadingTime)
}

func TestScanFileFrontMatterWins(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	path := writeFixture(t, root, "2020-01-01-original-name.md", `---
title: The Real Title
slug: custom-slug
date: 2021-05-05
---

# A Heading That Is Not The Title

Front matter metadata takes precedence over everything derived from the
file name or the body.
`)

	require.NoError(t, s.ScanFile(path))

	doc, ok := reg.Get("custom-slug")
	require.True(t, ok)
	assert.Equal(t, "The Real Title", doc.Title)
	assert.Equal(t, types.DateSourceFrontMatter, doc.DateSource)
	assert.Equal(t, 2021, doc.Date.Year())

	_, ok = reg.Get("original-name")
	assert.False(t, ok)
}

func TestScanFileTitleFromHeading(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	path := writeFixture(t, root, "untitled-notes.md", `# From The Heading

No front matter at all in this one.
`)

	require.NoError(t, s.ScanFile(path))

	doc, ok := reg.Get("untitled-notes")
	require.True(t, ok)
	assert.Equal(t, "From The Heading", doc.Title)
	assert.Equal(t, types.DateSourceNone, doc.DateSource)
	assert.True(t, doc.Undated())
	assert.Equal(t, "none", doc.Format)
}

func TestScanFileMarkdownExtension(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	path := writeFixture(t, root, "long-form.markdown", "Some prose here.\n")

	require.NoError(t, s.ScanFile(path))
	_, ok := reg.Get("long-form")
	assert.True(t, ok)
}

func TestScanFileInvalidFrontMatter(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	path := writeFixture(t, root, "broken.md", "---\ntitle: Never Closed\n")

	err := s.ScanFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsContentError(err))
	assert.Equal(t, 0, reg.Count())

	failures := s.ParseFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.md", failures[0].RelPath)
	assert.Contains(t, failures[0].Reason, "front matter does not parse")

	// Fixing the file clears the recorded failure.
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: Closed\n---\n\nBody.\n"), 0o644))
	require.NoError(t, s.ScanFile(path))
	assert.Empty(t, s.ParseFailures())
	assert.Equal(t, 1, reg.Count())
}

func TestScanFileDispatch(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	img := writeFixture(t, root, "images/new.png", "bytes")
	txt := writeFixture(t, root, "notes.txt", "plain")

	// Assets register as assets, not documents; anything else is ignored.
	require.NoError(t, s.ScanFile(img))
	require.Len(t, reg.Assets(), 1)
	assert.Equal(t, 0, reg.Count())

	require.NoError(t, s.ScanFile(txt))
	assert.Equal(t, 0, reg.Count())
	assert.Len(t, reg.Assets(), 1)
}

func TestScanFileOutsideRoot(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestScanner(t, root)

	err := s.ScanFile("/etc/passwd")
	require.Error(t, err)
	assert.True(t, errors.IsSecurityError(err))
}

func TestScanFileDetectorWiring(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)
	s.detector = func(string) string { return "xx" }

	path := writeFixture(t, root, "wired.md", "Whatever prose.\n")

	require.NoError(t, s.ScanFile(path))
	doc, ok := reg.Get("wired")
	require.True(t, ok)
	assert.Equal(t, "xx", doc.Language)
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)
	s.SetExcludes([]string{"ignored"})

	writeFixture(t, root, "2019-06-06-first-post.md", "---\ntitle: First\n---\n\nBody.\n")
	writeFixture(t, root, "notes/second-post.md", "Just some undated notes.\n")
	writeFixture(t, root, "images/chart.png", "not really a png")
	writeFixture(t, root, ".hidden/skipped.md", "Hidden.\n")
	writeFixture(t, root, "node_modules/dep/readme.md", "Dependency docs.\n")
	writeFixture(t, root, "ignored/out.md", "Excluded.\n")
	writeFixture(t, root, "plain.txt", "Not markdown.\n")

	require.NoError(t, s.ScanDirectory(root))

	assert.Equal(t, 2, reg.Count())

	_, ok := reg.Get("first-post")
	assert.True(t, ok)
	_, ok = reg.Get("second-post")
	assert.True(t, ok)
	_, ok = reg.GetByPath(".hidden/skipped.md")
	assert.False(t, ok)
	_, ok = reg.GetByPath("node_modules/dep/readme.md")
	assert.False(t, ok)
	_, ok = reg.GetByPath("ignored/out.md")
	assert.False(t, ok)

	assets := reg.Assets()
	require.Len(t, assets, 1)
	assert.Equal(t, "images/chart.png", assets[0].RelPath)
	assert.Equal(t, int64(len("not really a png")), assets[0].Size)
	assert.NotEmpty(t, assets[0].Hash)
}

func TestScanDirectoryManyFiles(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	// Enough files to route through the worker pool instead of the
	// synchronous small-batch path.
	for i := 0; i < 12; i++ {
		rel := fmt.Sprintf("2021-03-%02d-post-number-%d.md", i+1, i)
		writeFixture(t, root, rel, fmt.Sprintf("---\ntitle: Post %d\n---\n\nBody %d.\n", i, i))
	}

	require.NoError(t, s.ScanDirectory(root))
	assert.Equal(t, 12, reg.Count())
}

func TestScanDirectoryRecordsParseFailures(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	writeFixture(t, root, "good.md", "---\ntitle: Good\n---\n\nFine.\n")
	broken := writeFixture(t, root, "broken.md", "---\ntitle: Never Closed\n")

	// The broken file is reported but does not stop the scan.
	require.Error(t, s.ScanDirectory(root))
	assert.Equal(t, 1, reg.Count())

	failures := s.ParseFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.md", failures[0].RelPath)

	require.NoError(t, os.Remove(broken))
	require.NoError(t, s.ScanDirectory(root))
	assert.Empty(t, s.ParseFailures())
}

func TestScanAssetDirs(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "content")
	require.NoError(t, os.MkdirAll(root, 0o755))

	s, reg := newTestScanner(t, root)
	s.SetAssetDirs([]string{filepath.Join(parent, "shared")})

	writeFixture(t, root, "post.md", "Body prose.\n")
	writeFixture(t, parent, "shared/diagram.png", "png bytes")
	writeFixture(t, parent, "shared/notes.txt", "not an asset")

	require.NoError(t, s.ScanDirectory(root))

	assets := reg.Assets()
	require.Len(t, assets, 1)
	assert.Equal(t, "../shared/diagram.png", assets[0].RelPath)

	// Rescans keep external assets.
	require.NoError(t, s.ScanDirectory(root))
	assert.Len(t, reg.Assets(), 1)

	s.SetAssetDirs([]string{filepath.Join(parent, "missing")})
	assert.Error(t, s.ScanDirectory(root))
}

func TestScanDirectoryDetachesMissing(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	keep := writeFixture(t, root, "keep.md", "Keep me.\n")
	gone := writeFixture(t, root, "gone.md", "Delete me.\n")
	_ = keep

	require.NoError(t, s.ScanDirectory(root))
	require.Equal(t, 2, reg.Count())

	require.NoError(t, os.Remove(gone))
	require.NoError(t, s.ScanDirectory(root))

	assert.Equal(t, 1, reg.Count())
	_, ok := reg.GetByPath("gone.md")
	assert.False(t, ok)
	_, ok = reg.GetByPath("keep.md")
	assert.True(t, ok)
}

func TestRemovePath(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	doc := writeFixture(t, root, "post.md", "Body.\n")
	asset := writeFixture(t, root, "img/pic.png", "bytes")

	require.NoError(t, s.ScanDirectory(root))
	require.Equal(t, 1, reg.Count())
	require.Len(t, reg.Assets(), 1)

	require.NoError(t, s.RemovePath(doc))
	assert.Equal(t, 0, reg.Count())

	require.NoError(t, s.RemovePath(asset))
	assert.Empty(t, reg.Assets())

	err := s.RemovePath(filepath.Join(root, "..", "outside.md"))
	assert.Error(t, err)
}

func TestDuplicateSlugRecording(t *testing.T) {
	root := t.TempDir()
	s, reg := newTestScanner(t, root)

	writeFixture(t, root, "a.md", "---\nslug: same\n---\n\nFirst.\n")
	b := writeFixture(t, root, "b.md", "---\nslug: same\n---\n\nSecond.\n")

	require.NoError(t, s.ScanDirectory(root))

	// Walk order is lexical, so a.md registers first and b.md loses.
	require.Equal(t, 1, reg.Count())
	doc, ok := reg.Get("same")
	require.True(t, ok)
	assert.Equal(t, "a.md", doc.RelPath)

	dups := s.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "same", dups[0].Slug)
	assert.Equal(t, "a.md", dups[0].ExistingPath)
	assert.Equal(t, "b.md", dups[0].NewPath)

	// Giving the loser its own slug clears the recorded collision.
	require.NoError(t, os.WriteFile(b, []byte("---\nslug: other\n---\n\nSecond.\n"), 0o644))
	require.NoError(t, s.ScanFile(b))

	assert.Empty(t, s.Duplicates())
	assert.Equal(t, 2, reg.Count())
}

func TestDuplicatePrunedWhenLoserVanishes(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestScanner(t, root)

	writeFixture(t, root, "a.md", "---\nslug: same\n---\n\nFirst.\n")
	b := writeFixture(t, root, "b.md", "---\nslug: same\n---\n\nSecond.\n")

	require.NoError(t, s.ScanDirectory(root))
	require.Len(t, s.Duplicates(), 1)

	require.NoError(t, os.Remove(b))
	require.NoError(t, s.ScanDirectory(root))

	assert.Empty(t, s.Duplicates())
}

func TestValidatePath(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestScanner(t, root)

	abs, rel, err := s.validatePath(filepath.Join(root, "sub", "..", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "a.md"), abs)
	assert.Equal(t, "a.md", rel)

	_, _, err = s.validatePath(filepath.Join(root, ".."))
	assert.Error(t, err)

	_, _, err = s.validatePath("/etc/passwd")
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	assert.Empty(t, detectLanguage(""))
	assert.Empty(t, detectLanguage("   \n\t"))

	english := `We spent the last month rewriting the deployment scripts for the
site and the new setup finally feels boring, which is exactly what a
deployment setup should feel like after all these years of churn.`
	assert.Equal(t, "en", detectLanguage(english))
}

func TestScannerClose(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestScanner(t, root)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
