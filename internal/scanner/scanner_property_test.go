//go:build property

package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/slug"
)

// TestScannerProperties tests invariant properties of the document scanner.
func TestScannerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Scanning the same directory twice yields identical registries.
	properties.Property("scan idempotency", prop.ForAll(
		func(title string) bool {
			name := slug.Make(title)
			tempDir := t.TempDir()
			content := fmt.Sprintf("---\ntitle: Generated\n---\n\nBody of %s.\n", name)
			if err := os.WriteFile(filepath.Join(tempDir, name+".md"), []byte(content), 0o644); err != nil {
				return true // Skip unwritable names
			}

			reg1 := registry.NewDocumentRegistry()
			s1, err := NewContentScanner(reg1, tempDir)
			if err != nil {
				return false
			}
			defer s1.Close()

			reg2 := registry.NewDocumentRegistry()
			s2, err := NewContentScanner(reg2, tempDir)
			if err != nil {
				return false
			}
			defer s2.Close()

			if s1.ScanDirectory(tempDir) != nil || s2.ScanDirectory(tempDir) != nil {
				return false
			}

			docs1 := reg1.GetAll()
			docs2 := reg2.GetAll()
			if len(docs1) != len(docs2) {
				return false
			}
			for i := range docs1 {
				if docs1[i].Slug != docs2[i].Slug || docs1[i].Hash != docs2[i].Hash {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	// A file named with the date prefix convention scans back to the slug
	// and date that composed it.
	properties.Property("filename derivation round trip", prop.ForAll(
		func(days int, title string) bool {
			date := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
			made := slug.Make(title)

			tempDir := t.TempDir()
			name := slug.ComposeFilename(date, made) + ".md"
			if err := os.WriteFile(filepath.Join(tempDir, name), []byte("Body.\n"), 0o644); err != nil {
				return true // Skip unwritable names
			}

			reg := registry.NewDocumentRegistry()
			s, err := NewContentScanner(reg, tempDir)
			if err != nil {
				return false
			}
			defer s.Close()

			if s.ScanDirectory(tempDir) != nil {
				return false
			}

			doc, ok := reg.Get(made)
			if !ok {
				return false
			}
			return doc.Date.Equal(date)
		},
		gen.IntRange(0, 20000),
		gen.AnyString(),
	))

	// Scanning an empty directory never registers anything.
	properties.Property("empty directory consistency", prop.ForAll(
		func(rounds int) bool {
			tempDir := t.TempDir()

			reg := registry.NewDocumentRegistry()
			s, err := NewContentScanner(reg, tempDir)
			if err != nil {
				return false
			}
			defer s.Close()

			for i := 0; i < rounds; i++ {
				if err := s.ScanDirectory(tempDir); err != nil {
					return false
				}
			}
			return reg.Count() == 0 && len(reg.Assets()) == 0
		},
		gen.IntRange(1, 3),
	))

	properties.TestingRun(t)
}
