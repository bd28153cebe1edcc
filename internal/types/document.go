// Package types provides common type definitions used throughout the blog CLI.
// This package contains shared types to avoid circular dependencies between packages.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/srmagura/blog/internal/slug"
)

// Date source values recorded on a document.
const (
	DateSourceFrontMatter = "front-matter"
	DateSourceFilename    = "filename"
	DateSourceNone        = "none"
)

// DocumentInfo contains the metadata and extracted structure of one article
// in the collection, produced by the scanner and held by the registry.
type DocumentInfo struct {
	// ID is a stable identifier derived from the relative path
	ID string
	// RelPath is the path relative to the content directory, slash-separated
	RelPath string
	// FilePath is the absolute path to the Markdown file
	FilePath string
	// Slug identifies the document in URLs and lookups
	Slug string
	// Title is the display title (front matter, else first H1)
	Title string
	// Date is the publication date; zero when the document is undated
	Date time.Time
	// DateSource records where Date came from (front-matter, filename, none)
	DateSource string
	// Draft marks unpublished documents
	Draft bool
	// Tags holds the front matter tag list
	Tags []string
	// Description is the front matter summary, if any
	Description string
	// Format is the front matter format found (yaml, toml, none)
	Format string
	// Language is the detected ISO 639-1 code of the body prose
	Language string
	// Body is the Markdown body with front matter stripped
	Body string
	// WordCount counts prose and code words in the body
	WordCount int
	// ReadingTime is the estimated minutes to read the body
	ReadingTime int
	// Headings lists the ATX headings in order of appearance
	Headings []Heading
	// Links lists Markdown and inline-HTML links
	Links []Link
	// Images lists Markdown and inline-HTML image references
	Images []ImageRef
	// CodeFences counts fenced code blocks
	CodeFences int
	// LastMod tracks the file modification time for change detection
	LastMod time.Time
	// Hash provides a CRC32 checksum of the raw file for change detection
	Hash string
}

// DocumentID derives the stable identifier for a document from its
// slash-normalized relative path.
func DocumentID(relPath string) string {
	sum := sha256.Sum256([]byte(strings.ReplaceAll(relPath, "\\", "/")))
	return hex.EncodeToString(sum[:16])
}

// Undated reports whether the document carries no date at all.
func (d *DocumentInfo) Undated() bool {
	return d.Date.IsZero()
}

// Year returns the publication year, or 0 for undated documents.
func (d *DocumentInfo) Year() int {
	if d.Date.IsZero() {
		return 0
	}
	return d.Date.Year()
}

// EffectiveTitle returns the title, falling back to a title-cased slug so
// every document has something presentable.
func (d *DocumentInfo) EffectiveTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return slug.Title(d.Slug)
}

// HasTag reports whether the document carries the tag (case-insensitive).
func (d *DocumentInfo) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Heading is one ATX heading extracted from the body.
type Heading struct {
	// Level is the heading depth, 1 through 6
	Level int
	// Text is the heading content with markers stripped
	Text string
	// Line is the 1-based line number within the body
	Line int
}

// Link is a link extracted from the body.
type Link struct {
	// Text is the link text (empty for reference definitions)
	Text string
	// Target is the raw link destination as written
	Target string
	// Line is the 1-based line number within the body
	Line int
	// External marks http/https targets
	External bool
	// InCode marks links that appear inside a fenced code block
	InCode bool
}

// ImageRef is an image reference extracted from the body.
type ImageRef struct {
	// Alt is the alternative text
	Alt string
	// Target is the raw image destination as written
	Target string
	// Line is the 1-based line number within the body
	Line int
	// External marks http/https targets
	External bool
	// InCode marks references that appear inside a fenced code block
	InCode bool
}

// AssetInfo describes a sibling asset file (an image) in the collection.
type AssetInfo struct {
	// RelPath is the path relative to the content directory, slash-separated
	RelPath string
	// FilePath is the absolute path to the asset
	FilePath string
	// Size is the file size in bytes
	Size int64
	// ModTime is the file modification time
	ModTime time.Time
	// Hash provides a CRC32 checksum for change detection
	Hash string
}

// EventType represents the type of document change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// String returns the event type as a plain string.
func (t EventType) String() string {
	return string(t)
}

// DocumentEvent represents a change in the document registry, used for
// notifications to watchers like the watch command.
type DocumentEvent struct {
	// Type indicates the kind of change (added, updated, removed)
	Type EventType
	// Document contains the document information (may be nil for removed events)
	Document *DocumentInfo
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
