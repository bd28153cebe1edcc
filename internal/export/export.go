// Package export builds the content records an external publishing tool
// ingests. A Manifest wraps the records with generation metadata; NDJSON
// output drops the envelope and emits one record per line.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/srmagura/blog/internal/errors"
	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/types"
)

// Record is the exported form of one document.
type Record struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Date        *time.Time    `json:"date,omitempty"`
	Draft       bool          `json:"draft,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Language    string        `json:"language,omitempty"`
	WordCount   int           `json:"word_count"`
	ReadingTime int           `json:"reading_time"`
	Path        string        `json:"path"`
	Hash        string        `json:"hash"`
	Assets      []AssetRecord `json:"assets,omitempty"`
	Body        string        `json:"body,omitempty"`
}

// AssetRecord describes one asset a document references.
type AssetRecord struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

// Manifest is the JSON envelope around the records.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	ContentDir  string    `json:"content_dir"`
	Documents   int       `json:"documents"`
	Records     []Record  `json:"records"`
}

type Options struct {
	ContentDir    string
	IncludeDrafts bool
	IncludeBody   bool
}

// Build assembles a manifest from the registry in canonical collection
// order. Output is deterministic for a given collection state; only
// GeneratedAt varies between runs.
func Build(reg *registry.DocumentRegistry, opts Options) *Manifest {
	docs := reg.GetAll()

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		if doc.Draft && !opts.IncludeDrafts {
			continue
		}
		records = append(records, toRecord(reg, doc, opts))
	}

	return &Manifest{
		GeneratedAt: time.Now().UTC(),
		ContentDir:  opts.ContentDir,
		Documents:   len(records),
		Records:     records,
	}
}

func toRecord(reg *registry.DocumentRegistry, doc *types.DocumentInfo, opts Options) Record {
	r := Record{
		ID:          doc.ID,
		Slug:        doc.Slug,
		Title:       doc.EffectiveTitle(),
		Description: doc.Description,
		Draft:       doc.Draft,
		Tags:        doc.Tags,
		Language:    doc.Language,
		WordCount:   doc.WordCount,
		ReadingTime: doc.ReadingTime,
		Path:        doc.RelPath,
		Hash:        doc.Hash,
		Assets:      collectAssets(reg, doc),
	}
	if !doc.Undated() {
		date := doc.Date
		r.Date = &date
	}
	if opts.IncludeBody {
		r.Body = doc.Body
	}
	return r
}

// collectAssets resolves the document's image references against the
// registry, the way editorial checks do: against the document's own
// directory first, then the content root. Quoted and external references
// do not count.
func collectAssets(reg *registry.DocumentRegistry, doc *types.DocumentInfo) []AssetRecord {
	seen := make(map[string]bool)
	var out []AssetRecord
	for _, img := range doc.Images {
		if img.InCode || img.External {
			continue
		}
		target := img.Target
		if i := strings.IndexAny(target, "#?"); i >= 0 {
			target = target[:i]
		}
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
		if target == "" {
			continue
		}
		a, ok := lookupAsset(reg, doc.RelPath, target)
		if !ok || seen[a.RelPath] {
			continue
		}
		seen[a.RelPath] = true
		out = append(out, AssetRecord{Path: a.RelPath, Size: a.Size, Hash: a.Hash})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func lookupAsset(reg *registry.DocumentRegistry, docRel, target string) (*types.AssetInfo, bool) {
	var candidates []string
	if strings.HasPrefix(target, "/") {
		candidates = []string{strings.TrimPrefix(target, "/")}
	} else {
		candidates = []string{path.Join(path.Dir(docRel), target), target}
	}
	for _, cand := range candidates {
		cleaned := path.Clean(cand)
		if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
			continue
		}
		if a, ok := reg.Asset(cleaned); ok {
			return a, true
		}
	}
	return nil, false
}

// WriteJSON writes the manifest as indented JSON.
func WriteJSON(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.WrapIO(err, errors.ErrCodeExportFailed, "cannot write manifest")
	}
	return nil
}

// WriteNDJSON writes one record per line with no envelope.
func WriteNDJSON(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	for i := range m.Records {
		if err := enc.Encode(&m.Records[i]); err != nil {
			return errors.WrapIO(err, errors.ErrCodeExportFailed, "cannot write record")
		}
	}
	return nil
}

// Write dispatches on the configured format name.
func Write(w io.Writer, m *Manifest, format string) error {
	switch format {
	case "ndjson":
		return WriteNDJSON(w, m)
	case "", "json":
		return WriteJSON(w, m)
	default:
		return errors.NewValidationError(errors.ErrCodeConfigInvalid, fmt.Sprintf("unknown export format %q", format))
	}
}
