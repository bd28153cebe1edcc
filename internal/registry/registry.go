// Package registry holds the in-memory view of the article collection:
// every scanned document and asset, in the collection's canonical order.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/srmagura/blog/internal/types"
)

// DocumentRegistry manages all discovered documents and assets
type DocumentRegistry struct {
	documents map[string]*types.DocumentInfo // keyed by slug
	assets    map[string]*types.AssetInfo    // keyed by relative path
	mutex     sync.RWMutex
	watchers  []chan types.DocumentEvent
}

// DuplicateSlugError reports two documents competing for one slug. The
// first-registered document keeps it.
type DuplicateSlugError struct {
	Slug         string
	ExistingPath string
	NewPath      string
}

// Error implements the error interface.
func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q: %s and %s", e.Slug, e.ExistingPath, e.NewPath)
}

// NewDocumentRegistry creates a new document registry
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		documents: make(map[string]*types.DocumentInfo),
		assets:    make(map[string]*types.AssetInfo),
		watchers:  make([]chan types.DocumentEvent, 0),
	}
}

// Register adds or updates a document in the registry. Re-registering the
// same path under a new slug retires the old entry. Registering a slug that
// another path already owns fails with *DuplicateSlugError and leaves the
// existing document in place.
func (r *DocumentRegistry) Register(doc *types.DocumentInfo) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, exists := r.documents[doc.Slug]; exists && existing.RelPath != doc.RelPath {
		return &DuplicateSlugError{
			Slug:         doc.Slug,
			ExistingPath: existing.RelPath,
			NewPath:      doc.RelPath,
		}
	}

	// The file may have been re-slugged; drop the entry it used to occupy.
	for slug, existing := range r.documents {
		if slug != doc.Slug && existing.RelPath == doc.RelPath {
			delete(r.documents, slug)
			r.broadcast(types.DocumentEvent{
				Type:      types.EventTypeRemoved,
				Document:  existing,
				Timestamp: time.Now(),
			})
		}
	}

	eventType := types.EventTypeAdded
	if _, exists := r.documents[doc.Slug]; exists {
		eventType = types.EventTypeUpdated
	}

	r.documents[doc.Slug] = doc

	r.broadcast(types.DocumentEvent{
		Type:      eventType,
		Document:  doc,
		Timestamp: time.Now(),
	})

	return nil
}

// Get retrieves a document by slug
func (r *DocumentRegistry) Get(slug string) (*types.DocumentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.documents[slug]
	return doc, exists
}

// GetByPath retrieves a document by its relative path
func (r *DocumentRegistry) GetByPath(relPath string) (*types.DocumentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, doc := range r.documents {
		if doc.RelPath == relPath {
			return doc, true
		}
	}
	return nil, false
}

// GetAll returns all registered documents in the collection's canonical
// order: newest first, undated documents last, ties broken by slug.
func (r *DocumentRegistry) GetAll() []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.DocumentInfo, 0, len(r.documents))
	for _, doc := range r.documents {
		result = append(result, doc)
	}
	sortCanonical(result)
	return result
}

// Remove removes a document from the registry by slug
func (r *DocumentRegistry) Remove(slug string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, exists := r.documents[slug]
	if !exists {
		return
	}

	delete(r.documents, slug)

	r.broadcast(types.DocumentEvent{
		Type:      types.EventTypeRemoved,
		Document:  doc,
		Timestamp: time.Now(),
	})
}

// RemoveByPath removes whatever document occupies the given relative path
func (r *DocumentRegistry) RemoveByPath(relPath string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for slug, doc := range r.documents {
		if doc.RelPath == relPath {
			delete(r.documents, slug)
			r.broadcast(types.DocumentEvent{
				Type:      types.EventTypeRemoved,
				Document:  doc,
				Timestamp: time.Now(),
			})
			return
		}
	}
}

// DetachMissing removes every document and asset whose relative path is not
// in the valid set. Used after a full rescan to retire vanished files.
// It returns the number of entries dropped.
func (r *DocumentRegistry) DetachMissing(valid map[string]bool) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for slug, doc := range r.documents {
		if !valid[doc.RelPath] {
			delete(r.documents, slug)
			removed++
			r.broadcast(types.DocumentEvent{
				Type:      types.EventTypeRemoved,
				Document:  doc,
				Timestamp: time.Now(),
			})
		}
	}
	for relPath := range r.assets {
		if !valid[relPath] {
			delete(r.assets, relPath)
			removed++
		}
	}
	return removed
}

// Count returns the number of registered documents
func (r *DocumentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.documents)
}

// Watch returns a channel that receives document events
func (r *DocumentRegistry) Watch() <-chan types.DocumentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.DocumentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DocumentRegistry) UnWatch(ch <-chan types.DocumentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// RegisterAsset adds or updates an asset entry
func (r *DocumentRegistry) RegisterAsset(asset *types.AssetInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.assets[asset.RelPath] = asset
}

// Asset retrieves an asset by relative path
func (r *DocumentRegistry) Asset(relPath string) (*types.AssetInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	asset, exists := r.assets[relPath]
	return asset, exists
}

// Assets returns all registered assets sorted by relative path
func (r *DocumentRegistry) Assets() []*types.AssetInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.AssetInfo, 0, len(r.assets))
	for _, asset := range r.assets {
		result = append(result, asset)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RelPath < result[j].RelPath
	})
	return result
}

// RemoveAsset drops an asset entry by relative path
func (r *DocumentRegistry) RemoveAsset(relPath string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.assets, relPath)
}

// broadcast notifies watchers without ever blocking; callers hold the lock.
func (r *DocumentRegistry) broadcast(event types.DocumentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// sortCanonical orders documents newest first, undated last, slug ascending.
func sortCanonical(docs []*types.DocumentInfo) {
	sort.Slice(docs, func(i, j int) bool {
		di, dj := docs[i], docs[j]
		if di.Undated() != dj.Undated() {
			return dj.Undated()
		}
		if !di.Undated() && !di.Date.Equal(dj.Date) {
			return di.Date.After(dj.Date)
		}
		return di.Slug < dj.Slug
	})
}

// FilterOpts narrows the document set returned by Filter.
type FilterOpts struct {
	// Tag keeps documents carrying the tag (case-insensitive)
	Tag string
	// Year keeps documents published in the year; 0 means any
	Year int
	// IncludeDrafts keeps drafts in the result
	IncludeDrafts bool
	// Search keeps documents whose title or body contains the text
	Search string
}

// Filter returns the documents matching opts, in canonical order.
func (r *DocumentRegistry) Filter(opts FilterOpts) []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(opts.Search))

	result := make([]*types.DocumentInfo, 0, len(r.documents))
	for _, doc := range r.documents {
		if doc.Draft && !opts.IncludeDrafts {
			continue
		}
		if opts.Tag != "" && !doc.HasTag(opts.Tag) {
			continue
		}
		if opts.Year != 0 && doc.Year() != opts.Year {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doc.Title), needle) &&
			!strings.Contains(strings.ToLower(doc.Body), needle) {
			continue
		}
		result = append(result, doc)
	}
	sortCanonical(result)
	return result
}
