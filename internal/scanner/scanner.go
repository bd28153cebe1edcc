// Package scanner provides document discovery and parsing for a Markdown
// article collection.
//
// The scanner walks a content root collecting Markdown documents and image
// assets, splits front matter, scans body structure, and derives the fields
// the collection's conventions encode in filenames (date prefix, slug). It
// integrates with the document registry to broadcast change events and
// supports recursive directory scanning with exclude patterns. Documents are
// parsed on a persistent worker pool with pooled read buffers, and every
// path is validated against the content root before it is touched.
package scanner

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/retarus/whatlanggo"

	"github.com/srmagura/blog/internal/errors"
	"github.com/srmagura/blog/internal/markdown"
	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/slug"
	"github.com/srmagura/blog/internal/types"
)

// markdownExts are the document extensions the walk picks up.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// assetExts are the image extensions registered as collection assets.
var assetExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// largeFileSize is the cutoff above which files are read in chunks and
// hashed concurrently with parsing.
const largeFileSize = 64 * 1024

// ScanJob represents a parsing job for the worker pool containing the file
// path to scan and a result channel for asynchronous communication.
type ScanJob struct {
	// filePath is the absolute path to the document to be parsed
	filePath string
	// result channel receives the scan result or error asynchronously
	result chan<- ScanResult
}

// ScanResult represents the result of a scanning operation, containing
// either success status or error information for a specific file.
type ScanResult struct {
	// filePath is the path that was scanned
	filePath string
	// err contains any error that occurred during scanning, nil on success
	err error
}

// ParseFailure records a document whose front matter would not parse. The
// file drops out of the collection; editorial checks surface the failure.
type ParseFailure struct {
	// RelPath locates the file relative to the content root
	RelPath string
	// Reason describes the parse error
	Reason string
}

// BufferPool manages reusable byte buffers for file reading.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new buffer pool with initial buffer size.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				// Pre-allocate 64KB buffers for typical article files
				return make([]byte, 0, 64*1024)
			},
		},
	}
}

// Get retrieves a buffer from the pool.
func (bp *BufferPool) Get() []byte {
	return bp.pool.Get().([]byte)[:0] // Reset length but keep capacity
}

// Put returns a buffer to the pool.
func (bp *BufferPool) Put(buf []byte) {
	// Only pool reasonably-sized buffers to avoid memory leaks
	if cap(buf) <= 1024*1024 { // 1MB limit
		bp.pool.Put(buf)
	}
}

// WorkerPool manages persistent scanning workers, distributing parse jobs
// across CPU cores through a shared queue.
type WorkerPool struct {
	// jobQueue buffers scanning jobs for worker distribution
	jobQueue chan ScanJob
	// workers holds references to all active worker goroutines
	workers []*ScanWorker
	// workerCount defines the number of concurrent workers (typically NumCPU)
	workerCount int
	// scanner is the shared content scanner instance
	scanner *ContentScanner
	// stop signals all workers to terminate gracefully
	stop chan struct{}
	// stopped tracks pool shutdown state
	stopped bool
	// mu protects concurrent access to pool state
	mu sync.RWMutex
}

// ScanWorker is a persistent worker goroutine that processes parse jobs
// from the shared job queue.
type ScanWorker struct {
	// id uniquely identifies this worker for debugging
	id int
	// jobQueue receives scanning jobs from the worker pool
	jobQueue <-chan ScanJob
	// scanner provides the document parsing functionality
	scanner *ContentScanner
	// stop signals this worker to terminate gracefully
	stop chan struct{}
}

// ContentScanner discovers and parses the documents of an article
// collection.
//
// The scanner provides:
// - Recursive directory traversal with exclude patterns
// - Front matter and body structure extraction
// - Filename convention handling (date prefix, slug derivation)
// - Concurrent parsing via worker pool
// - Integration with the document registry for event broadcasting
// - File change detection using CRC32 hashing
// - Path validation rooted at the content directory
type ContentScanner struct {
	// registry receives parsed documents and broadcasts change events
	registry *registry.DocumentRegistry
	// root is the absolute content directory; scanned paths must stay inside it
	root string
	// excludes holds glob patterns matched against root-relative paths
	excludes []string
	// assetDirs holds extra asset roots walked after the content root
	assetDirs []string
	// detector maps body prose to an ISO 639-1 language code
	detector func(text string) string
	// workerPool manages concurrent parsing operations
	workerPool *WorkerPool
	// bufferPool provides reusable byte buffers for file reading
	bufferPool *BufferPool

	// dupMu guards duplicates, which workers record concurrently
	dupMu sync.Mutex
	// duplicates records slug collisions the registry rejected, keyed by
	// losing path plus slug so rescans do not accumulate repeats
	duplicates map[string]*registry.DuplicateSlugError

	// failMu guards parseFailures, which workers record concurrently
	failMu sync.Mutex
	// parseFailures records files whose front matter would not parse,
	// keyed by path so rescans replace earlier failures
	parseFailures map[string]ParseFailure
}

// NewContentScanner creates a scanner rooted at the content directory. The
// root must exist; it anchors path validation and relative paths.
func NewContentScanner(reg *registry.DocumentRegistry, root string) (*ContentScanner, error) {
	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, errors.ErrInvalidPath(root)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "content root "+root)
	}
	if !info.IsDir() {
		return nil, errors.ErrInvalidPath(root).WithContext("reason", "not a directory")
	}

	scanner := &ContentScanner{
		registry:      reg,
		root:          absRoot,
		detector:      detectLanguage,
		bufferPool:    NewBufferPool(),
		duplicates:    make(map[string]*registry.DuplicateSlugError),
		parseFailures: make(map[string]ParseFailure),
	}

	// Initialize worker pool with optimal worker count
	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8 // Cap at 8 workers for diminishing returns
	}

	scanner.workerPool = NewWorkerPool(workerCount, scanner)
	return scanner, nil
}

// NewWorkerPool creates a new worker pool for scanning operations.
func NewWorkerPool(workerCount int, scanner *ContentScanner) *WorkerPool {
	pool := &WorkerPool{
		jobQueue:    make(chan ScanJob, workerCount*2),
		workerCount: workerCount,
		scanner:     scanner,
		stop:        make(chan struct{}),
	}

	// Start persistent workers
	pool.workers = make([]*ScanWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		worker := &ScanWorker{
			id:       i,
			jobQueue: pool.jobQueue,
			scanner:  scanner,
			stop:     make(chan struct{}),
		}
		pool.workers[i] = worker
		go worker.start()
	}

	return pool
}

// start begins the worker's processing loop.
func (w *ScanWorker) start() {
	for {
		select {
		case job := <-w.jobQueue:
			err := w.scanner.scanFileInternal(job.filePath)
			job.result <- ScanResult{
				filePath: job.filePath,
				err:      err,
			}
		case <-w.stop:
			return
		}
	}
}

// Stop gracefully shuts down the worker pool.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	p.stopped = true
	close(p.stop)

	for _, worker := range p.workers {
		close(worker.stop)
	}

	close(p.jobQueue)
}

// GetRegistry returns the document registry.
func (s *ContentScanner) GetRegistry() *registry.DocumentRegistry {
	return s.registry
}

// Root returns the absolute content root the scanner validates against.
func (s *ContentScanner) Root() string {
	return s.root
}

// SetExcludes replaces the exclude globs. Patterns match the root-relative
// slash path and the base name. Set before scanning begins.
func (s *ContentScanner) SetExcludes(globs []string) {
	s.excludes = globs
}

// SetAssetDirs replaces the extra asset roots. These may live outside the
// content root; their images join the asset set keyed by their path
// relative to the content root. Set before scanning begins.
func (s *ContentScanner) SetAssetDirs(dirs []string) {
	s.assetDirs = dirs
}

// Close gracefully shuts down the scanner and its worker pool.
func (s *ContentScanner) Close() error {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	return nil
}

// ScanDirectory walks dir collecting documents and assets, parses the
// documents on the worker pool, walks any configured extra asset roots,
// and detaches registry entries whose files vanished since the last scan.
// Parse failures are recorded for editorial checks and reported in the
// returned error; they do not stop the scan.
func (s *ContentScanner) ScanDirectory(dir string) error {
	cleanDir, _, err := s.validatePath(dir)
	if err != nil {
		return err
	}

	valid := make(map[string]bool)
	var files []string

	err = filepath.WalkDir(cleanDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == cleanDir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "node_modules" {
				return filepath.SkipDir
			}
			if rel, ok := s.relPath(p); ok && s.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, ok := s.relPath(p)
		if !ok || s.excluded(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		switch {
		case markdownExts[ext]:
			valid[rel] = true
			files = append(files, p)
		case assetExts[ext]:
			if err := s.registerAsset(p, rel); err == nil {
				valid[rel] = true
			}
		}

		return nil
	})
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeIndexFailed, "walking "+dir)
	}

	scanErr := s.processBatchWithWorkerPool(files)

	for _, assetDir := range s.assetDirs {
		if err := s.scanAssetRoot(assetDir, valid); err != nil {
			scanErr = errors.CombineErrors(scanErr, err)
		}
	}

	s.registry.DetachMissing(valid)
	s.pruneDuplicates(valid)
	s.pruneParseFailures(valid)

	return scanErr
}

// scanAssetRoot walks an extra asset root registering its image files.
// Asset keys stay relative to the content root so document references
// resolve the same way for every asset.
func (s *ContentScanner) scanAssetRoot(dir string, valid map[string]bool) error {
	cleanDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return errors.ErrInvalidPath(dir)
	}

	err = filepath.WalkDir(cleanDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == cleanDir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !assetExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		relSlash := filepath.ToSlash(rel)

		if regErr := s.registerAsset(p, relSlash); regErr == nil {
			valid[relSlash] = true
		}

		return nil
	})
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeIndexFailed, "walking asset dir "+dir)
	}

	return nil
}

// processBatchWithWorkerPool parses files on the persistent worker pool,
// falling back to synchronous parsing for small batches and full queues.
func (s *ContentScanner) processBatchWithWorkerPool(files []string) error {
	if len(files) == 0 {
		return nil
	}

	// For very small batches, process synchronously to avoid overhead
	if len(files) <= 5 {
		return s.processBatchSynchronous(files)
	}

	resultChan := make(chan ScanResult, len(files))

	for _, file := range files {
		job := ScanJob{
			filePath: file,
			result:   resultChan,
		}

		select {
		case s.workerPool.jobQueue <- job:
			// Job submitted
		default:
			// Worker pool is full, process synchronously as fallback
			err := s.scanFileInternal(file)
			resultChan <- ScanResult{filePath: file, err: err}
		}
	}

	var scanErrors []error
	for i := 0; i < len(files); i++ {
		result := <-resultChan
		if result.err != nil {
			scanErrors = append(scanErrors, fmt.Errorf("scanning %s: %w", result.filePath, result.err))
		}
	}

	close(resultChan)

	return errors.CombineErrors(scanErrors...)
}

// processBatchSynchronous parses small batches inline.
func (s *ContentScanner) processBatchSynchronous(files []string) error {
	var scanErrors []error

	for _, file := range files {
		if err := s.scanFileInternal(file); err != nil {
			scanErrors = append(scanErrors, fmt.Errorf("scanning %s: %w", file, err))
		}
	}

	return errors.CombineErrors(scanErrors...)
}

// ScanFile parses and registers the document or asset at path. Paths that
// are neither are ignored, so watch events can be handed over unfiltered.
func (s *ContentScanner) ScanFile(p string) error {
	cleanPath, relPath, err := s.validatePath(p)
	if err != nil {
		return err
	}

	ext := strings.ToLower(path.Ext(relPath))
	switch {
	case markdownExts[ext]:
		return s.scanFileInternal(cleanPath)
	case assetExts[ext]:
		return s.registerAsset(cleanPath, relPath)
	}

	return nil
}

// scanFileInternal is the parsing method shared by workers and direct calls.
func (s *ContentScanner) scanFileInternal(p string) error {
	cleanPath, relPath, err := s.validatePath(p)
	if err != nil {
		return err
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "opening "+relPath)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeIndexFailed, "stat "+relPath)
	}

	content, err := s.readAll(file, info.Size())
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeIndexFailed, "reading "+relPath)
	}

	// For large files, hash concurrently while front matter parses.
	// Small files stay synchronous to avoid goroutine overhead.
	var (
		hash   string
		meta   markdown.Meta
		body   string
		format string
	)
	if info.Size() > largeFileSize {
		hashChan := make(chan string, 1)
		go func() {
			hashChan <- fmt.Sprintf("%x", crc32.ChecksumIEEE(content))
		}()
		meta, body, format, err = markdown.SplitFrontMatter(content)
		hash = <-hashChan
	} else {
		hash = fmt.Sprintf("%x", crc32.ChecksumIEEE(content))
		meta, body, format, err = markdown.SplitFrontMatter(content)
	}
	if err != nil {
		// An unparseable file has no well-defined document; any previously
		// registered version is dropped and the failure is recorded for
		// editorial checks.
		s.registry.RemoveByPath(relPath)
		s.recordParseFailure(relPath, err)
		return errors.ErrFrontMatter(relPath, err)
	}
	s.clearParseFailure(relPath)

	st := markdown.ScanBody(body)
	doc := s.buildDocument(cleanPath, relPath, meta, body, format, st, info.ModTime(), hash)

	if err := s.registry.Register(doc); err != nil {
		if dup, ok := err.(*registry.DuplicateSlugError); ok {
			// First-registered document wins; the collision is recorded
			// for editorial checks instead of failing the scan.
			s.recordDuplicate(dup)
			return nil
		}
		return err
	}

	s.clearDuplicates(relPath)
	return nil
}

// buildDocument derives the document fields from front matter, filename
// convention, and body structure. Front matter wins over the filename date
// prefix and over the first H1.
func (s *ContentScanner) buildDocument(cleanPath, relPath string, meta markdown.Meta, body, format string, st markdown.Structure, modTime time.Time, hash string) *types.DocumentInfo {
	base := filepath.Base(cleanPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	fileDate, rest, hasFileDate := slug.SplitDatePrefix(base)
	slugSource := base
	if hasFileDate {
		slugSource = rest
	}

	docSlug := slug.Make(slugSource)
	if fm := meta.Slug(); fm != "" {
		docSlug = slug.Make(fm)
	}

	var date time.Time
	dateSource := types.DateSourceNone
	if hasFileDate {
		date = fileDate
		dateSource = types.DateSourceFilename
	}
	if fm, ok := meta.Date(); ok {
		date = fm
		dateSource = types.DateSourceFrontMatter
	}

	title := meta.Title()
	if title == "" {
		for _, h := range st.Headings {
			if h.Level == 1 {
				title = h.Text
				break
			}
		}
	}

	return &types.DocumentInfo{
		ID:          types.DocumentID(relPath),
		RelPath:     relPath,
		FilePath:    cleanPath,
		Slug:        docSlug,
		Title:       title,
		Date:        date,
		DateSource:  dateSource,
		Draft:       meta.Draft(),
		Tags:        meta.Tags(),
		Description: meta.Description(),
		Format:      format,
		Language:    s.detector(markdown.StripFences(body)),
		Body:        body,
		WordCount:   st.WordCount,
		ReadingTime: markdown.ReadingMinutes(st.WordCount),
		Headings:    st.Headings,
		Links:       st.Links,
		Images:      st.Images,
		CodeFences:  st.CodeFences,
		LastMod:     modTime,
		Hash:        hash,
	}
}

// RemovePath drops the document or asset at path from the registry. The
// watcher calls this on delete and rename events.
func (s *ContentScanner) RemovePath(p string) error {
	_, relPath, err := s.validatePath(p)
	if err != nil {
		return err
	}

	ext := strings.ToLower(path.Ext(relPath))
	switch {
	case markdownExts[ext]:
		s.registry.RemoveByPath(relPath)
		s.clearDuplicates(relPath)
		s.clearParseFailure(relPath)
	case assetExts[ext]:
		s.registry.RemoveAsset(relPath)
	}

	return nil
}

// Duplicates returns the recorded slug collisions sorted by losing path.
// The registry keeps the first-registered document for each slug; editorial
// checks surface the files it rejected.
func (s *ContentScanner) Duplicates() []*registry.DuplicateSlugError {
	s.dupMu.Lock()
	defer s.dupMu.Unlock()

	dups := make([]*registry.DuplicateSlugError, 0, len(s.duplicates))
	for _, dup := range s.duplicates {
		dups = append(dups, dup)
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].NewPath != dups[j].NewPath {
			return dups[i].NewPath < dups[j].NewPath
		}
		return dups[i].Slug < dups[j].Slug
	})

	return dups
}

func (s *ContentScanner) recordDuplicate(dup *registry.DuplicateSlugError) {
	s.dupMu.Lock()
	defer s.dupMu.Unlock()
	s.duplicates[dup.NewPath+"\x00"+dup.Slug] = dup
}

// clearDuplicates drops recorded collisions for a path that registered
// successfully or was removed.
func (s *ContentScanner) clearDuplicates(relPath string) {
	s.dupMu.Lock()
	defer s.dupMu.Unlock()
	for key, dup := range s.duplicates {
		if dup.NewPath == relPath {
			delete(s.duplicates, key)
		}
	}
}

// pruneDuplicates drops recorded collisions whose losing file vanished.
func (s *ContentScanner) pruneDuplicates(valid map[string]bool) {
	s.dupMu.Lock()
	defer s.dupMu.Unlock()
	for key, dup := range s.duplicates {
		if !valid[dup.NewPath] {
			delete(s.duplicates, key)
		}
	}
}

// ParseFailures returns the recorded parse failures sorted by path.
func (s *ContentScanner) ParseFailures() []ParseFailure {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	failures := make([]ParseFailure, 0, len(s.parseFailures))
	for _, f := range s.parseFailures {
		failures = append(failures, f)
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].RelPath < failures[j].RelPath
	})

	return failures
}

func (s *ContentScanner) recordParseFailure(relPath string, cause error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.parseFailures[relPath] = ParseFailure{
		RelPath: relPath,
		Reason:  fmt.Sprintf("front matter does not parse: %v", cause),
	}
}

// clearParseFailure drops the recorded failure for a path that parsed or
// was removed.
func (s *ContentScanner) clearParseFailure(relPath string) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	delete(s.parseFailures, relPath)
}

// pruneParseFailures drops recorded failures whose file vanished.
func (s *ContentScanner) pruneParseFailures(valid map[string]bool) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	for relPath := range s.parseFailures {
		if !valid[relPath] {
			delete(s.parseFailures, relPath)
		}
	}
}

// registerAsset records an image file with the registry.
func (s *ContentScanner) registerAsset(p, relPath string) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "stat "+relPath)
	}

	hash, err := hashFile(p)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeIndexFailed, "hashing "+relPath)
	}

	s.registry.RegisterAsset(&types.AssetInfo{
		RelPath:  relPath,
		FilePath: p,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Hash:     hash,
	})

	return nil
}

// readAll reads the whole file through the buffer pool. Files above the
// large cutoff go through chunked reads so the pool is not asked to hold
// multi-megabyte buffers.
func (s *ContentScanner) readAll(file *os.File, size int64) ([]byte, error) {
	buffer := s.bufferPool.Get()
	defer s.bufferPool.Put(buffer)

	if size > largeFileSize {
		return s.readStreaming(file, size, buffer)
	}

	if cap(buffer) < int(size) {
		buffer = make([]byte, size)
	}
	buffer = buffer[:size]
	if _, err := io.ReadFull(file, buffer); err != nil {
		return nil, err
	}

	content := make([]byte, len(buffer))
	copy(content, buffer)
	return content, nil
}

// readStreaming reads large files in chunks using the pooled buffer.
func (s *ContentScanner) readStreaming(file *os.File, size int64, pooledBuffer []byte) ([]byte, error) {
	const chunkSize = 32 * 1024

	var chunk []byte
	if cap(pooledBuffer) >= chunkSize {
		chunk = pooledBuffer[:chunkSize]
	} else {
		chunk = make([]byte, chunkSize)
	}

	// Pre-allocate with exact size to avoid reallocations
	content := make([]byte, 0, size)

	for {
		n, err := file.Read(chunk)
		if n > 0 {
			content = append(content, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}

	return content, nil
}

// validatePath cleans a path and confirms it stays inside the content root.
// It returns the cleaned absolute path and the root-relative slash path.
// The path itself does not have to exist; removals validate too.
func (s *ContentScanner) validatePath(p string) (cleanPath, relPath string, err error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", "", errors.ErrInvalidPath(p)
	}

	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", errors.ErrPathTraversal(p)
	}

	return abs, filepath.ToSlash(rel), nil
}

// relPath converts a walked path to its root-relative slash form.
func (s *ContentScanner) relPath(p string) (string, bool) {
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// excluded matches the root-relative slash path and its base name against
// the configured globs. Invalid patterns never match.
func (s *ContentScanner) excluded(rel string) bool {
	for _, g := range s.excludes {
		if ok, err := path.Match(g, rel); err == nil && ok {
			return true
		}
		if ok, err := path.Match(g, path.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}

// detectLanguage reports the ISO 639-1 code whatlanggo assigns to the
// prose, or "" when there is nothing to detect.
func detectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return whatlanggo.DetectLang(text).Iso6391()
}

// hashFile checksums an asset without loading it whole.
func hashFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum32()), nil
}
