// Package lint runs editorial checks over a scanned article collection.
//
// Diagnostics are data, not errors: a lint run reports what an editor would
// want fixed (broken links, missing images, slug collisions, date drift)
// without failing the scan that produced the collection. Every rule has a
// stable ID so configuration can disable it, and a fixed severity that
// decides the exit code of a strict run.
package lint

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srmagura/blog/internal/registry"
	"github.com/srmagura/blog/internal/scanner"
	"github.com/srmagura/blog/internal/slug"
	"github.com/srmagura/blog/internal/types"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule IDs. Configuration disables rules by these names.
const (
	RuleParseError    = "parse-error"
	RuleBrokenLink    = "broken-link"
	RuleMissingImage  = "missing-image"
	RuleDuplicateSlug = "duplicate-slug"
	RuleMissingTitle  = "missing-title"
	RuleEmptyDocument = "empty-document"
	RuleUndated       = "undated"
	RuleDateMismatch  = "date-mismatch"
	RuleMalformedURL  = "malformed-url"
	RuleHeadingSkip   = "heading-skip"
	RuleUnusedAsset   = "unused-asset"
)

// ruleSeverities fixes the severity of every known rule.
var ruleSeverities = map[string]Severity{
	RuleParseError:    SeverityError,
	RuleBrokenLink:    SeverityError,
	RuleMissingImage:  SeverityError,
	RuleDuplicateSlug: SeverityError,
	RuleMissingTitle:  SeverityWarning,
	RuleEmptyDocument: SeverityWarning,
	RuleUndated:       SeverityWarning,
	RuleDateMismatch:  SeverityWarning,
	RuleMalformedURL:  SeverityWarning,
	RuleHeadingSkip:   SeverityWarning,
	RuleUnusedAsset:   SeverityWarning,
}

// KnownRules returns every rule ID in a stable order.
func KnownRules() []string {
	rules := make([]string, 0, len(ruleSeverities))
	for id := range ruleSeverities {
		rules = append(rules, id)
	}
	sort.Strings(rules)
	return rules
}

// IsKnownRule reports whether id names a rule.
func IsKnownRule(id string) bool {
	_, ok := ruleSeverities[id]
	return ok
}

// Diagnostic is one finding against one file.
type Diagnostic struct {
	// Rule is the ID of the rule that produced the finding
	Rule string
	// Severity is the rule's fixed severity
	Severity Severity
	// RelPath locates the file, relative to the content root
	RelPath string
	// Line locates the finding inside the file; 0 means the whole file
	Line int
	// Message describes the finding
	Message string
	// Suggestion names a close candidate when one exists
	Suggestion string
}

// String renders the diagnostic in file:line form.
func (d Diagnostic) String() string {
	location := d.RelPath
	if d.Line > 0 {
		location += fmt.Sprintf(":%d", d.Line)
	}
	s := fmt.Sprintf("%s %s [%s] %s", location, d.Severity, d.Rule, d.Message)
	if d.Suggestion != "" {
		s += " (" + d.Suggestion + ")"
	}
	return s
}

// Report collects the diagnostics of one run.
type Report struct {
	Diagnostics []Diagnostic
	Errors      int
	Warnings    int
}

func (r *Report) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SeverityError:
		r.Errors++
	case SeverityWarning:
		r.Warnings++
	}
}

// Sorted returns the diagnostics ordered by path, line, then rule.
func (r *Report) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(r.Diagnostics))
	copy(out, r.Diagnostics)
	sort.Slice(out, func(i, j int) bool {
		if out[i].RelPath != out[j].RelPath {
			return out[i].RelPath < out[j].RelPath
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}

// ExitCode maps the report to a process exit code. Errors always fail;
// strict mode fails on warnings too.
func (r *Report) ExitCode(strict bool) int {
	if r.Errors > 0 {
		return 1
	}
	if strict && r.Warnings > 0 {
		return 1
	}
	return 0
}

// Linter applies the enabled rules to a registry.
type Linter struct {
	disabled      map[string]bool
	duplicates    []*registry.DuplicateSlugError
	parseFailures []scanner.ParseFailure
}

// New creates a linter with every rule enabled.
func New() *Linter {
	return &Linter{disabled: make(map[string]bool)}
}

// Disable turns off rules by ID. Unknown IDs are ignored here;
// configuration validation reports them.
func (l *Linter) Disable(rules ...string) {
	for _, id := range rules {
		l.disabled[id] = true
	}
}

// SetDuplicates provides the slug collisions recorded during scanning.
func (l *Linter) SetDuplicates(dups []*registry.DuplicateSlugError) {
	l.duplicates = dups
}

// SetParseFailures provides the files the scanner could not parse.
func (l *Linter) SetParseFailures(failures []scanner.ParseFailure) {
	l.parseFailures = failures
}

func (l *Linter) enabled(rule string) bool {
	return !l.disabled[rule]
}

// runContext carries the collection state one run resolves against.
type runContext struct {
	reg  *registry.DocumentRegistry
	root string
	// used records resolved reference targets for the unused-asset rule
	used map[string]bool
	// docPaths, assetPaths and allPaths feed suggestions
	docPaths   []string
	assetPaths []string
	allPaths   []string
}

// Run applies all enabled rules to the registry. Root anchors filesystem
// existence checks for link and image targets.
func (l *Linter) Run(reg *registry.DocumentRegistry, root string) Report {
	var report Report

	docs := reg.GetAll()
	assets := reg.Assets()

	c := &runContext{
		reg:  reg,
		root: root,
		used: make(map[string]bool),
	}
	for _, doc := range docs {
		c.docPaths = append(c.docPaths, doc.RelPath)
	}
	for _, a := range assets {
		c.assetPaths = append(c.assetPaths, a.RelPath)
	}
	c.allPaths = append(append([]string{}, c.docPaths...), c.assetPaths...)

	for _, doc := range docs {
		l.checkDocument(c, doc, &report)
	}

	if l.enabled(RuleDuplicateSlug) {
		for _, dup := range l.duplicates {
			report.add(Diagnostic{
				Rule:     RuleDuplicateSlug,
				Severity: ruleSeverities[RuleDuplicateSlug],
				RelPath:  dup.NewPath,
				Message:  fmt.Sprintf("slug %q already used by %s", dup.Slug, dup.ExistingPath),
			})
		}
	}

	if l.enabled(RuleParseError) {
		for _, f := range l.parseFailures {
			report.add(Diagnostic{
				Rule:     RuleParseError,
				Severity: ruleSeverities[RuleParseError],
				RelPath:  f.RelPath,
				Message:  f.Reason,
			})
		}
	}

	if l.enabled(RuleUnusedAsset) {
		for _, a := range assets {
			if !c.used[a.RelPath] {
				report.add(Diagnostic{
					Rule:     RuleUnusedAsset,
					Severity: ruleSeverities[RuleUnusedAsset],
					RelPath:  a.RelPath,
					Message:  "asset is referenced by no document",
				})
			}
		}
	}

	return report
}

func (l *Linter) checkDocument(c *runContext, doc *types.DocumentInfo, report *Report) {
	if l.enabled(RuleMissingTitle) && doc.Title == "" {
		report.add(Diagnostic{
			Rule:     RuleMissingTitle,
			Severity: ruleSeverities[RuleMissingTitle],
			RelPath:  doc.RelPath,
			Message:  "no title in front matter and no leading heading",
		})
	}

	if l.enabled(RuleEmptyDocument) && doc.WordCount == 0 {
		report.add(Diagnostic{
			Rule:     RuleEmptyDocument,
			Severity: ruleSeverities[RuleEmptyDocument],
			RelPath:  doc.RelPath,
			Message:  "document body has no words",
		})
	}

	if l.enabled(RuleUndated) && doc.Undated() {
		report.add(Diagnostic{
			Rule:     RuleUndated,
			Severity: ruleSeverities[RuleUndated],
			RelPath:  doc.RelPath,
			Message:  "no date in front matter or file name",
		})
	}

	if l.enabled(RuleDateMismatch) {
		l.checkDateMismatch(doc, report)
	}

	if l.enabled(RuleHeadingSkip) {
		prev := 0
		for _, h := range doc.Headings {
			if prev > 0 && h.Level > prev+1 {
				report.add(Diagnostic{
					Rule:     RuleHeadingSkip,
					Severity: ruleSeverities[RuleHeadingSkip],
					RelPath:  doc.RelPath,
					Line:     h.Line,
					Message:  fmt.Sprintf("heading level jumps from h%d to h%d", prev, h.Level),
				})
			}
			prev = h.Level
		}
	}

	// Fenced references are quoted code, not live references; they are
	// neither checked nor counted as asset usage.
	for _, link := range doc.Links {
		if link.InCode {
			continue
		}
		l.checkReference(c, doc, link.Target, link.Line, link.External, false, report)
	}
	for _, img := range doc.Images {
		if img.InCode {
			continue
		}
		l.checkReference(c, doc, img.Target, img.Line, img.External, true, report)
	}
}

// checkDateMismatch compares a front matter date with the file name's date
// prefix when both exist.
func (l *Linter) checkDateMismatch(doc *types.DocumentInfo, report *Report) {
	if doc.DateSource != types.DateSourceFrontMatter {
		return
	}

	base := path.Base(doc.RelPath)
	base = strings.TrimSuffix(base, path.Ext(base))
	fileDate, _, ok := slug.SplitDatePrefix(base)
	if !ok {
		return
	}

	fy, fm, fd := fileDate.Date()
	dy, dm, dd := doc.Date.Date()
	if fy != dy || fm != dm || fd != dd {
		report.add(Diagnostic{
			Rule:     RuleDateMismatch,
			Severity: ruleSeverities[RuleDateMismatch],
			RelPath:  doc.RelPath,
			Message: fmt.Sprintf("front matter date %s does not match file name date %s",
				doc.Date.Format("2006-01-02"), fileDate.Format("2006-01-02")),
		})
	}
}

// checkReference validates one link or image target and records asset usage
// for resolved relative targets.
func (l *Linter) checkReference(c *runContext, doc *types.DocumentInfo, target string, line int, external, isImage bool, report *Report) {
	if external {
		if l.enabled(RuleMalformedURL) {
			if _, err := url.Parse(target); err != nil {
				report.add(Diagnostic{
					Rule:     RuleMalformedURL,
					Severity: ruleSeverities[RuleMalformedURL],
					RelPath:  doc.RelPath,
					Line:     line,
					Message:  fmt.Sprintf("external URL does not parse: %q", target),
				})
			}
		}
		return
	}

	// Protocol-relative targets resolve against the publishing host, not
	// the collection.
	if strings.HasPrefix(target, "//") {
		return
	}

	if scheme := targetScheme(target); scheme != "" {
		if l.enabled(RuleMalformedURL) {
			report.add(Diagnostic{
				Rule:     RuleMalformedURL,
				Severity: ruleSeverities[RuleMalformedURL],
				RelPath:  doc.RelPath,
				Line:     line,
				Message:  fmt.Sprintf("URL scheme %q is not http or https", scheme),
			})
		}
		return
	}

	rel := splitTargetPath(target)
	if rel == "" {
		// In-page fragment
		return
	}

	resolved, ok := c.resolve(doc.RelPath, rel)
	if ok {
		c.used[resolved] = true
		return
	}

	if isImage {
		if l.enabled(RuleMissingImage) {
			report.add(Diagnostic{
				Rule:       RuleMissingImage,
				Severity:   ruleSeverities[RuleMissingImage],
				RelPath:    doc.RelPath,
				Line:       line,
				Message:    fmt.Sprintf("image target %q resolves to no file", target),
				Suggestion: nearestPath(rel, c.assetPaths),
			})
		}
		return
	}

	if l.enabled(RuleBrokenLink) {
		report.add(Diagnostic{
			Rule:       RuleBrokenLink,
			Severity:   ruleSeverities[RuleBrokenLink],
			RelPath:    doc.RelPath,
			Line:       line,
			Message:    fmt.Sprintf("link target %q resolves to no file in the collection", target),
			Suggestion: nearestPath(rel, c.allPaths),
		})
	}
}

// resolve tries a relative target against the document's directory, then
// against the content root. Leading slashes anchor at the root.
func (c *runContext) resolve(docRel, target string) (string, bool) {
	var candidates []string
	if strings.HasPrefix(target, "/") {
		candidates = []string{strings.TrimPrefix(target, "/")}
	} else {
		candidates = []string{
			path.Join(path.Dir(docRel), target),
			target,
		}
	}

	for _, cand := range candidates {
		cand = path.Clean(cand)
		if cand == "." {
			continue
		}
		if cand == ".." || strings.HasPrefix(cand, "../") {
			// Targets outside the root resolve only through registered
			// assets, which configured extra asset roots contribute.
			if _, ok := c.reg.Asset(cand); ok {
				return cand, true
			}
			continue
		}
		if c.exists(cand) {
			return cand, true
		}
	}

	return "", false
}

// exists checks a root-relative path against the collection. Markdown
// targets must be scanned documents; anything else may be an asset or a
// plain file on disk.
func (c *runContext) exists(rel string) bool {
	ext := strings.ToLower(path.Ext(rel))
	if ext == ".md" || ext == ".markdown" {
		_, ok := c.reg.GetByPath(rel)
		return ok
	}

	if _, ok := c.reg.Asset(rel); ok {
		return true
	}

	info, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// targetScheme extracts a URL scheme from a target, "" when there is none.
// A colon before the first slash marks a scheme.
func targetScheme(target string) string {
	i := strings.Index(target, ":")
	if i <= 0 {
		return ""
	}
	if j := strings.IndexAny(target, "/?#"); j != -1 && j < i {
		return ""
	}
	return target[:i]
}

// splitTargetPath strips the fragment and query from a relative target and
// decodes percent escapes.
func splitTargetPath(target string) string {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	decoded, err := url.PathUnescape(target)
	if err != nil {
		return target
	}
	return decoded
}
