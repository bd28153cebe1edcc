// Package slug derives URL-safe slugs and filename dates for articles.
package slug

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks,
// so "café" slugs the same as "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title into a slug: lowercase ASCII letters and digits with
// single hyphens between runs. Applying Make to its own output is a no-op.
// Input that yields nothing slugs to "untitled".
func Make(title string) string {
	if clean, _, err := transform.String(stripMarks, title); err == nil {
		title = clean
	}

	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
		default:
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// Title turns a slug back into a display title ("cancellable-promises" ->
// "Cancellable Promises").
func Title(slug string) string {
	if slug == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// SplitDatePrefix recognizes the YYYY-MM-DD-rest filename convention on a
// base name (extension already stripped). Invalid calendar dates are not a
// match. The bare date form with no rest is not a match either.
func SplitDatePrefix(base string) (date time.Time, rest string, ok bool) {
	if len(base) < 12 || base[10] != '-' {
		return time.Time{}, "", false
	}

	parsed, err := time.Parse("2006-01-02", base[:10])
	if err != nil {
		return time.Time{}, "", false
	}

	return parsed, base[11:], true
}

// ComposeFilename builds the dated base name for a new article file,
// without extension. A zero date yields the bare slug.
func ComposeFilename(date time.Time, slug string) string {
	if date.IsZero() {
		return slug
	}
	return fmt.Sprintf("%s-%s", date.Format("2006-01-02"), slug)
}
