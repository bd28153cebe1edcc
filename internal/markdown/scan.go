package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/srmagura/blog/internal/types"
)

// Structure holds everything a single pass over a Markdown body extracts.
type Structure struct {
	Headings   []types.Heading
	Links      []types.Link
	Images     []types.ImageRef
	CodeFences int
	WordCount  int
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	imageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^()]*)\)`)
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\(([^()]*)\)`)
	refDefRe  = regexp.MustCompile(`^\[([^\]]+)\]:\s+(\S+)`)
)

// ScanBody extracts headings, links, images, fence and word counts from a
// Markdown body in one line-oriented pass. Links and images found inside
// fenced code blocks are marked InCode; editorial checks skip those.
// Indented code blocks are not recognized, the collection fences everything.
func ScanBody(body string) Structure {
	var st Structure

	lines := strings.Split(normalizeLineEndings(body), "\n")
	inFence := false
	var fenceMarker byte

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if marker, ok := fenceDelimiter(trimmed); ok {
			if !inFence {
				inFence = true
				fenceMarker = marker
				st.CodeFences++
				continue
			}
			if marker == fenceMarker && isPureFenceLine(trimmed, marker) {
				inFence = false
				continue
			}
			// a differing fence marker inside an open fence is content
		}

		if inFence {
			st.WordCount += len(strings.Fields(line))
			extractInline(line, lineNo, true, &st)
			extractHTML(line, lineNo, true, &st)
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			st.Headings = append(st.Headings, types.Heading{
				Level: len(m[1]),
				Text:  trimClosingHashes(m[2]),
				Line:  lineNo,
			})
			continue
		}

		if m := refDefRe.FindStringSubmatch(trimmed); m != nil {
			target := cleanTarget(m[2])
			st.Links = append(st.Links, types.Link{
				Target:   target,
				Line:     lineNo,
				External: isExternal(target),
			})
			continue
		}

		extractInline(line, lineNo, false, &st)
		extractHTML(line, lineNo, false, &st)
		st.WordCount += len(strings.Fields(line))
	}

	return st
}

// ReadingMinutes estimates reading time at 230 words per minute, rounded up.
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + 229) / 230
}

// StripFences returns the body with fenced code blocks removed, fence
// delimiters included. Language detection runs on the prose that remains.
func StripFences(body string) string {
	lines := strings.Split(normalizeLineEndings(body), "\n")
	kept := make([]string, 0, len(lines))
	inFence := false
	var fenceMarker byte

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if marker, ok := fenceDelimiter(trimmed); ok {
			if !inFence {
				inFence = true
				fenceMarker = marker
				continue
			}
			if marker == fenceMarker && isPureFenceLine(trimmed, marker) {
				inFence = false
				continue
			}
		}

		if !inFence {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func fenceDelimiter(trimmed string) (byte, bool) {
	if strings.HasPrefix(trimmed, "```") {
		return '`', true
	}
	if strings.HasPrefix(trimmed, "~~~") {
		return '~', true
	}
	return 0, false
}

// isPureFenceLine reports whether the line is only fence characters, which
// is what a closing fence looks like (an opener may carry an info string).
func isPureFenceLine(trimmed string, marker byte) bool {
	return strings.Trim(trimmed, string(marker)) == ""
}

// trimClosingHashes drops an optional closing hash sequence ("## Title ##").
func trimClosingHashes(text string) string {
	text = strings.TrimSpace(text)
	stripped := strings.TrimRight(text, "#")
	if stripped == text {
		return text
	}
	if stripped == "" || strings.HasSuffix(stripped, " ") {
		return strings.TrimRight(stripped, " ")
	}
	return text
}

// extractInline pulls Markdown image and link syntax out of one line.
// Images go first so their bracket pairs can be excluded from link matches.
func extractInline(line string, lineNo int, inCode bool, st *Structure) {
	for _, m := range imageRe.FindAllStringSubmatch(line, -1) {
		target := cleanTarget(m[2])
		if target == "" {
			continue
		}
		st.Images = append(st.Images, types.ImageRef{
			Alt:      strings.TrimSpace(m[1]),
			Target:   target,
			Line:     lineNo,
			External: isExternal(target),
			InCode:   inCode,
		})
	}

	for _, idx := range linkRe.FindAllStringSubmatchIndex(line, -1) {
		// skip image syntax, already handled above
		if idx[0] > 0 && line[idx[0]-1] == '!' {
			continue
		}
		text := line[idx[2]:idx[3]]
		target := cleanTarget(line[idx[4]:idx[5]])
		if target == "" {
			continue
		}
		st.Links = append(st.Links, types.Link{
			Text:     strings.TrimSpace(text),
			Target:   target,
			Line:     lineNo,
			External: isExternal(target),
			InCode:   inCode,
		})
	}
}

// extractHTML tokenizes a line of raw inline HTML and records img and a
// elements. The articles embed plain single-line tags, so a per-line
// tokenizer pass is enough.
func extractHTML(line string, lineNo int, inCode bool, st *Structure) {
	if !strings.Contains(line, "<") {
		return
	}

	z := html.NewTokenizer(strings.NewReader(line))
	var pending *types.Link

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "img":
				var src, alt string
				for _, attr := range tok.Attr {
					switch attr.Key {
					case "src":
						src = attr.Val
					case "alt":
						alt = attr.Val
					}
				}
				if src != "" {
					st.Images = append(st.Images, types.ImageRef{
						Alt:      alt,
						Target:   src,
						Line:     lineNo,
						External: isExternal(src),
						InCode:   inCode,
					})
				}
			case "a":
				for _, attr := range tok.Attr {
					if attr.Key == "href" && attr.Val != "" {
						pending = &types.Link{
							Target:   attr.Val,
							Line:     lineNo,
							External: isExternal(attr.Val),
							InCode:   inCode,
						}
					}
				}
			}
		case html.TextToken:
			if pending != nil {
				pending.Text += string(z.Text())
			}
		case html.EndTagToken:
			if z.Token().Data == "a" && pending != nil {
				pending.Text = strings.TrimSpace(pending.Text)
				st.Links = append(st.Links, *pending)
				pending = nil
			}
		}
	}

	// an anchor opened on this line but not closed still counts
	if pending != nil {
		pending.Text = strings.TrimSpace(pending.Text)
		st.Links = append(st.Links, *pending)
	}
}

// cleanTarget normalizes a raw Markdown destination: angle-bracket wrapping
// is removed and a quoted title suffix is dropped.
func cleanTarget(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "<") {
		if end := strings.Index(t, ">"); end >= 0 {
			return t[1:end]
		}
	}
	if i := strings.IndexAny(t, " \t"); i >= 0 {
		return t[:i]
	}
	return t
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
