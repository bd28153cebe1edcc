// Package markdown extracts front matter and document structure from
// article files. It is deliberately line-oriented: the collection uses a
// small, regular subset of Markdown and the toolkit needs positions, not a
// render tree.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Front matter formats reported by SplitFrontMatter.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatNone = "none"
)

// ErrUnclosedFrontMatter reports a front matter block whose opening
// delimiter is never closed.
var ErrUnclosedFrontMatter = errors.New("front matter delimiter never closed")

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

// SplitFrontMatter separates front matter from the Markdown body. YAML is
// delimited by ---, TOML by +++. Content without front matter comes back
// unchanged with format "none". CRLF line endings are normalized first.
func SplitFrontMatter(content []byte) (meta Meta, body string, format string, err error) {
	text := normalizeLineEndings(string(content))

	switch {
	case hasDelimiterLine(text, yamlDelimiter):
		raw, rest, found := cutFencedBlock(text, yamlDelimiter)
		if !found {
			return nil, "", FormatYAML, ErrUnclosedFrontMatter
		}
		meta = Meta{}
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, "", FormatYAML, fmt.Errorf("parse yaml front matter: %w", err)
		}
		return meta, rest, FormatYAML, nil

	case hasDelimiterLine(text, tomlDelimiter):
		raw, rest, found := cutFencedBlock(text, tomlDelimiter)
		if !found {
			return nil, "", FormatTOML, ErrUnclosedFrontMatter
		}
		meta = Meta{}
		if err := toml.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, "", FormatTOML, fmt.Errorf("parse toml front matter: %w", err)
		}
		return meta, rest, FormatTOML, nil
	}

	return nil, text, FormatNone, nil
}

// hasDelimiterLine reports whether the document opens with the delimiter on
// its own line.
func hasDelimiterLine(text, delim string) bool {
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimRight(first, " \t") == delim
}

// cutFencedBlock returns the raw block between the opening delimiter line
// and the next delimiter line, plus everything after it.
func cutFencedBlock(text, delim string) (raw, rest string, found bool) {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == delim {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", "", false
}

// ComposeFrontMatter renders front matter and body back into file content,
// the inverse of SplitFrontMatter. The body is written as-is after one
// blank line.
func ComposeFrontMatter(meta Meta, body string, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatYAML:
		buf.WriteString(yamlDelimiter + "\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]interface{}(meta)); err != nil {
			return nil, fmt.Errorf("encode yaml front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml front matter: %w", err)
		}
		buf.WriteString(yamlDelimiter + "\n")

	case FormatTOML:
		buf.WriteString(tomlDelimiter + "\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(map[string]interface{}(meta)); err != nil {
			return nil, fmt.Errorf("encode toml front matter: %w", err)
		}
		buf.WriteString(tomlDelimiter + "\n")

	case FormatNone:
		return []byte(body), nil

	default:
		return nil, fmt.Errorf("unsupported front matter format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}
