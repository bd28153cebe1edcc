package markdown

import (
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Meta is raw front matter as decoded from YAML or TOML. The typed readers
// below absorb the representational differences between the two decoders.
type Meta map[string]interface{}

// Title returns the front matter title, if present.
func (m Meta) Title() string {
	return m.str("title")
}

// Slug returns an explicit front matter slug override, if present.
func (m Meta) Slug() string {
	return m.str("slug")
}

// Description returns the front matter description or summary.
func (m Meta) Description() string {
	if s := m.str("description"); s != "" {
		return s
	}
	return m.str("summary")
}

// Draft reports whether the document is marked as a draft.
func (m Meta) Draft() bool {
	switch v := m["draft"].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}

// Date returns the front matter date. YAML timestamps and TOML date types
// decode to different Go types; plain strings in RFC 3339 or date-only form
// are accepted too.
func (m Meta) Date() (time.Time, bool) {
	raw, ok := m["date"]
	if !ok {
		return time.Time{}, false
	}

	switch v := raw.(type) {
	case time.Time:
		return v, true
	case toml.LocalDate:
		return v.AsTime(time.UTC), true
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// Tags returns the tag list. A single string value counts as one tag.
func (m Meta) Tags() []string {
	raw, ok := m["tags"]
	if !ok {
		return nil
	}

	var tags []string
	appendTag := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}

	switch v := raw.(type) {
	case string:
		appendTag(v)
	case []string:
		for _, s := range v {
			appendTag(s)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				appendTag(s)
			}
		}
	}

	return tags
}

func (m Meta) str(key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
