package slug

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Cancellable Promises", "cancellable-promises"},
		{"punctuation collapses", "Don't Die, setState!", "don-t-die-setstate"},
		{"accents stripped", "Café Références", "cafe-references"},
		{"numbers kept", "Top 10 CSS-in-JS Pitfalls", "top-10-css-in-js-pitfalls"},
		{"leading and trailing junk", "  --Hello World--  ", "hello-world"},
		{"already a slug", "cancellable-promises", "cancellable-promises"},
		{"empty", "", "untitled"},
		{"only punctuation", "!!!", "untitled"},
		{"unicode beyond latin", "日本語タイトル", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Cancellable Promises",
		"Why I Don't Like Redux Toolkit",
		"émigré's notebook",
		"",
	}
	for _, input := range inputs {
		once := Make(input)
		assert.Equal(t, once, Make(once), "Make should be stable for %q", input)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Cancellable Promises", Title("cancellable-promises"))
	assert.Equal(t, "Untitled", Title("untitled"))
	assert.Equal(t, "", Title(""))
}

func TestSplitDatePrefix(t *testing.T) {
	t.Run("dated base", func(t *testing.T) {
		date, rest, ok := SplitDatePrefix("2019-06-06-cancellable-promises")
		require.True(t, ok)
		assert.Equal(t, "cancellable-promises", rest)
		assert.Equal(t, 2019, date.Year())
		assert.Equal(t, time.June, date.Month())
		assert.Equal(t, 6, date.Day())
	})

	t.Run("no prefix", func(t *testing.T) {
		_, _, ok := SplitDatePrefix("cancellable-promises")
		assert.False(t, ok)
	})

	t.Run("bare date is not a match", func(t *testing.T) {
		_, _, ok := SplitDatePrefix("2019-06-06")
		assert.False(t, ok)
	})

	t.Run("invalid calendar date", func(t *testing.T) {
		_, _, ok := SplitDatePrefix("2019-02-30-impossible")
		assert.False(t, ok)
	})

	t.Run("not a date at all", func(t *testing.T) {
		_, _, ok := SplitDatePrefix("aaaa-bb-cc-title")
		assert.False(t, ok)
	})
}

func TestComposeFilename(t *testing.T) {
	date := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2021-03-14-hooks-deep-dive", ComposeFilename(date, "hooks-deep-dive"))
	assert.Equal(t, "hooks-deep-dive", ComposeFilename(time.Time{}, "hooks-deep-dive"))
}

func TestComposeSplitRoundTrip(t *testing.T) {
	date := time.Date(2020, 11, 2, 0, 0, 0, 0, time.UTC)
	base := ComposeFilename(date, "redux-toolkit-critique")

	got, rest, ok := SplitDatePrefix(base)
	require.True(t, ok)
	assert.True(t, got.Equal(date))
	assert.Equal(t, "redux-toolkit-critique", rest)
}
