package markdown

import (
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaStringFields(t *testing.T) {
	meta := Meta{
		"title":       "  Padded Title  ",
		"slug":        "custom-slug",
		"description": "What the article covers.",
	}

	assert.Equal(t, "Padded Title", meta.Title())
	assert.Equal(t, "custom-slug", meta.Slug())
	assert.Equal(t, "What the article covers.", meta.Description())

	// summary is an accepted alias for description
	assert.Equal(t, "alias", Meta{"summary": "alias"}.Description())

	// description wins over summary when both are present
	both := Meta{"description": "primary", "summary": "secondary"}
	assert.Equal(t, "primary", both.Description())

	// non-string values read as empty
	assert.Equal(t, "", Meta{"title": 7}.Title())
	assert.Equal(t, "", Meta{}.Title())
}

func TestMetaDraft(t *testing.T) {
	assert.True(t, Meta{"draft": true}.Draft())
	assert.False(t, Meta{"draft": false}.Draft())
	assert.True(t, Meta{"draft": "true"}.Draft())
	assert.False(t, Meta{"draft": "no"}.Draft())
	assert.False(t, Meta{"draft": "not-a-bool"}.Draft())
	assert.False(t, Meta{}.Draft())
}

func TestMetaDate(t *testing.T) {
	t.Run("time value", func(t *testing.T) {
		want := time.Date(2019, 6, 6, 0, 0, 0, 0, time.UTC)
		got, ok := Meta{"date": want}.Date()
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("toml local date", func(t *testing.T) {
		got, ok := Meta{"date": toml.LocalDate{Year: 2021, Month: 3, Day: 14}}.Date()
		require.True(t, ok)
		assert.Equal(t, "2021-03-14", got.Format("2006-01-02"))
	})

	t.Run("toml local datetime", func(t *testing.T) {
		ldt := toml.LocalDateTime{
			LocalDate: toml.LocalDate{Year: 2021, Month: 3, Day: 14},
			LocalTime: toml.LocalTime{Hour: 9, Minute: 30},
		}
		got, ok := Meta{"date": ldt}.Date()
		require.True(t, ok)
		assert.Equal(t, "2021-03-14 09:30", got.Format("2006-01-02 15:04"))
	})

	t.Run("string forms", func(t *testing.T) {
		for _, value := range []string{"2019-06-06", "2019-06-06T08:00:00Z", "2019-06-06 08:00:00"} {
			got, ok := Meta{"date": value}.Date()
			require.True(t, ok, "value %q", value)
			assert.Equal(t, 2019, got.Year())
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		_, ok := Meta{"date": "June 6th, 2019"}.Date()
		assert.False(t, ok)

		_, ok = Meta{"date": 20190606}.Date()
		assert.False(t, ok)

		_, ok = Meta{}.Date()
		assert.False(t, ok)
	})
}

func TestMetaTags(t *testing.T) {
	assert.Equal(t, []string{"react", "async"},
		Meta{"tags": []interface{}{"react", "async"}}.Tags())
	assert.Equal(t, []string{"react"}, Meta{"tags": "react"}.Tags())
	assert.Equal(t, []string{"a", "b"}, Meta{"tags": []string{"a", " b "}}.Tags())
	assert.Nil(t, Meta{"tags": []interface{}{1, 2}}.Tags())
	assert.Nil(t, Meta{"tags": ""}.Tags())
	assert.Nil(t, Meta{}.Tags())
}
