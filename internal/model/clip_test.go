package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClip_Total(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   int
		wantOK bool
	}{
		{name: "json number", raw: `{"total":1234}`, want: 1234, wantOK: true},
		{name: "fractional number rounds up", raw: `{"total":7.2}`, want: 8, wantOK: true},
		{name: "true counts as one", raw: `{"total":true}`, want: 1, wantOK: true},
		{name: "absent", raw: `{"id":"1"}`, want: 0, wantOK: true},
		{name: "numeric string", raw: `{"total":"100"}`, want: 0, wantOK: false},
		{name: "garbage string", raw: `{"total":"lots"}`, want: 0, wantOK: false},
		{name: "null", raw: `{"total":null}`, want: 0, wantOK: false},
		{name: "array", raw: `{"total":[3]}`, want: 0, wantOK: false},
		{name: "not an object", raw: `[1]`, want: 0, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseClip([]byte(tt.raw)).Total()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestClip_TextAccessors(t *testing.T) {
	t.Parallel()

	c := NewClip(map[string]any{
		"id":       json.Number("981"),
		"code":     "dQw4w9WgXcQ",
		"title":    "Never Gonna Give You Up",
		"thumb":    "images/banaan.gif",
		"duration": "3:33",
		"category": "80s",
	})

	assert.True(t, c.IsObject())
	assert.Equal(t, "981", c.ID())
	assert.Equal(t, "dQw4w9WgXcQ", c.Code())
	assert.Equal(t, "Never Gonna Give You Up", c.Title())
	assert.Equal(t, "images/banaan.gif", c.Thumb())
	assert.Equal(t, "3:33", c.Duration())
	assert.Equal(t, "80s", c.Category())
}

func TestClip_TextMissingAndOdd(t *testing.T) {
	t.Parallel()

	c := NewClip(map[string]any{"id": float64(12), "title": true})
	assert.Equal(t, "12", c.ID())
	assert.Equal(t, "true", c.Title())
	assert.Empty(t, c.Code())
	assert.Empty(t, c.Category())
}

func TestParseClip_KeepsServerBytes(t *testing.T) {
	t.Parallel()

	c := ParseClip([]byte(`{ "zeta": 1.50, "alpha": "<b>&", "views": 12345678901234 }`))
	require.True(t, c.IsObject())
	assert.Equal(t, json.Number("12345678901234"), c.Get("views"))

	out, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1.50,"alpha":"<b>&","views":12345678901234}`, string(out))
}

func TestParseClip_NonObjectValues(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`null`, `42`, `"text"`, `[1,2]`} {
		c := ParseClip([]byte(raw))
		assert.False(t, c.IsObject(), raw)
		assert.Nil(t, c.Get("id"), raw)
		assert.Empty(t, c.ID(), raw)

		out, err := c.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	}
}

func TestClip_UnmarshalSlice(t *testing.T) {
	t.Parallel()

	var clips []Clip
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"1"},null,{"id":"2"}]`), &clips))
	require.Len(t, clips, 3)
	assert.Equal(t, "1", clips[0].ID())
	assert.False(t, clips[1].IsObject())
	assert.Equal(t, "2", clips[2].ID())

	out, err := json.Marshal(clips)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"},null,{"id":"2"}]`, string(out))
}

func TestNewClip_MatchesParsed(t *testing.T) {
	t.Parallel()

	built := NewClip(map[string]any{"id": json.Number("7"), "title": "A & B"})
	parsed := ParseClip([]byte(`{"id":7,"title":"A & B"}`))
	assert.Equal(t, parsed, built)

	var zero Clip
	out, err := zero.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
