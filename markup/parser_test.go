package markup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/markup"
)

func TestParseNestedTags(t *testing.T) {
	text, err := markup.Parse("Hello [b]bold [i]both[/i][/b] and [link=open:42]more[/link]")
	require.NoError(t, err)

	assert.Equal(t, "Hello bold both and more", text.String())
	require.Len(t, text.Spans, 3)

	// 内层标签先闭合，先附加。
	assert.Equal(t, layout.Span{Start: 11, End: 15, Style: layout.Style{Italic: true}}, text.Spans[0])
	assert.Equal(t, layout.Span{Start: 6, End: 15, Style: layout.Style{Bold: true}}, text.Spans[1])
	assert.Equal(t, layout.Span{Start: 20, End: 24, Style: layout.Style{Action: "open:42"}}, text.Spans[2])

	st := text.StyleAt(12)
	assert.True(t, st.Bold)
	assert.True(t, st.Italic)
	assert.True(t, text.StyleAt(21).Clickable())
}

func TestParseColorAndUnderline(t *testing.T) {
	text, err := markup.Parse("[color=#ff0000][u]red[/u][/color]")
	require.NoError(t, err)
	assert.Equal(t, "red", text.String())
	st := text.StyleAt(0)
	assert.Equal(t, "#ff0000", st.Color)
	assert.True(t, st.Underline)
}

func TestParseLiteralBrackets(t *testing.T) {
	cases := map[string]string{
		`a \[b\] c`:        "a [b] c",
		`path\\to`:         `path\to`,
		`[ not a tag`:      "[ not a tag",
		`x[1] = y`:         "x[1] = y", // [1] 不是合法标签名，按文本处理
		`trailing \`:       `trailing \`,
		"]just a bracket[": "]just a bracket[",
	}
	for in, want := range cases {
		text, err := markup.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, text.String(), in)
		assert.False(t, text.Rich(), in)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	raw := `[b]not bold[/b] \ done`
	text, err := markup.Parse(markup.Escape(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, text.String())
	assert.Empty(t, text.Spans)
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"[b]unclosed",
		"stray [/b] close",
		"[b][i]crossed[/b][/i]",
		"[blink]unknown[/blink]",
		"[color=]empty[/color]",
		"[b=1]bad[/b]",
	}
	for _, in := range cases {
		_, err := markup.Parse(in)
		require.Error(t, err, in)
		var merr *markup.Error
		require.True(t, errors.As(err, &merr), in)
		assert.Positive(t, merr.Pos.Column, in)
	}
}

func TestEmptyTagsAddNoSpan(t *testing.T) {
	text, err := markup.Parse("a[b][/b]b")
	require.NoError(t, err)
	assert.Equal(t, "ab", text.String())
	assert.Empty(t, text.Spans)
}

func TestMultilinePositions(t *testing.T) {
	_, err := markup.Parse("line one\nline [x]two")
	var merr *markup.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 2, merr.Pos.Line)
}
