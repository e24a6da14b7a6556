package term

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/fasttext/layout"
)

func plainRenderer() *Renderer {
	p := termenv.Ascii
	return NewRenderer(Options{Profile: &p})
}

func TestMeasureCells(t *testing.T) {
	m := Metrics{}
	assert.Equal(t, 5.0, m.Measure([]rune("hello")))
	assert.Equal(t, 4.0, m.Measure([]rune("中文")))
	assert.Equal(t, 3.0, m.Measure([]rune("abc\n")))
	assert.Equal(t, 1.0, m.Extents().Ascent)
}

func TestMeasureGraphemeClusters(t *testing.T) {
	m := Metrics{}
	assert.Equal(t, 2.0, m.Measure([]rune("👍🏽")))
	assert.Equal(t, 2.0, m.Measure([]rune("👨\u200d👩\u200d👧")))
	assert.Equal(t, 6.0, m.Measure([]rune("a👍🏽b\n中")))

	// 宽 4 格恰好容纳两个带肤色修饰的表情，不会被拆开换行。
	text := layout.Plain("👍🏽👍🏽👍🏽")
	res, err := layout.Build(layout.Request{Text: text, Metrics: m, MaxWidth: 4, MaxLines: layout.Unlimited})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, 4, res.Lines[0].End)
	assert.Equal(t, 4.0, res.Lines[0].Width)
}

func TestRenderEllipsis(t *testing.T) {
	text := layout.Plain("Hello world, this is a long sentence")
	res, err := layout.Build(layout.Request{
		Text: text, Metrics: Metrics{}, MaxWidth: 12, MaxLines: 1, Ellipsis: layout.EllipsisEnd,
	})
	require.NoError(t, err)

	out, err := plainRenderer().Render(res, text)
	require.NoError(t, err)
	assert.Equal(t, "Hello world…", string(out))
}

func TestRenderLinesAndAlignment(t *testing.T) {
	text := layout.Plain("aaaa bb\ncc")
	res, err := layout.Build(layout.Request{
		Text: text, Metrics: Metrics{}, MaxWidth: 4, MaxLines: layout.Unlimited, Align: layout.AlignEnd,
	})
	require.NoError(t, err)

	out, err := plainRenderer().Render(res, text)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "  bb", "  cc"}, strings.Split(string(out), "\n"))
}

func TestRenderStyledRunsKeepText(t *testing.T) {
	text := layout.Plain("click here now").
		Attach(6, 10, layout.Style{Bold: true, Action: "go"}).
		Attach(11, 14, layout.Style{Color: "#ff0000"})
	res, err := layout.Build(layout.Request{Text: text, Metrics: Metrics{}, MaxLines: 1})
	require.NoError(t, err)

	out, err := plainRenderer().Render(res, text)
	require.NoError(t, err)
	assert.Equal(t, "click here now", string(out))

	p := termenv.TrueColor
	colored, err := NewRenderer(Options{Profile: &p}).Render(res, text)
	require.NoError(t, err)
	assert.Contains(t, string(colored), "\x1b[")
}

func TestRenderCustomMarker(t *testing.T) {
	text := layout.Plain("abcdefghijklmnop")
	res, err := layout.Build(layout.Request{
		Text: text, Metrics: Metrics{}, MaxWidth: 10, MaxLines: 1, Ellipsis: layout.EllipsisStart,
		Replacement: &layout.Replacement{Text: "<<", Action: "expand"},
	})
	require.NoError(t, err)
	out, err := plainRenderer().Render(res, text)
	require.NoError(t, err)
	assert.Equal(t, "<<ijklmnop", string(out))
}

func TestRenderNil(t *testing.T) {
	_, err := plainRenderer().Render(nil, layout.Text{})
	assert.Error(t, err)
}
