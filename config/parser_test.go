package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/fasttext/layout"
)

type cellMetrics struct{}

func (cellMetrics) Extents() layout.Extents     { return layout.Extents{Ascent: 1} }
func (cellMetrics) Measure(text []rune) float64 { return float64(len(text)) }

const sampleAttrs = `
text: "Hello ${user.name}, [b]welcome[/b] back"
markup: true
data: '{"user": {"name": "[Ada]"}}'
font:
  src: embed:go
  style: bold
  size: 12pt
  color: "#333333"
maxWidth: 60mm
maxLines: 2
align: center
ellipsize: end
lineSpacing:
  add: 1mm
  multiplier: 1.2
includePad: true
marker:
  text: more
  action: expand
`

func TestParseAttrs(t *testing.T) {
	attrs, err := Parse("view.yaml", []byte(sampleAttrs))
	require.NoError(t, err)

	assert.Equal(t, layout.Length{Value: 60, Unit: layout.UnitMM}, attrs.MaxWidth.Length)
	assert.Equal(t, layout.Length{Value: 12, Unit: layout.UnitPT}, attrs.Font.Size.Length)
	require.NotNil(t, attrs.MaxLines)
	assert.Equal(t, 2, *attrs.MaxLines)

	req, err := attrs.Request(cellMetrics{})
	require.NoError(t, err)
	assert.Equal(t, "Hello [Ada], welcome back", req.Text.String())
	require.Len(t, req.Text.Spans, 1)
	assert.True(t, req.Text.Spans[0].Style.Bold)
	assert.Equal(t, 60.0, req.MaxWidth)
	assert.Equal(t, 2, req.MaxLines)
	assert.Equal(t, layout.AlignCenter, req.Align)
	assert.Equal(t, layout.EllipsisEnd, req.Ellipsis)
	assert.Equal(t, 1.0, req.SpacingAdd)
	assert.Equal(t, 1.2, req.SpacingMult)
	assert.True(t, req.IncludePad)
	require.NotNil(t, req.Replacement)
	assert.Equal(t, "expand", req.Replacement.Action)

	res, err := layout.Build(req)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.LineCount(), 2)
}

func TestDefaults(t *testing.T) {
	attrs, err := Parse("view.yaml", []byte(`text: "plain ${x}"`))
	require.NoError(t, err)
	req, err := attrs.Request(cellMetrics{})
	require.NoError(t, err)
	assert.Equal(t, "plain ${x}", req.Text.String())
	assert.Equal(t, layout.Unlimited, req.MaxLines)
	assert.Equal(t, 0.0, req.MaxWidth)
	assert.Nil(t, req.Replacement)
	assert.True(t, req.IncludePad)

	attrs, err = Parse("view.yaml", []byte("text: a\nincludePad: false\n"))
	require.NoError(t, err)
	req, err = attrs.Request(cellMetrics{})
	require.NoError(t, err)
	assert.False(t, req.IncludePad)
}

func TestValidationErrors(t *testing.T) {
	cases := map[string]string{
		"text: a\nmaxLines: 0":                   "maxLines",
		"text: a\nmaxWidth: -3mm":                "maxWidth",
		"text: a\nellipsize: marquee":            "ellipsize",
		"text: a\nalign: justify":                "align",
		"text: a\ndata: '{broken'":               "data",
		"text: a\nfont: {color: red}":            "font.color",
		"text: a\nfont: {size: -1pt}":            "font.size",
		"maxLines: 1":                            "text",
		"text: a\nmarker: {width: 0}":            "marker",
		"text: a\nlineSpacing: {multiplier: -1}": "lineSpacing.multiplier",
		"text: a\nfonts: {body: \"\"}":           "fonts[body]",
		"text: a\nfont: {src: 'embed:comic'}":    "font.src",
		"text: a\nfont: {src: 'built-in:brand'}": "font.src",
	}
	for input, field := range cases {
		_, err := Parse("view.yaml", []byte(input))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "%s: expected validation error, got %v", input, err)
		assert.Equal(t, field, verr.Field, input)
	}
}

func TestParseErrorsCarryLine(t *testing.T) {
	_, err := Parse("view.yaml", []byte("text: a\nmaxWidth: [1, 2]\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "view.yaml", perr.Path)

	_, err = Parse("view.yaml", []byte("text: a\nmaxWidth: wide\n"))
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 2, perr.Line)
}

func TestLoadResolvesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "body.txt"), []byte("Dear ${name}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"name": "Grace"}`), 0o644))
	cfg := "textFile: body.txt\ndataFile: data.json\nfont: {src: fonts/custom.ttf}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.yaml"), []byte(cfg), 0o644))

	attrs, err := Load(filepath.Join(dir, "view.yaml"))
	require.NoError(t, err)
	text, err := attrs.Content()
	require.NoError(t, err)
	assert.Equal(t, "Dear Grace", text.String())
	assert.Equal(t, filepath.Join(dir, "fonts/custom.ttf"), attrs.FontSource())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestDeclaredFontsResolveAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	cfg := "text: a\nfont: {src: 'built-in:brand'}\nfonts:\n  brand: fonts/brand.ttf\n  abs: /opt/fonts/abs.ttf\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.yaml"), []byte(cfg), 0o644))

	attrs, err := Load(filepath.Join(dir, "view.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "built-in:brand", attrs.FontSource())
	assert.Equal(t, map[string]string{
		"brand": filepath.Join(dir, "fonts/brand.ttf"),
		"abs":   "/opt/fonts/abs.ttf",
	}, attrs.FontResources())

	plain, err := Parse("view.yaml", []byte("text: a"))
	require.NoError(t, err)
	assert.Nil(t, plain.FontResources())
}
