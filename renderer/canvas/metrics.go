package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/fasttext/layout"
)

// Metrics 以 canvas 字体面实现 layout.Metrics 与 layout.StyledMeasurer，单位为 mm。
// 创建后只读，可被多个 goroutine 共享。
type Metrics struct {
	entry *fontFamilyEntry
	size  float64 // pt
	base  canvas.FontStyle
	color color.Color
	ext   layout.Extents
	faces map[canvas.FontStyle]*canvas.FontFace
}

var (
	_ layout.Metrics        = (*Metrics)(nil)
	_ layout.StyledMeasurer = (*Metrics)(nil)
)

// Metrics returns (and caches) the measurer for a font.
func (r *Renderer) Metrics(font FontSpec) (*Metrics, error) {
	if font.Size <= 0 {
		font.Size = DefaultFont.Size
	}
	if font.Src == "" {
		font.Src = DefaultFont.Src
	}
	r.fontMu.Lock()
	m, ok := r.metrics[font]
	r.fontMu.Unlock()
	if ok {
		return m, nil
	}

	entry, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	base := parseFontStyle(font.Style)
	if !entry.styles[base] {
		base = canvas.FontRegular
	}
	m = &Metrics{
		entry: entry,
		size:  toPt(font.Size),
		base:  base,
		color: parseColor(font.Color, canvas.Black),
		faces: map[canvas.FontStyle]*canvas.FontFace{},
	}
	for style := range entry.styles {
		m.faces[style] = entry.family.Face(m.size, m.color, style, canvas.FontNormal)
	}
	fm := m.face(layout.Style{}, m.color).Metrics()
	m.ext = layout.Extents{
		Ascent:  fm.Ascent,
		Descent: fm.Descent,
		Leading: math.Max(fm.LineHeight-fm.Ascent-fm.Descent, 0),
	}

	r.fontMu.Lock()
	r.metrics[font] = m
	r.fontMu.Unlock()
	return m, nil
}

// Extents implements layout.Metrics.
func (m *Metrics) Extents() layout.Extents { return m.ext }

// Measure implements layout.Metrics using the base face.
func (m *Metrics) Measure(text []rune) float64 {
	if len(text) == 0 {
		return 0
	}
	return m.face(layout.Style{}, nil).TextWidth(string(text))
}

// MeasureStyled 按样式段分别选择粗体/斜体字体面测量后求和。
func (m *Metrics) MeasureStyled(text layout.Text, start, end int) float64 {
	w := 0.0
	for _, run := range text.Runs(start, end) {
		w += m.face(run.Style, nil).TextWidth(text.Slice(run.Start, run.End))
	}
	return w
}

// face 返回样式对应的字体面；家族中没有该字重时退回基础字重。col 为 nil 时复用缓存。
func (m *Metrics) face(style layout.Style, col color.Color) *canvas.FontFace {
	fs := m.base
	if style.Bold {
		fs |= canvas.FontBold
	}
	if style.Italic {
		fs |= canvas.FontItalic
	}
	if !m.entry.styles[fs] {
		fs = m.base
	}
	if col == nil {
		return m.faces[fs]
	}
	return m.entry.family.Face(m.size, col, fs, canvas.FontNormal)
}
