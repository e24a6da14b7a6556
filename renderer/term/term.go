// Package term measures text in terminal cells and renders layouts as ANSI text.
package term

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/renderer"
)

// Metrics 以终端单元格为单位测量文本：每行高 1，宽度取 East Asian Width。
type Metrics struct {
	// EastAsian 为 true 时歧义宽度字符按 2 格计算。
	EastAsian bool
}

var _ layout.Metrics = Metrics{}

// Extents implements layout.Metrics.
func (Metrics) Extents() layout.Extents { return layout.Extents{Ascent: 1} }

// Measure implements layout.Metrics. 换行与控制字符不占宽度，字素簇按整体宽度计算。
func (m Metrics) Measure(text []rune) float64 {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = m.EastAsian
	var sb strings.Builder
	for _, r := range text {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return float64(cond.StringWidth(sb.String()))
}

// Renderer renders results as styled terminal text.
type Renderer struct {
	lg     *lipgloss.Renderer
	accent lipgloss.Color
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the terminal renderer.
type Options struct {
	// Profile 强制使用的颜色能力；为 nil 时根据 Output 自动检测。
	Profile *termenv.Profile
	Output  io.Writer
	// Accent 是可点击文本与省略标记的颜色。
	Accent string
}

// NewRenderer creates a terminal renderer.
func NewRenderer(opts Options) *Renderer {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	lg := lipgloss.NewRenderer(out)
	if opts.Profile != nil {
		lg.SetColorProfile(*opts.Profile)
	}
	accent := opts.Accent
	if accent == "" {
		accent = "#0F62FE"
	}
	return &Renderer{lg: lg, accent: lipgloss.Color(accent)}
}

// Render 每个排版行输出一行终端文本，行首按对齐偏移补空格。
func (r *Renderer) Render(res *layout.Result, text layout.Text) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var buf bytes.Buffer
	for i, ln := range res.Lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(" ", int(math.Round(ln.Left))))
		end := ln.End
		for end > ln.Start && unicode.IsSpace(text.Runes[end-1]) {
			end--
		}
		e := res.Elision
		if e == nil || e.Line != i {
			r.writeRuns(&buf, text, ln.Start, end)
			continue
		}
		r.writeRuns(&buf, text, ln.Start, e.Start)
		if e.Marker.Text != "" {
			buf.WriteString(r.lg.NewStyle().Foreground(r.accent).Faint(e.Marker.Action == "").Render(e.Marker.Text))
		} else {
			buf.WriteString(strings.Repeat(" ", int(e.Marker.Width)))
		}
		if e.End < end {
			r.writeRuns(&buf, text, e.End, end)
		}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeRuns(buf *bytes.Buffer, text layout.Text, start, end int) {
	for _, run := range text.Runs(start, end) {
		s := text.Slice(run.Start, run.End)
		if run.Style == (layout.Style{}) {
			buf.WriteString(s)
			continue
		}
		buf.WriteString(r.style(run.Style).Render(s))
	}
}

func (r *Renderer) style(st layout.Style) lipgloss.Style {
	s := r.lg.NewStyle().
		Bold(st.Bold).
		Italic(st.Italic).
		Underline(st.Underline || st.Clickable())
	switch {
	case st.Color != "":
		s = s.Foreground(lipgloss.Color(st.Color))
	case st.Clickable():
		s = s.Foreground(r.accent)
	}
	return s
}
