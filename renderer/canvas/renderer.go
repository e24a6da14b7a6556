package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/fasttext/fonts"
	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/renderer"
)

const underlineWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas and measures text with
// the same font faces, so what is laid out is exactly what is drawn.
type Renderer struct {
	baseDir string
	font    FontSpec
	padding float64
	title   string

	// injected resources
	fontBlobs map[string][]byte // by unique name
	fontErrs  map[string]error  // 读取失败的资源，在使用时报告

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	metrics      map[FontSpec]*Metrics
}

var _ renderer.Renderer = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	styles map[canvas.FontStyle]bool // 已加载的字重/斜体
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
	// Font 是 Render 使用的字体；为空时使用内置 Go 字体 12pt。
	Font FontSpec
	// Padding 是页面四周的留白（mm）。
	Padding float64
	Title   string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// FontSpec 描述一个字体面。Size 单位为 mm。
type FontSpec struct {
	Src   string // embed:<name> | built-in:<name> | 文件路径
	Style string // regular / bold / italic ...
	Size  float64
	Color string // #rrggbb
}

// DefaultFont 是内置 Go 字体 12pt。
var DefaultFont = FontSpec{Src: "embed:" + fonts.Go, Size: 12 * layout.PtToMm}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		font:         opts.Font,
		padding:      opts.Padding,
		title:        opts.Title,
		fontBlobs:    map[string][]byte{},
		fontErrs:     map[string]error{},
		fontFamilies: map[string]*fontFamilyEntry{},
		metrics:      map[FontSpec]*Metrics{},
	}
	if r.font.Src == "" {
		r.font.Src = DefaultFont.Src
	}
	if r.font.Size <= 0 {
		r.font.Size = DefaultFont.Size
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				r.fontErrs[name] = err
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Font returns the face Render draws with.
func (r *Renderer) Font() FontSpec { return r.font }

// Render renders the result into a single-page PDF sized to the layout plus padding.
func (r *Renderer) Render(res *layout.Result, text layout.Text) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	m, err := r.Metrics(r.font)
	if err != nil {
		return nil, err
	}
	width := res.Width + 2*r.padding
	height := res.Height + 2*r.padding
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.title, "", "", "", "fasttext")

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	for i, ln := range res.Lines {
		r.drawLine(ctx, m, res, text, i, ln)
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLine 绘制一行：可见的样式段，以及（如果有）省略标记。
func (r *Renderer) drawLine(ctx *canvas.Context, m *Metrics, res *layout.Result, text layout.Text, i int, ln layout.Line) {
	x0 := r.padding + ln.Left
	baseline := r.padding + ln.Baseline
	end := visibleEnd(text, ln.Start, ln.End)

	e := res.Elision
	if e == nil || e.Line != i {
		r.drawRuns(ctx, m, text, ln.Start, end, x0, baseline)
		return
	}
	r.drawRuns(ctx, m, text, ln.Start, e.Start, x0, baseline)
	if e.Marker.Text != "" {
		face := m.face(layout.Style{Action: e.Marker.Action}, m.color)
		ctx.DrawText(x0+e.Marker.X, baseline, canvas.NewTextLine(face, e.Marker.Text, canvas.Left))
	}
	if e.End < end {
		r.drawRuns(ctx, m, text, e.End, end, x0+e.Marker.X+e.Marker.Width, baseline)
	}
}

func (r *Renderer) drawRuns(ctx *canvas.Context, m *Metrics, text layout.Text, start, end int, x, baseline float64) {
	for _, run := range text.Runs(start, end) {
		rx := x + m.MeasureStyled(text, start, run.Start)
		col := m.color
		if run.Style.Color != "" {
			col = parseColor(run.Style.Color, m.color)
		}
		face := m.face(run.Style, col)
		ctx.DrawText(rx, baseline, canvas.NewTextLine(face, text.Slice(run.Start, run.End), canvas.Left))
		if run.Style.Underline || run.Style.Clickable() {
			w := m.MeasureStyled(text, run.Start, run.End)
			ctx.SetStrokeColor(col)
			ctx.SetStrokeWidth(underlineWidth)
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(w, 0)
			ctx.DrawPath(rx, baseline+m.ext.Descent/2, p)
		}
	}
}

func (r *Renderer) ensureFontFamily(font FontSpec) (*fontFamilyEntry, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}

	family := canvas.NewFontFamily(key)
	entry := &fontFamilyEntry{family: family, styles: map[canvas.FontStyle]bool{}}
	src := strings.TrimPrefix(font.Src, "embed:")
	if strings.HasPrefix(font.Src, "embed:") && fonts.IsBuiltin(font.Src) && !strings.Contains(src, "-") {
		// 内置家族一次加载全部字重，样式区间可以直接取对应字体。
		for _, style := range []canvas.FontStyle{canvas.FontRegular, canvas.FontBold, canvas.FontItalic, canvas.FontBold | canvas.FontItalic} {
			data, err := fonts.Load(fonts.Variant(src, style&canvas.FontBold != 0, style&canvas.FontItalic != 0))
			if err != nil {
				return nil, err
			}
			if err := family.LoadFont(data, 0, style); err != nil {
				return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
			}
			entry.styles[style] = true
		}
	} else {
		data, err := r.loadFontBytes(font)
		if err != nil {
			return nil, err
		}
		style := parseFontStyle(font.Style)
		if err := family.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
		}
		entry.styles[style] = true
	}
	r.fontFamilies[key] = entry
	return entry, nil
}

func (r *Renderer) loadFontBytes(font FontSpec) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		if err, ok := r.fontErrs[name]; ok {
			return nil, fmt.Errorf("读取字体资源 built-in:%s 失败: %w", name, err)
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font FontSpec) string {
	return fmt.Sprintf("%s|%s", font.Src, font.Style)
}

// parseColor 解析 #rgb / #rrggbb；无法识别时返回 fallback。
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7 && len(s) != 9) {
		return fallback
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return fallback
		}
	}
	return canvas.Hex(s)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

func visibleEnd(text layout.Text, start, end int) int {
	for end > start && unicode.IsSpace(text.Runes[end-1]) {
		end--
	}
	return end
}
