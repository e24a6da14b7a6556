package layout

import (
	"math"
	"unicode"
)

// Build 根据请求完成宽度解析、折行、截断与省略，返回全新的 Result。
// Build 不缓存任何状态，可并发调用，前提是 Metrics 本身不被并发修改。
func Build(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	res := &Result{Constraint: req.MaxWidth, Lines: []Line{}}
	if req.Text.Len() == 0 {
		return res, nil
	}

	b := newBuilder(req)
	width := b.desiredWidth()
	if req.MaxWidth > 0 {
		width = math.Min(req.MaxWidth, width)
	}
	res.Width = width

	lines := b.breakLines(width)
	var el *elision
	if len(lines) > req.MaxLines {
		res.Truncated = true
		lines = lines[:req.MaxLines]
		if req.Ellipsis != EllipsisNone {
			last := &lines[len(lines)-1]
			last.end = b.seg.paragraphEnd(last.start, len(b.runes))
			el = b.elide(*last, width)
			el.line = len(lines) - 1
		}
	}

	res.Lines = b.place(lines, el, width)
	if el != nil {
		res.Elision = &Elision{
			Line:  el.line,
			Start: el.start,
			End:   el.end,
			Marker: Marker{
				At:     el.start,
				X:      el.prefixWidth,
				Width:  b.marker.width,
				Text:   b.marker.text,
				Action: b.marker.action,
			},
		}
	}
	res.Height = b.height
	return res, nil
}

type lineRange struct {
	start int
	end   int
}

type marker struct {
	text   string
	width  float64
	action string
}

type elision struct {
	line        int
	start       int
	end         int
	prefixWidth float64
	width       float64 // 整行可见宽度：前缀 + 标记 + 后缀
}

type builder struct {
	req    Request
	runes  []rune
	seg    segments
	styled StyledMeasurer
	marker marker
	height float64
}

func newBuilder(req Request) *builder {
	b := &builder{
		req:   req,
		runes: req.Text.Runes,
		seg:   segment(req.Text.Runes),
	}
	// 带样式区间的文本走样式感知的测量路径，否则走普通路径。
	if sm, ok := req.Metrics.(StyledMeasurer); ok && req.Text.Rich() {
		b.styled = sm
	}
	b.marker = b.resolveMarker()
	return b
}

func (b *builder) resolveMarker() marker {
	m := marker{text: DefaultMarker}
	rep := b.req.Replacement
	if rep != nil {
		m.action = rep.Action
		if rep.Text != "" || rep.Width > 0 {
			m.text = rep.Text
		}
		if rep.Width > 0 {
			m.width = rep.Width
			return m
		}
	}
	m.width = b.req.Metrics.Measure([]rune(m.text))
	return m
}

func (b *builder) measure(start, end int) float64 {
	if start >= end {
		return 0
	}
	if b.styled != nil {
		return b.styled.MeasureStyled(b.req.Text, start, end)
	}
	return b.req.Metrics.Measure(b.runes[start:end])
}

// lineWidth 测量 [start, end) 的宽度，行尾空白悬挂在外，不计入。
func (b *builder) lineWidth(start, end int) float64 {
	return b.measure(start, trimSpace(b.runes, start, end))
}

// desiredWidth 返回最宽段落的宽度（向上取整），即完全不折行时所需的宽度。
func (b *builder) desiredWidth() float64 {
	widest := 0.0
	start := 0
	for _, brk := range b.seg.breaks {
		if !brk.mandatory && brk.end != len(b.runes) {
			continue
		}
		if w := b.lineWidth(start, brk.end); w > widest {
			widest = w
		}
		start = brk.end
	}
	return math.Ceil(widest)
}

// breakLines 贪心折行：在能放下的最远断行机会处换行；单个片段本身超宽时按字素强制断开。
func (b *builder) breakLines(width float64) []lineRange {
	var lines []lineRange
	n := len(b.runes)
	start, lastFit := 0, -1
	for i := 0; i < len(b.seg.breaks); {
		brk := b.seg.breaks[i]
		if b.lineWidth(start, brk.end) <= width {
			lastFit = brk.end
			i++
			if brk.mandatory {
				lines = append(lines, lineRange{start: start, end: brk.end})
				start, lastFit = brk.end, -1
			}
			continue
		}
		if lastFit > start {
			lines = append(lines, lineRange{start: start, end: lastFit})
			start, lastFit = lastFit, -1
			continue
		}
		end := b.forceBreak(start, brk.end, width)
		lines = append(lines, lineRange{start: start, end: end})
		start = end
		if end == brk.end {
			i++
		}
	}
	// 末尾的换行符之后仍有一行空行。
	if start < n || isHardBreak(b.runes[n-1]) {
		lines = append(lines, lineRange{start: start, end: n})
	}
	return lines
}

// forceBreak 返回 (start, limit] 内能放下的最远字素边界，至少包含一个字素。
func (b *builder) forceBreak(start, limit int, width float64) int {
	end := b.seg.nextCluster(start, limit)
	for end < limit {
		next := b.seg.nextCluster(end, limit)
		if b.lineWidth(start, next) > width {
			break
		}
		end = next
	}
	return end
}

// elide 在最后一行上计算省略区间。ln.end 已扩展到段落末尾。
func (b *builder) elide(ln lineRange, width float64) *elision {
	end := trimHardBreak(b.runes, ln.start, ln.end)
	bounds := b.seg.boundaries(ln.start, end)
	mw := b.marker.width
	el := &elision{start: end, end: end}

	switch b.req.Ellipsis {
	case EllipsisEnd:
		el.start = ln.start
		for i := len(bounds) - 1; i >= 0; i-- {
			if b.measure(ln.start, bounds[i])+mw <= width {
				el.start = bounds[i]
				break
			}
		}
		// 标记紧贴前一个单词，中间的空白一并省略。
		for el.start > ln.start && unicode.IsSpace(b.runes[el.start-1]) {
			el.start--
		}
		el.end = end

	case EllipsisStart:
		el.start = ln.start
		el.end = end
		for _, c := range bounds {
			if mw+b.lineWidth(c, end) <= width {
				el.end = c
				break
			}
		}
		for el.end < end && unicode.IsSpace(b.runes[el.end]) {
			el.end++
		}

	case EllipsisMiddle:
		count := len(bounds) - 1
		mid := count / 2
		for j := 0; ; j++ {
			lo := max(0, mid-j/2)
			hi := min(count, mid+(j+1)/2)
			el.start, el.end = bounds[lo], bounds[hi]
			if b.measure(ln.start, el.start)+mw+b.lineWidth(el.end, end) <= width {
				break
			}
			if lo == 0 && hi == count {
				break
			}
		}
	}

	el.prefixWidth = b.measure(ln.start, el.start)
	el.width = el.prefixWidth + mw + b.lineWidth(el.end, end)
	return el
}

// place 计算每行的纵向位置、宽度、对齐偏移与字素边界坐标。
func (b *builder) place(lines []lineRange, el *elision, width float64) []Line {
	ext := b.req.Metrics.Extents()
	natural := ext.Ascent + ext.Descent + ext.Leading
	mult := b.req.SpacingMult
	if mult == 0 {
		mult = 1
	}
	extra := natural*(mult-1) + b.req.SpacingAdd

	out := make([]Line, len(lines))
	y := 0.0
	for i, lr := range lines {
		first, last := i == 0, i == len(lines)-1
		above := ext.Ascent
		below := ext.Descent + ext.Leading
		if b.req.IncludePad && first && ext.Top > ext.Ascent {
			above = ext.Top
		}
		if b.req.IncludePad && last && ext.Bottom > ext.Descent {
			below += ext.Bottom - ext.Descent
		}

		ln := Line{Start: lr.start, End: lr.end, Top: y}
		ln.Baseline = y + above
		ln.Bottom = ln.Baseline + below
		if !last {
			ln.Bottom = math.Max(ln.Bottom+extra, ln.Top)
		}

		if el != nil && el.line == i {
			ln.Width = el.width
			ln.Stops = b.elidedStops(lr, el)
		} else {
			ln.Width = b.lineWidth(lr.start, lr.end)
			ln.Stops = b.stops(lr.start, trimHardBreak(b.runes, lr.start, lr.end), 0)
		}
		ln.Left = alignOffset(width, ln.Width, b.req.Align)

		out[i] = ln
		y = ln.Bottom
	}
	b.height = y
	return out
}

func (b *builder) stops(start, end int, x0 float64) []Stop {
	bounds := b.seg.boundaries(start, end)
	out := make([]Stop, 0, len(bounds))
	for _, c := range bounds {
		out = append(out, Stop{Offset: c, X: x0 + b.measure(start, c)})
	}
	return out
}

func (b *builder) elidedStops(lr lineRange, el *elision) []Stop {
	end := trimHardBreak(b.runes, lr.start, lr.end)
	out := b.stops(lr.start, el.start, 0)
	return append(out, b.stops(el.end, end, el.prefixWidth+b.marker.width)...)
}

func alignOffset(container, width float64, align Alignment) float64 {
	if container <= width {
		return 0
	}
	switch align {
	case AlignCenter:
		return (container - width) / 2
	case AlignEnd:
		return container - width
	default:
		return 0
	}
}
