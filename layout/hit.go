package layout

import "sort"

// Hit 是一次命中测试的结果。
type Hit struct {
	Line   int `json:"line"`
	Offset int `json:"offset"` // 源文本下标，未命中任何行时为 -1
	// Inside 表示坐标确实落在该行的文本（或标记）上，而不是行外的空白处。
	Inside bool `json:"inside"`
	// Marker 表示坐标落在省略标记上，此时 Offset 为 Marker.At。
	Marker bool   `json:"marker"`
	Spans  []Span `json:"spans,omitempty"`
}

// Clickable 返回覆盖命中位置的最内层（最后附加的）可点击区间。
func (h Hit) Clickable() (Span, bool) {
	for i := len(h.Spans) - 1; i >= 0; i-- {
		if h.Spans[i].Style.Clickable() {
			return h.Spans[i], true
		}
	}
	return Span{}, false
}

// HitTest 把渲染区域内的坐标映射为文本下标。
// y 在首行之上归入首行，在末行之下归入末行；x 超出行首/行尾时归入首/末字素。
func (r *Result) HitTest(text Text, x, y float64) Hit {
	hit := Hit{Line: -1, Offset: -1}
	if r == nil || len(r.Lines) == 0 {
		return hit
	}
	li := r.lineAt(y)
	ln := r.Lines[li]
	lx := x - ln.Left
	hit.Line = li
	hit.Inside = y >= ln.Top && y < ln.Bottom && lx >= 0 && lx < ln.Width

	if e := r.Elision; e != nil && e.Line == li && lx >= e.Marker.X && lx < e.Marker.X+e.Marker.Width {
		hit.Marker = true
		hit.Offset = e.Marker.At
		return hit
	}
	hit.Offset = ln.offsetAt(lx)
	hit.Spans = text.SpansAt(hit.Offset)
	return hit
}

func (r *Result) lineAt(y float64) int {
	i := sort.Search(len(r.Lines), func(i int) bool { return y < r.Lines[i].Bottom })
	if i == len(r.Lines) {
		return len(r.Lines) - 1
	}
	return i
}

// offsetAt 返回包含 x 的字素的起始下标。
func (ln Line) offsetAt(x float64) int {
	if len(ln.Stops) == 0 {
		return ln.Start
	}
	if len(ln.Stops) == 1 || x < ln.Stops[0].X {
		return ln.Stops[0].Offset
	}
	i := sort.Search(len(ln.Stops), func(i int) bool { return ln.Stops[i].X > x }) - 1
	if i >= len(ln.Stops)-1 {
		i = len(ln.Stops) - 2
	}
	return ln.Stops[i].Offset
}
