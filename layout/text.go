package layout

import "sort"

// 该文件定义带样式区间的文本（attributed text），供排版、命中测试与渲染共用。

// Text 是一段按 rune 存储的文本及其样式区间。
// 区间可以嵌套或重叠，按附加顺序保存。
type Text struct {
	Runes []rune `json:"-"`
	Spans []Span `json:"spans,omitempty"`
}

// Span 把 Style 附加到 [Start, End) 区间上（单位：rune 下标）。
type Span struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Style Style `json:"style"`
}

// Style 是不透明的渲染/行为修饰。Action 非空即表示可点击。
type Style struct {
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
	Action    string `json:"action,omitempty"`
}

// Clickable reports whether the style carries a click action.
func (s Style) Clickable() bool { return s.Action != "" }

// Plain 创建不带任何样式的文本。
func Plain(s string) Text {
	return Text{Runes: []rune(s)}
}

// Len returns the number of runes.
func (t Text) Len() int { return len(t.Runes) }

// String returns the raw text.
func (t Text) String() string { return string(t.Runes) }

// Slice returns the runes of [start, end) as a string.
func (t Text) Slice(start, end int) string {
	start, end = clampRange(start, end, len(t.Runes))
	return string(t.Runes[start:end])
}

// Rich reports whether the text carries style attachments.
func (t Text) Rich() bool { return len(t.Spans) > 0 }

// Attach 追加一个样式区间并返回新文本，原值不变。
func (t Text) Attach(start, end int, style Style) Text {
	spans := make([]Span, len(t.Spans), len(t.Spans)+1)
	copy(spans, t.Spans)
	spans = append(spans, Span{Start: start, End: end, Style: style})
	return Text{Runes: t.Runes, Spans: spans}
}

// Validate 检查所有区间满足 0 ≤ start ≤ end ≤ len。
func (t Text) Validate() error {
	for i, sp := range t.Spans {
		if sp.Start < 0 || sp.Start > sp.End || sp.End > len(t.Runes) {
			return invalid("spans", "第 %d 个区间 [%d, %d) 超出文本长度 %d", i, sp.Start, sp.End, len(t.Runes))
		}
	}
	return nil
}

// SpansAt returns the spans covering offset, in attachment order.
func (t Text) SpansAt(offset int) []Span {
	var out []Span
	for _, sp := range t.Spans {
		if sp.Start <= offset && offset < sp.End {
			out = append(out, sp)
		}
	}
	return out
}

// Overlapping returns the spans intersecting [start, end).
func (t Text) Overlapping(start, end int) []Span {
	var out []Span
	for _, sp := range t.Spans {
		if sp.Start < end && start < sp.End {
			out = append(out, sp)
		}
	}
	return out
}

// StyleAt 按附加顺序合并 offset 处的所有样式，后附加者覆盖先附加者的颜色与动作。
func (t Text) StyleAt(offset int) Style {
	var st Style
	for _, sp := range t.SpansAt(offset) {
		st.Bold = st.Bold || sp.Style.Bold
		st.Italic = st.Italic || sp.Style.Italic
		st.Underline = st.Underline || sp.Style.Underline
		if sp.Style.Color != "" {
			st.Color = sp.Style.Color
		}
		if sp.Style.Action != "" {
			st.Action = sp.Style.Action
		}
	}
	return st
}

// Run 是 [Start, End) 内样式一致的一段文本。
type Run struct {
	Start int
	End   int
	Style Style
}

// Runs 把 [start, end) 按样式边界切分成若干段，样式相同的相邻段不会合并。
func (t Text) Runs(start, end int) []Run {
	start, end = clampRange(start, end, len(t.Runes))
	if start >= end {
		return nil
	}
	cuts := []int{start, end}
	for _, sp := range t.Spans {
		if sp.Start > start && sp.Start < end {
			cuts = append(cuts, sp.Start)
		}
		if sp.End > start && sp.End < end {
			cuts = append(cuts, sp.End)
		}
	}
	sort.Ints(cuts)
	runs := make([]Run, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		if cuts[i] == cuts[i+1] {
			continue
		}
		runs = append(runs, Run{Start: cuts[i], End: cuts[i+1], Style: t.StyleAt(cuts[i])})
	}
	return runs
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	return start, end
}
