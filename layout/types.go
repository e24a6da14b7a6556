package layout

// 该文件定义排版结果，供命中测试、渲染与调试 JSON 共用。

// Result 是一次 Build 的输出，与 Request 之间只有复制来的区间，没有引用。
type Result struct {
	Lines []Line `json:"lines"`
	// Constraint 是构建时请求的 MaxWidth（0 表示不限制），用于判断缓存是否仍然有效。
	Constraint float64 `json:"constraint"`
	// Width 是实际用于折行的工作宽度 min(MaxWidth, 内容宽度)。
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Truncated bool     `json:"truncated"`
	Elision   *Elision `json:"elision,omitempty"`
}

// Line 是排好的一行。Start/End 是源文本中的 rune 区间。
type Line struct {
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Top      float64 `json:"top"`
	Baseline float64 `json:"baseline"`
	Bottom   float64 `json:"bottom"`
	Left     float64 `json:"left"`  // 对齐产生的水平偏移
	Width    float64 `json:"width"` // 不含行尾悬挂空白，含省略标记
	// Stops 记录每个可见字素边界相对 Left 的 x 坐标，按 Offset 递增。
	Stops []Stop `json:"stops,omitempty"`
}

// Stop 是行内一个字素边界的位置。
type Stop struct {
	Offset int     `json:"offset"`
	X      float64 `json:"x"`
}

// Elision 描述最后一行被省略的区间以及标记的绘制位置。
// 省略区间与标记位置分开记录：标记总是只占一个位置，与省略了多少字符无关。
type Elision struct {
	Line   int    `json:"line"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Marker Marker `json:"marker"`
}

// Len returns the number of elided runes.
func (e *Elision) Len() int {
	if e == nil {
		return 0
	}
	return e.End - e.Start
}

// Marker 是替代被省略文本的标记。
type Marker struct {
	At     int     `json:"at"` // 标记绘制处的源文本下标
	X      float64 `json:"x"`  // 相对行 Left 的起点
	Width  float64 `json:"width"`
	Text   string  `json:"text,omitempty"`
	Action string  `json:"action,omitempty"`
}

// LineCount returns the number of laid out lines.
func (r *Result) LineCount() int {
	if r == nil {
		return 0
	}
	return len(r.Lines)
}

// Matches 判断该结果是否仍适用于给定的宽度约束。
// 宽度是反复测量中最常变化的输入，其余输入的变化由调用方显式失效。
func (r *Result) Matches(maxWidth float64) bool {
	return r != nil && r.Constraint == maxWidth
}

// LineText 返回第 i 行实际可见的文本（省略的字符被标记替换）。
func (r *Result) LineText(text Text, i int) string {
	if r == nil || i < 0 || i >= len(r.Lines) {
		return ""
	}
	ln := r.Lines[i]
	if e := r.Elision; e != nil && e.Line == i {
		return text.Slice(ln.Start, e.Start) + e.Marker.Text + text.Slice(e.End, ln.End)
	}
	return text.Slice(ln.Start, ln.End)
}
