package layout

import (
	"fmt"
	"math"
	"strings"
)

// Unlimited 表示不限制行数。
const Unlimited = math.MaxInt32

// DefaultMarker 是未设置 Replacement 时使用的省略号。
const DefaultMarker = "…"

// Request 描述一次排版所需的全部输入，Build 只读不写。
type Request struct {
	Text    Text
	Metrics Metrics

	MaxWidth float64 // 0 表示不限制宽度
	MaxLines int     // ≥1，或 Unlimited
	Align    Alignment
	Ellipsis EllipsisMode

	SpacingAdd  float64
	SpacingMult float64 // 0 视为 1
	IncludePad  bool

	// Replacement 替换被省略的文本，为空时使用 DefaultMarker。
	Replacement *Replacement
}

// Replacement 是省略处绘制的自定义标记，例如“展开全文”。
type Replacement struct {
	Text   string  `json:"text,omitempty" yaml:"text"`
	Width  float64 `json:"width,omitempty" yaml:"width"` // >0 时直接使用，不再测量 Text
	Action string  `json:"action,omitempty" yaml:"action"`
}

// Extents 是字体的纵向度量，均为非负值。
type Extents struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
	Leading float64 `json:"leading"`
	// Top/Bottom 是字形的最大外延，仅在 IncludePad 时使用；为 0 时退回 Ascent/Descent。
	Top    float64 `json:"top,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
}

// Metrics 负责提供字体度量与宽度测量。实现必须是纯函数：相同输入返回相同宽度。
type Metrics interface {
	Extents() Extents
	Measure(text []rune) float64
}

// StyledMeasurer 由宽度受样式影响的 Metrics 实现（例如粗体区间更宽）。
type StyledMeasurer interface {
	MeasureStyled(text Text, start, end int) float64
}

// Alignment 决定每行在工作宽度内的水平位置。
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseAlignment accepts start/left, center/middle and end/right.
func ParseAlignment(v string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "start", "left":
		return AlignStart, nil
	case "center", "middle":
		return AlignCenter, nil
	case "end", "right":
		return AlignEnd, nil
	default:
		return AlignStart, fmt.Errorf("未知的对齐方式：%s", v)
	}
}

// EllipsisMode 决定超出 MaxLines 时省略的位置。
type EllipsisMode int

const (
	EllipsisNone EllipsisMode = iota
	EllipsisStart
	EllipsisMiddle
	EllipsisEnd
)

func (m EllipsisMode) String() string {
	switch m {
	case EllipsisStart:
		return "start"
	case EllipsisMiddle:
		return "middle"
	case EllipsisEnd:
		return "end"
	default:
		return "none"
	}
}

// ParseEllipsisMode accepts none/start/middle/end. marquee is not supported and maps to an error.
func ParseEllipsisMode(v string) (EllipsisMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return EllipsisNone, nil
	case "start", "head":
		return EllipsisStart, nil
	case "middle":
		return EllipsisMiddle, nil
	case "end", "tail":
		return EllipsisEnd, nil
	default:
		return EllipsisNone, fmt.Errorf("不支持的省略方式：%s", v)
	}
}

func (r Request) validate() error {
	if r.MaxLines <= 0 {
		return invalid("maxLines", "必须 ≥ 1，实际为 %d", r.MaxLines)
	}
	if r.MaxWidth < 0 || math.IsNaN(r.MaxWidth) || math.IsInf(r.MaxWidth, 0) {
		return invalid("maxWidth", "必须是非负有限值，实际为 %g", r.MaxWidth)
	}
	if r.Metrics == nil {
		return invalid("metrics", "缺少字体度量")
	}
	if r.SpacingMult < 0 || math.IsNaN(r.SpacingMult) {
		return invalid("spacingMult", "不能为负，实际为 %g", r.SpacingMult)
	}
	if math.IsNaN(r.SpacingAdd) || math.IsInf(r.SpacingAdd, 0) {
		return invalid("spacingAdd", "必须是有限值")
	}
	if r.Ellipsis < EllipsisNone || r.Ellipsis > EllipsisEnd {
		return invalid("ellipsis", "未知的省略方式 %d", int(r.Ellipsis))
	}
	if r.Align < AlignStart || r.Align > AlignEnd {
		return invalid("align", "未知的对齐方式 %d", int(r.Align))
	}
	if r.Replacement != nil && r.Replacement.Width < 0 {
		return invalid("replacement", "宽度不能为负，实际为 %g", r.Replacement.Width)
	}
	return r.Text.Validate()
}
