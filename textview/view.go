// Package textview holds the state of one text view: its inputs, the cached layout and
// click routing. The layout is rebuilt lazily on the next Measure after any input
// changed, and reused while the width constraint stays the same.
package textview

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/logging"
	"github.com/ByLCY/fasttext/renderer"
)

// ClickHandler receives the action of a clicked span or of the elision marker.
type ClickHandler func(action string, hit layout.Hit)

// Options 是视图的初始属性。MaxLines 为 0 时表示不限制。
type Options struct {
	Text        layout.Text
	Metrics     layout.Metrics
	MaxWidth    float64
	MaxLines    int
	Align       layout.Alignment
	Ellipsis    layout.EllipsisMode
	SpacingAdd  float64
	SpacingMult float64
	IncludePad  bool
	Replacement *layout.Replacement
	OnClick     ClickHandler
	Logger      *logging.Logger
}

// View 可被多个 goroutine 使用；构建在锁内同步完成。
type View struct {
	mu     sync.Mutex
	opts   Options
	result *layout.Result
	builds int
}

// New creates a view. Nothing is laid out until Measure.
func New(opts Options) *View {
	if opts.MaxLines == 0 {
		opts.MaxLines = layout.Unlimited
	}
	if opts.Replacement != nil {
		rep := *opts.Replacement
		opts.Replacement = &rep
	}
	return &View{opts: opts}
}

// FromRequest creates a view whose inputs are taken from a layout request.
// req.MaxWidth becomes the view's MaxWidth.
func FromRequest(req layout.Request, log *logging.Logger) *View {
	return New(Options{
		Text:        req.Text,
		Metrics:     req.Metrics,
		MaxWidth:    req.MaxWidth,
		MaxLines:    req.MaxLines,
		Align:       req.Align,
		Ellipsis:    req.Ellipsis,
		SpacingAdd:  req.SpacingAdd,
		SpacingMult: req.SpacingMult,
		IncludePad:  req.IncludePad,
		Replacement: req.Replacement,
		Logger:      log,
	})
}

// invalidate 丢弃缓存，下一次 Measure 重新排版。调用方必须持有锁。
func (v *View) invalidate() {
	v.result = nil
}

// SetText replaces the content.
func (v *View) SetText(text layout.Text) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if slices.Equal(v.opts.Text.Runes, text.Runes) && slices.Equal(v.opts.Text.Spans, text.Spans) {
		return
	}
	v.opts.Text = text
	v.invalidate()
}

// SetMaxWidth sets the upper bound of the width; 0 removes it.
func (v *View) SetMaxWidth(width float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.MaxWidth == width {
		return
	}
	v.opts.MaxWidth = width
	v.invalidate()
}

// SetMaxLines sets the line limit; layout.Unlimited removes it.
func (v *View) SetMaxLines(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.MaxLines == n {
		return
	}
	v.opts.MaxLines = n
	v.invalidate()
}

func (v *View) SetAlign(align layout.Alignment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.Align == align {
		return
	}
	v.opts.Align = align
	v.invalidate()
}

func (v *View) SetEllipsis(mode layout.EllipsisMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.Ellipsis == mode {
		return
	}
	v.opts.Ellipsis = mode
	v.invalidate()
}

// SetLineSpacing sets the extra spacing added to and the multiplier applied to each line.
func (v *View) SetLineSpacing(add, mult float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.SpacingAdd == add && v.opts.SpacingMult == mult {
		return
	}
	v.opts.SpacingAdd, v.opts.SpacingMult = add, mult
	v.invalidate()
}

func (v *View) SetIncludePad(pad bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opts.IncludePad == pad {
		return
	}
	v.opts.IncludePad = pad
	v.invalidate()
}

// SetMetrics 更换字体度量。不可比较的实现总是视为变化。
func (v *View) SetMetrics(m layout.Metrics) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sameMetrics(v.opts.Metrics, m) {
		return
	}
	v.opts.Metrics = m
	v.invalidate()
}

// SetReplacement sets the marker drawn in place of elided text; nil restores "…".
func (v *View) SetReplacement(rep *layout.Replacement) {
	v.mu.Lock()
	defer v.mu.Unlock()
	old := v.opts.Replacement
	if (old == nil && rep == nil) || (old != nil && rep != nil && *old == *rep) {
		return
	}
	if rep != nil {
		cp := *rep
		rep = &cp
	}
	v.opts.Replacement = rep
	v.invalidate()
}

// SetOnClick installs the click handler. It does not affect layout.
func (v *View) SetOnClick(fn ClickHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.opts.OnClick = fn
}

// Measure returns the layout for the given available width. The width is clamped to
// MaxWidth; a cached layout built for the same constraint is returned as is.
func (v *View) Measure(width float64) (*layout.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	constraint := width
	if limit := v.opts.MaxWidth; limit > 0 && (constraint <= 0 || constraint > limit) {
		constraint = limit
	}
	if v.result.Matches(constraint) {
		v.opts.Logger.Debug("layout reused")
		return v.result, nil
	}
	if v.opts.Text.Len() == 0 {
		v.result = &layout.Result{Lines: []layout.Line{}, Constraint: constraint}
		return v.result, nil
	}

	start := time.Now()
	res, err := layout.Build(v.request(constraint))
	if err != nil {
		v.opts.Logger.WithFields(map[string]any{"width": constraint}).Error(err, "layout failed")
		return nil, fmt.Errorf("排版失败: %w", err)
	}
	v.builds++
	if v.opts.Logger.Enabled(zerolog.DebugLevel) {
		v.opts.Logger.WithFields(map[string]any{
			"width":     constraint,
			"lines":     res.LineCount(),
			"truncated": res.Truncated,
		}).Timing(start, "layout built")
	}
	v.result = res
	return res, nil
}

func (v *View) request(width float64) layout.Request {
	return layout.Request{
		Text:        v.opts.Text,
		Metrics:     v.opts.Metrics,
		MaxWidth:    width,
		MaxLines:    v.opts.MaxLines,
		Align:       v.opts.Align,
		Ellipsis:    v.opts.Ellipsis,
		SpacingAdd:  v.opts.SpacingAdd,
		SpacingMult: v.opts.SpacingMult,
		IncludePad:  v.opts.IncludePad,
		Replacement: v.opts.Replacement,
	}
}

// Result returns the cached layout, or nil when it has been invalidated.
func (v *View) Result() *layout.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Text returns the current content.
func (v *View) Text() layout.Text {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts.Text
}

// Builds returns how many times the layout has been built.
func (v *View) Builds() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.builds
}

// Click 对缓存的排版做命中测试，把可点击区间或省略标记的动作交给 OnClick。
// 返回点击是否被消费。处理函数在锁外调用，可以安全地修改视图。
func (v *View) Click(x, y float64) bool {
	v.mu.Lock()
	res, text, handler := v.result, v.opts.Text, v.opts.OnClick
	var markerAction string
	if v.opts.Replacement != nil {
		markerAction = v.opts.Replacement.Action
	}
	v.mu.Unlock()

	if res == nil || handler == nil {
		return false
	}
	hit := res.HitTest(text, x, y)
	if !hit.Inside {
		return false
	}
	action := markerAction
	if !hit.Marker {
		sp, ok := hit.Clickable()
		if !ok {
			return false
		}
		action = sp.Style.Action
	}
	if action == "" {
		return false
	}
	handler(action, hit)
	return true
}

// Render draws the cached layout with r.
func (v *View) Render(r renderer.Renderer) ([]byte, error) {
	v.mu.Lock()
	res, text := v.result, v.opts.Text
	v.mu.Unlock()
	if res == nil {
		return nil, fmt.Errorf("视图尚未排版")
	}
	return r.Render(res, text)
}

func sameMetrics(a, b layout.Metrics) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}
