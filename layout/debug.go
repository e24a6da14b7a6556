package layout

import (
	"encoding/json"
	"os"
)

// DebugLine 是调试输出中的一行，附带可见文本便于人工检查。
type DebugLine struct {
	Line
	Text string `json:"text"`
}

// DebugDump 是写入调试 JSON 的整体结构。
type DebugDump struct {
	Source    string      `json:"source"`
	Spans     []Span      `json:"spans,omitempty"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Truncated bool        `json:"truncated"`
	Elision   *Elision    `json:"elision,omitempty"`
	Lines     []DebugLine `json:"lines"`
}

// Dump 把结果与源文本组合成调试结构。
func Dump(res *Result, text Text) DebugDump {
	d := DebugDump{Source: text.String(), Spans: text.Spans, Lines: []DebugLine{}}
	if res == nil {
		return d
	}
	d.Width, d.Height, d.Truncated, d.Elision = res.Width, res.Height, res.Truncated, res.Elision
	for i, ln := range res.Lines {
		d.Lines = append(d.Lines, DebugLine{Line: ln, Text: res.LineText(text, i)})
	}
	return d
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, text Text, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(Dump(res, text), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
