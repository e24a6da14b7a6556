package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/fasttext/binding"
	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/markup"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads an attributes file from disk, validates it and returns the result.
func Load(path string) (*Attrs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(path, 0, err)
	}
	attrs, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	attrs.baseDir = filepath.Dir(path)
	return attrs, nil
}

// Parse decodes and validates YAML attributes. name is only used in errors.
func Parse(name string, data []byte) (*Attrs, error) {
	var attrs Attrs
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, NewParseError(name, extractLine(err), err)
	}
	if err := Validate(&attrs); err != nil {
		return nil, err
	}
	return &attrs, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}

// Content 读取文本、插入数据并（可选）解析标记，得到排版用的带样式文本。
func (a *Attrs) Content() (layout.Text, error) {
	raw := a.Text
	if a.TextFile != "" {
		b, err := os.ReadFile(a.resolve(a.TextFile))
		if err != nil {
			return layout.Text{}, fmt.Errorf("读取文本文件失败: %w", err)
		}
		raw = string(b)
	}

	data := []byte(a.Data)
	if a.DataFile != "" {
		b, err := os.ReadFile(a.resolve(a.DataFile))
		if err != nil {
			return layout.Text{}, fmt.Errorf("读取数据文件失败: %w", err)
		}
		data = b
	}

	if !a.Markup {
		return layout.Plain(binding.Interpolate(raw, data)), nil
	}
	text, err := markup.Parse(binding.Interpolate(raw, data, binding.WithEscape(markup.Escape)))
	if err != nil {
		return layout.Text{}, err
	}
	return text, nil
}

// Request 用给定的字体度量组装排版请求。带单位的长度换算为毫米，纯数字按度量自身的单位解释。
func (a *Attrs) Request(metrics layout.Metrics) (layout.Request, error) {
	text, err := a.Content()
	if err != nil {
		return layout.Request{}, err
	}
	align, err := layout.ParseAlignment(a.Align)
	if err != nil {
		return layout.Request{}, NewValidationError("align", err.Error(), err)
	}
	ellipsis, err := layout.ParseEllipsisMode(a.Ellipsize)
	if err != nil {
		return layout.Request{}, NewValidationError("ellipsize", err.Error(), err)
	}

	req := layout.Request{
		Text:        text,
		Metrics:     metrics,
		MaxWidth:    a.MaxWidth.ToMM(),
		MaxLines:    layout.Unlimited,
		Align:       align,
		Ellipsis:    ellipsis,
		SpacingAdd:  a.LineSpacing.Add.ToMM(),
		SpacingMult: a.LineSpacing.Multiplier,
		IncludePad:  a.IncludePad == nil || *a.IncludePad,
	}
	if a.MaxLines != nil {
		req.MaxLines = *a.MaxLines
	}
	if a.Marker != nil {
		req.Replacement = &layout.Replacement{
			Text:   a.Marker.Text,
			Width:  a.Marker.Width.ToMM(),
			Action: a.Marker.Action,
		}
	}
	return req, nil
}

// FontSource returns the font src resolved against the attributes file directory.
func (a *Attrs) FontSource() string {
	src := a.Font.Src
	if src == "" || strings.Contains(src, ":") || filepath.IsAbs(src) {
		return src
	}
	return a.resolve(src)
}

// FontResources returns the declared fonts with their paths resolved against the
// attributes file directory.
func (a *Attrs) FontResources() map[string]string {
	if len(a.Fonts) == 0 {
		return nil
	}
	out := make(map[string]string, len(a.Fonts))
	for name, path := range a.Fonts {
		out[name] = a.resolve(path)
	}
	return out
}

func (a *Attrs) resolve(path string) string {
	if filepath.IsAbs(path) || a.baseDir == "" {
		return path
	}
	return filepath.Join(a.baseDir, path)
}
