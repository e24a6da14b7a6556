package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/fasttext/layout"
)

// Attrs 是一个文本视图的全部属性，对应 YAML 属性文件。
//
//	text: "Hello ${user.name}, [b]welcome[/b]"
//	markup: true
//	data: '{"user": {"name": "Ada"}}'
//	font: {src: "embed:go", size: 12pt}
//	fonts: {brand: fonts/brand.ttf} # font.src 可写 built-in:brand
//	maxWidth: 60mm
//	maxLines: 2
//	ellipsize: end
//	marker: {text: "more", action: expand}
type Attrs struct {
	Text     string `yaml:"text" validate:"required_without=TextFile"`
	TextFile string `yaml:"textFile"`
	Markup   bool   `yaml:"markup"`
	Data     string `yaml:"data" validate:"omitempty,json"`
	DataFile string `yaml:"dataFile"`

	Font        Font              `yaml:"font"`
	Fonts       map[string]string `yaml:"fonts" validate:"dive,keys,required,endkeys,required"`
	MaxWidth    Length            `yaml:"maxWidth" validate:"gte=0"`
	MaxLines    *int              `yaml:"maxLines" validate:"omitempty,gte=1"`
	Align       string            `yaml:"align" validate:"omitempty,oneof=start left center middle end right"`
	Ellipsize   string            `yaml:"ellipsize" validate:"omitempty,oneof=none start head middle end tail"`
	LineSpacing Spacing           `yaml:"lineSpacing"`
	IncludePad  *bool             `yaml:"includePad"`
	Marker      *Marker           `yaml:"marker"`

	// baseDir 是属性文件所在目录，用于解析 textFile/dataFile 与字体路径。
	baseDir string
}

// Font describes the face used for measuring and drawing.
type Font struct {
	Src   string `yaml:"src"`
	Style string `yaml:"style" validate:"omitempty,oneof=regular bold italic bolditalic light medium semibold extrabold black"`
	Size  Length `yaml:"size" validate:"gte=0"`
	Color string `yaml:"color" validate:"omitempty,hexcolor"`
}

// Spacing 对应行距的加值与倍数。
type Spacing struct {
	Add        Length  `yaml:"add"`
	Multiplier float64 `yaml:"multiplier" validate:"gte=0"`
}

// Marker 是省略处的自定义替换标记。
type Marker struct {
	Text   string `yaml:"text"`
	Width  Length `yaml:"width" validate:"gte=0"`
	Action string `yaml:"action"`
}

// Length 允许 YAML 中直接书写 "12pt"、"40mm" 或纯数字。
type Length struct {
	layout.Length
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: 长度必须是标量", node.Line)
	}
	if err := l.Length.UnmarshalText([]byte(node.Value)); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Length) MarshalYAML() (any, error) {
	if l.IsZero() {
		return nil, nil
	}
	return l.String(), nil
}

// BaseDir returns the directory relative paths are resolved against.
func (a *Attrs) BaseDir() string { return a.baseDir }
