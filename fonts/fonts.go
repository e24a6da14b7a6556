// Package fonts 提供内置字体（Go 字体家族），无需外部 TTF 文件即可测量与渲染。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 名称。
const (
	Go     = "go"
	GoMono = "gomono"
)

var builtin = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bolditalic":  gobolditalic.TTF,
	"gomono-regular": gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-bold" 或直接 "go-bold"；
// 只写家族名（"go"）时返回常规字重。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	if !strings.Contains(key, "-") {
		key += "-regular"
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("内置字体 %s 不存在", name)
	}
	return data, nil
}

// Variant 返回家族在给定粗细/斜体组合下的内置字体名；没有对应字重时退回常规。
func Variant(family string, bold, italic bool) string {
	family = strings.ToLower(strings.TrimPrefix(family, "embed:"))
	suffix := "regular"
	switch {
	case bold && italic:
		suffix = "bolditalic"
	case bold:
		suffix = "bold"
	case italic:
		suffix = "italic"
	}
	if _, ok := builtin[family+"-"+suffix]; ok {
		return family + "-" + suffix
	}
	return family + "-regular"
}

// IsBuiltin reports whether src refers to a built-in face.
func IsBuiltin(src string) bool {
	_, err := Load(src)
	return err == nil
}
