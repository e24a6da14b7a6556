// Package binding fills ${path} placeholders in view text from a JSON document.
package binding

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Option 调整插值行为。
type Option func(*options)

type options struct {
	escape func(string) string
}

// WithEscape 在写回前转义替换值，例如 markup.Escape，避免数据被解析成标签。
func WithEscape(fn func(string) string) Option {
	return func(o *options) { o.escape = fn }
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data（JSON）中的值。
// 路径支持 a.b、a[0].b 与 gjson 原生语法；data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data []byte, opts ...Option) string {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return text
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val, ok := Lookup(data, path)
		if !ok {
			return match
		}
		if o.escape != nil {
			return o.escape(val)
		}
		return val
	})
}

// Lookup 解析单个路径，返回值的字符串形式。对象与数组返回原始 JSON。
func Lookup(data []byte, path string) (string, bool) {
	res := gjson.GetBytes(data, normalizePath(path))
	if !res.Exists() || res.Type == gjson.Null {
		return "", false
	}
	if res.IsObject() || res.IsArray() {
		return res.Raw, true
	}
	return res.String(), true
}

// normalizePath 把 items[0].name 写法转换为 gjson 的 items.0.name。
func normalizePath(path string) string {
	if !strings.Contains(path, "[") {
		return path
	}
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			if b.Len() > 0 {
				b.WriteByte('.')
			}
		case ']':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
