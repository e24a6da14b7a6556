package renderer

import "github.com/ByLCY/fasttext/layout"

// Renderer 将布局结果输出为最终产物，例如 PDF 字节或终端 ANSI 文本。
// text 必须是构建 res 时使用的同一份文本。
type Renderer interface {
	Render(res *layout.Result, text layout.Text) ([]byte, error)
}
