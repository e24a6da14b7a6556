// Package markup parses lightweight inline tags into attributed layout text.
//
//	Hello [b]bold [i]and italic[/i][/b], [link=open:1][u]click me[/u][/link]
//
// Supported tags are b, i, u, color=<value> and link=<action>. Tags nest; `\[`, `\]`
// and `\\` escape the bracket and backslash characters, and a `[` that does not start
// a well-formed tag is kept as literal text.
package markup

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/fasttext/layout"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Escape", Pattern: `\\[\[\]\\]`},
		{Name: "CloseTag", Pattern: `\[/[A-Za-z]+\]`},
		{Name: "OpenTag", Pattern: `\[[A-Za-z]+(?:=[^\[\]\n]*)?\]`},
		{Name: "Stray", Pattern: `\[`},
		{Name: "Text", Pattern: `[^\[\\]+`},
		{Name: "Backslash", Pattern: `\\`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(markupLexer),
	)
)

// Document is the flat token stream of a markup string. Tag matching happens after
// parsing so mismatches can be reported with both positions.
type Document struct {
	Nodes []*Node `parser:"@@*"`
}

// Node is one token of the stream.
type Node struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Open   *string        `parser:"  @OpenTag"`
	Close  *string        `parser:"| @CloseTag"`
	Escape *string        `parser:"| @Escape"`
	Text   *string        `parser:"| @( Text | Stray | Backslash )"`
}

// Error reports a tag problem at a source position.
type Error struct {
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("markup:%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func errorf(pos lexer.Position, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// ParseDocument exposes the raw token stream.
func ParseDocument(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Parse converts markup into attributed text.
func Parse(input string) (layout.Text, error) {
	doc, err := ParseDocument(input)
	if err != nil {
		return layout.Text{}, fmt.Errorf("解析标记失败: %w", err)
	}
	return doc.Text()
}

type openTag struct {
	name  string
	style layout.Style
	start int
	pos   lexer.Position
}

// Text resolves tags into spans. Spans are attached in closing order, so an inner tag
// is attached before the tag that encloses it.
func (d *Document) Text() (layout.Text, error) {
	var (
		runes []rune
		stack []openTag
		text  layout.Text
	)
	for _, n := range d.Nodes {
		switch {
		case n.Text != nil:
			runes = append(runes, []rune(*n.Text)...)
		case n.Escape != nil:
			runes = append(runes, []rune(*n.Escape)[1])
		case n.Open != nil:
			name, value, _ := strings.Cut(strings.Trim(*n.Open, "[]"), "=")
			style, err := tagStyle(strings.ToLower(name), value, n.Pos)
			if err != nil {
				return layout.Text{}, err
			}
			stack = append(stack, openTag{name: strings.ToLower(name), style: style, start: len(runes), pos: n.Pos})
		case n.Close != nil:
			name := strings.ToLower(strings.Trim(*n.Close, "[/]"))
			if len(stack) == 0 {
				return layout.Text{}, errorf(n.Pos, "多余的结束标签 [/%s]", name)
			}
			top := stack[len(stack)-1]
			if top.name != name {
				return layout.Text{}, errorf(n.Pos, "结束标签 [/%s] 与 %d:%d 处的 [%s] 不匹配", name, top.pos.Line, top.pos.Column, top.name)
			}
			stack = stack[:len(stack)-1]
			if len(runes) > top.start {
				text = text.Attach(top.start, len(runes), top.style)
			}
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return layout.Text{}, errorf(top.pos, "标签 [%s] 未闭合", top.name)
	}
	text.Runes = runes
	return text, nil
}

func tagStyle(name, value string, pos lexer.Position) (layout.Style, error) {
	value = strings.TrimSpace(value)
	switch name {
	case "b", "i", "u":
		if value != "" {
			return layout.Style{}, errorf(pos, "标签 [%s] 不接受参数", name)
		}
	case "color", "link":
		if value == "" {
			return layout.Style{}, errorf(pos, "标签 [%s] 缺少参数", name)
		}
	}
	switch name {
	case "b":
		return layout.Style{Bold: true}, nil
	case "i":
		return layout.Style{Italic: true}, nil
	case "u":
		return layout.Style{Underline: true}, nil
	case "color":
		return layout.Style{Color: value}, nil
	case "link":
		return layout.Style{Action: value}, nil
	default:
		return layout.Style{}, errorf(pos, "未知标签 [%s]", name)
	}
}

// Escape quotes s so that Parse returns it verbatim.
func Escape(s string) string {
	return escaper.Replace(s)
}

var escaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)
