package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ByLCY/fasttext/config"
	"github.com/ByLCY/fasttext/layout"
	"github.com/ByLCY/fasttext/renderer"
	canvasrenderer "github.com/ByLCY/fasttext/renderer/canvas"
	termrenderer "github.com/ByLCY/fasttext/renderer/term"
	"github.com/ByLCY/fasttext/textview"
)

// viewFlags 是各子命令共用的输入参数。
type viewFlags struct {
	configPath string
	width      float64
	backend    string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "视图属性 YAML 文件")
	cmd.Flags().Float64Var(&f.width, "width", 0, "可用宽度（度量单位：canvas 为 mm，term 为字符格）；0 表示使用 maxWidth")
	cmd.Flags().StringVar(&f.backend, "backend", "canvas", "字体度量后端 (canvas|term)")
	_ = cmd.MarkFlagRequired("config")
}

// session 串联属性加载、度量后端与视图。
type session struct {
	attrs    *config.Attrs
	view     *textview.View
	result   *layout.Result
	renderer renderer.Renderer
}

func openSession(root *rootOptions, f *viewFlags) (*session, error) {
	attrs, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	var (
		metrics layout.Metrics
		r       renderer.Renderer
	)
	switch f.backend {
	case "canvas":
		resources := map[string]canvasrenderer.Resource{}
		for name, path := range attrs.FontResources() {
			resources[name] = canvasrenderer.Resource{Path: path}
		}
		cr := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir: attrs.BaseDir(),
			Fonts:   resources,
			Font:    fontSpec(attrs),
			Padding: 2,
			Title:   filepath.Base(f.configPath),
		})
		m, err := cr.Metrics(cr.Font())
		if err != nil {
			return nil, fmt.Errorf("加载字体失败: %w", err)
		}
		metrics, r = m, cr
	case "term":
		metrics, r = termrenderer.Metrics{}, termrenderer.NewRenderer(termrenderer.Options{
			Profile: stdoutProfile(),
			Output:  os.Stdout,
		})
	default:
		return nil, fmt.Errorf("未知的度量后端 %q", f.backend)
	}

	req, err := attrs.Request(metrics)
	if err != nil {
		return nil, err
	}
	if req.Replacement != nil && req.Ellipsis == layout.EllipsisNone {
		root.log.Warn("ellipsize 未启用，marker 不会生效")
	}
	view := textview.FromRequest(req, root.log.WithFields(map[string]any{"config": f.configPath}))
	res, err := view.Measure(f.width)
	if err != nil {
		return nil, err
	}
	return &session{attrs: attrs, view: view, result: res, renderer: r}, nil
}

func fontSpec(attrs *config.Attrs) canvasrenderer.FontSpec {
	spec := canvasrenderer.DefaultFont
	if src := attrs.FontSource(); src != "" {
		spec.Src = src
	}
	spec.Style = attrs.Font.Style
	if !attrs.Font.Size.IsZero() {
		spec.Size = attrs.Font.Size.ToMM()
	}
	spec.Color = attrs.Font.Color
	return spec
}

// stdoutProfile 在输出不是终端时关闭 ANSI 样式。
func stdoutProfile() *termenv.Profile {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	p := termenv.Ascii
	return &p
}

func newLayoutCommand(root *rootOptions) *cobra.Command {
	var (
		flags     viewFlags
		debugPath string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "排版并逐行输出结果",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(root, &flags)
			if err != nil {
				return err
			}
			text := s.view.Text()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "width=%.2f height=%.2f lines=%d truncated=%t\n", s.result.Width, s.result.Height, s.result.LineCount(), s.result.Truncated)
			for i, ln := range s.result.Lines {
				fmt.Fprintf(out, "%3d [%d,%d) x=%.2f w=%.2f %q\n", i, ln.Start, ln.End, ln.Left, ln.Width, s.result.LineText(text, i))
			}
			if e := s.result.Elision; e != nil {
				fmt.Fprintf(out, "elided line=%d [%d,%d) marker at %d x=%.2f w=%.2f\n", e.Line, e.Start, e.End, e.Marker.At, e.Marker.X, e.Marker.Width)
			}
			if debugPath == "" {
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
				return fmt.Errorf("创建调试目录失败: %w", err)
			}
			if err := layout.WriteDebugJSON(s.result, text, debugPath); err != nil {
				return fmt.Errorf("输出调试 JSON 失败: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&debugPath, "debug", "", "布局调试 JSON 输出路径")
	return cmd
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	var (
		flags  viewFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "渲染为 PDF（canvas 后端）或终端文本（term 后端）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(root, &flags)
			if err != nil {
				return err
			}
			data, err := s.view.Render(s.renderer)
			if err != nil {
				return fmt.Errorf("渲染失败: %w", err)
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("创建输出目录失败: %w", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("写入文件失败: %w", err)
			}
			root.log.Info("已生成 " + output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "", "输出路径；为空时写到标准输出")
	return cmd
}

func newHitCommand(root *rootOptions) *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "hit X Y",
		Short: "命中测试：输出坐标对应的文本下标与可点击动作",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("无法解析 X: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("无法解析 Y: %w", err)
			}
			s, err := openSession(root, &flags)
			if err != nil {
				return err
			}

			out := struct {
				layout.Hit
				Action string `json:"action,omitempty"`
			}{}
			s.view.SetOnClick(func(action string, hit layout.Hit) { out.Action = action })
			s.view.Click(x, y)
			out.Hit = s.result.HitTest(s.view.Text(), x, y)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	flags.register(cmd)
	return cmd
}
