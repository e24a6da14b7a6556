package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/fasttext/logging"
)

type rootOptions struct {
	logLevel string
	logHuman bool
	log      *logging.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fasttext",
		Short:         "文本排版：折行、截断、省略与命中测试",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logging.New(logging.Options{
				Level:         opts.logLevel,
				HumanReadable: opts.logHuman,
				Writer:        cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("初始化日志失败: %w", err)
			}
			opts.log = log
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "日志级别 (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.logHuman, "log-human", true, "输出便于阅读的日志")

	cmd.AddCommand(newLayoutCommand(opts), newRenderCommand(opts), newHitCommand(opts))
	return cmd
}
