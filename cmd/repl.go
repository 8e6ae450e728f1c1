package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sexprlang/sexpr/lang"
	"github.com/sexprlang/sexpr/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive sexpr REPL",
	Long: `Start an interactive read-eval-print loop over lang's reference
interpreter. Line editing and in-session command history are supported
via readline. Use Ctrl-D to exit; Ctrl-C abandons the current line.`,
	Run: func(cmd *cobra.Command, args []string) {
		ev := lang.NewEvaluator(evaluatorOptions()...)
		prompt := filepath.Base(os.Args[0]) + "> "
		if err := repl.Run(ev, lang.Tokenize, lang.Format, prompt); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
