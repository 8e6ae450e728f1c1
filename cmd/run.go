package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sexprlang/sexpr"
	"github.com/sexprlang/sexpr/lang"
)

var runExpression bool

var runCmd = &cobra.Command{
	Use:   "run [flags] file.sexpr",
	Short: "Run sexpr source",
	Long:  `Run sexpr source supplied as a file path, or as a literal expression with -e.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var source string
		if runExpression {
			source = args[0]
		} else {
			b, err := os.ReadFile(args[0]) //#nosec G304
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			source = string(b)
		}

		ev := lang.NewEvaluator(evaluatorOptions()...)
		env := ev.NewRootEnv()
		result, err := ev.Evaluate(env, lang.Tokenize, source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if sym := asUnknown(result); sym {
			fmt.Fprintln(os.Stderr, "evaluation produced the unknown sentinel")
			os.Exit(1)
		}
		fmt.Println(lang.Format(ev.Symbols(), result))
	},
}

func asUnknown(n sexpr.Node) bool {
	sym, ok := n.(sexpr.Atom)
	if !ok {
		return false
	}
	s := sym.AsSymbol()
	return s != nil && s.Index == 0
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"interpret the argument as a sexpr expression rather than a file path")
}
