// Package cmd implements the sexpr CLI: run, repl, and debug subcommands
// over lang's reference interpreter, using cobra.Command wiring and viper
// config loading via initConfig, trimmed to this core's actual surface --
// no doc/lint/fmt subcommands, since those depend on a package/library
// system this core does not have.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sexprlang/sexpr"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sexpr",
	Short: "sexpr -- a minimal S-expression evaluator core",
	Long: `sexpr is a reference interpreter built on a minimal evaluator core for
LISP-family languages: arithmetic, comparison, list construction/access, a
lazy if, and print, reduced by left-to-right single-step rewriting of (head
. operands) lists.

Getting started:
  sexpr run file.sexpr          Run a source file
  sexpr run -e '(+ 1 2)'        Evaluate an expression
  sexpr repl                    Start an interactive REPL
  sexpr debug file.sexpr        Run a file under the DAP debugger`,
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sexprrc.yaml)")
	rootCmd.PersistentFlags().Int64("max-steps", 0, "maximum reduction steps per Evaluate call (0: unlimited)")
	rootCmd.PersistentFlags().Int("max-stack-height", 0, "maximum depth of nested reductions (0: unlimited)")
	viper.BindPFlag("max-steps", rootCmd.PersistentFlags().Lookup("max-steps"))               //nolint:errcheck
	viper.BindPFlag("max-stack-height", rootCmd.PersistentFlags().Lookup("max-stack-height")) //nolint:errcheck
}

// initConfig reads .sexprrc.yaml from the user's home directory, or the
// file named by --config, plus any SEXPR_-prefixed environment
// variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".sexprrc")
	}

	viper.SetEnvPrefix("sexpr")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// evaluatorOptions builds the sexpr.Config slice implied by viper's
// resolved max-steps/max-stack-height settings, shared by run/repl/debug.
func evaluatorOptions() []sexpr.Config {
	var opts []sexpr.Config
	if n := viper.GetInt64("max-steps"); n > 0 {
		opts = append(opts, sexpr.WithMaxSteps(n))
	}
	if n := viper.GetInt("max-stack-height"); n > 0 {
		opts = append(opts, sexpr.WithMaxStackHeight(n))
	}
	return opts
}
