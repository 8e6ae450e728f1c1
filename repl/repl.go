// Package repl implements a line-edited read-eval-print loop over a
// sexpr.Evaluator: a readline.Config/history-file/Option pattern driving
// this core's whole-string Parse, with a multi-line continuation
// heuristic standing in for a stateful incremental scanner.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sexprlang/sexpr"
)

// Banner is printed once at startup, word-wrapped to termWidth.
const Banner = "sexpr interactive shell -- Ctrl-D to quit, Ctrl-C to abort the current line"

const termWidth = 80

type config struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
	env    *sexpr.Environment
}

// Option configures Run.
type Option func(*config)

// WithStdin overrides the REPL's input, mainly for tests driving the loop
// over a pipe instead of a terminal.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) { c.stdin = stdin }
}

// WithStdout overrides the REPL's output.
func WithStdout(stdout io.WriteCloser) Option {
	return func(c *config) { c.stdout = stdout }
}

// WithEnv seeds the REPL with env instead of a fresh root environment,
// letting a caller pre-install bindings that every turn can read.
func WithEnv(env *sexpr.Environment) Option {
	return func(c *config) { c.env = env }
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run drives an interactive loop: read one top-level expression (possibly
// spanning several lines), evaluate it against ev and a persistent
// Environment, and print the result, until the input is exhausted or the
// reader errors out (Ctrl-D). One Environment is reused across every turn
// of the loop as the parent of that turn's evaluation scope; each turn
// reduces in its own fresh child scope, so bindings made by one turn (a
// `let` is local to its own body) are not visible to later input.
func Run(ev *sexpr.Evaluator, tokenize sexpr.Tokenizer, format func(*sexpr.SymbolProvider, sexpr.Node) string, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)

	stdout := cfg.stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	env := cfg.env
	if env == nil {
		env = ev.NewRootEnv()
	}

	fmt.Fprintln(stdout, wordwrap.String(Banner, termWidth)) //nolint:errcheck

	rlCfg := &readline.Config{
		Stdout:            stdout,
		Stderr:            stdout,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck

	cont := strings.Repeat(" ", len(prompt))

	for {
		expr, readErr := readExpr(rl, prompt, cont)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if errors.Is(readErr, readline.ErrInterrupt) {
				continue
			}
			return readErr
		}
		if expr == "" {
			continue
		}

		result, evalErr := ev.Evaluate(env, tokenize, expr)
		if evalErr != nil {
			fmt.Fprintln(stdout, evalErr) //nolint:errcheck
			continue
		}
		fmt.Fprintln(stdout, format(ev.Symbols(), result)) //nolint:errcheck
	}
}

// readExpr accumulates lines from rl until incompleteInput no longer
// reports an unclosed list, switching to cont as the prompt on every line
// after the first. It uses that paren-count heuristic rather than a
// stateful incremental scanner, since this core exposes no incremental
// tokenizer of its own; the text is parsed only afterward, by Evaluate.
func readExpr(rl *readline.Instance, prompt, cont string) (string, error) {
	var buf strings.Builder
	rl.SetPrompt(prompt)
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		text := strings.TrimSpace(buf.String())
		if text == "" {
			rl.SetPrompt(prompt)
			buf.Reset()
			continue
		}

		if incompleteInput(text) {
			rl.SetPrompt(cont)
			continue
		}
		return text, nil
	}
}

// incompleteInput reports whether text looks like a prefix of a
// well-formed expression cut short inside a list, rather than a finished
// expression or an unrelated parse error -- the only case the REPL should
// keep reading more lines for.
func incompleteInput(text string) bool {
	open, close := strings.Count(text, "("), strings.Count(text, ")")
	return open > close
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sexpr_history")
}
