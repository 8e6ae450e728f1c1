package cmd

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/sexprlang/sexpr"
	"github.com/sexprlang/sexpr/dap"
	"github.com/sexprlang/sexpr/debug"
	"github.com/sexprlang/sexpr/lang"
)

var (
	debugPort        int
	debugStdio       bool
	debugStopOnEntry bool
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] file.sexpr",
	Short: "Run a file under the DAP debugger",
	Long: `Start a DAP (Debug Adapter Protocol) server for editors to connect to
while running file.sexpr. Breakpoints are set by 1-based position in a
pre-order walk of the file's list expressions (see the dap package's
ListIndex), since this core attaches no source line to a parsed Node.

Transport modes:
  --port N     listen for a DAP client on TCP port N (default 4711)
  --stdio      use stdin/stdout for DAP communication

--stop-on-entry pauses execution before the first expression, giving the
client time to set breakpoints before it sends continue.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0]) //#nosec G304
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		dbg := debug.New(debugOptions()...)

		ev := lang.NewEvaluator(append(evaluatorOptions(), sexpr.WithDebugger(dbg))...)
		env := ev.NewRootEnv()

		root, err := sexpr.Parse(env, lang.Tokenize, string(source))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		dbg.Enable()
		srv := dap.New(dbg, root)

		// root is reduced in place with Reduce, not EvaluateNode: breakpoints
		// are keyed by list-node pointer identity (see the debug package),
		// and EvaluateNode's deep-copy-before-reducing step would hand the
		// debugger a tree of fresh pointers the dap server's ListIndex never
		// indexed. A file run once under the debugger has no second Evaluate
		// call to protect root against, so skipping the copy costs nothing
		// here.
		evalDone := make(chan struct{})
		go func() {
			ev.Reduce(env, root)
			close(evalDone)
		}()

		var serveErr error
		if debugStdio {
			log.Println("DAP debugger: using stdio transport")
			serveErr = srv.ServeStdio(os.Stdin, os.Stdout)
		} else {
			addr := fmt.Sprintf("localhost:%d", debugPort)
			ln, listenErr := net.Listen("tcp", addr)
			if listenErr != nil {
				fmt.Fprintf(os.Stderr, "cannot listen on %s: %v\n", addr, listenErr)
				os.Exit(1)
			}
			defer ln.Close() //nolint:errcheck
			log.Printf("DAP debugger listening on %s", addr)
			serveErr = srv.ServeListener(ln)
		}
		if serveErr != nil {
			fmt.Fprintf(os.Stderr, "dap server error: %v\n", serveErr)
		}

		<-evalDone
		srv.NotifyExit(0) //nolint:errcheck
	},
}

func debugOptions() []debug.Option {
	var opts []debug.Option
	if debugStopOnEntry {
		opts = append(opts, debug.WithStopOnEntry())
	}
	return opts
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().IntVar(&debugPort, "port", 4711, "TCP port for the DAP server")
	debugCmd.Flags().BoolVar(&debugStdio, "stdio", false, "use stdin/stdout for DAP communication")
	debugCmd.Flags().BoolVar(&debugStopOnEntry, "stop-on-entry", false, "pause execution before the first expression")
}
