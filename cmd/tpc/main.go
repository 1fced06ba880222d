// tpc CLI - evaluates arithmetic expressions from the command line, a REPL
// or an editor over LSP
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/tpc/eval"
	"github.com/chazu/tpc/history"
	"github.com/chazu/tpc/manifest"
	"github.com/chazu/tpc/server"
	"github.com/chazu/tpc/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	expr := flag.String("e", "", "Evaluate an expression and exit")
	disasm := flag.Bool("d", false, "Print the disassembly before running")
	trace := flag.Bool("trace", false, "Trace every executed instruction")
	stack := flag.Int("stack", 0, "Operand stack capacity (default from tpc.toml, else 256)")
	maxSteps := flag.Int("max-steps", 0, "Instruction limit per evaluation, 0 for none")
	lspMode := flag.Bool("lsp", false, "Start language server on stdio")
	noHistory := flag.Bool("no-history", false, "Do not journal REPL lines")
	configDir := flag.String("config", "", "Directory containing tpc.toml (default: search upwards from cwd)")
	verbosity := flag.Int("v", 0, "Log verbosity (higher is more detailed)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tpc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles arithmetic expressions to bytecode and runs them on a stack VM.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tpc                      # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  tpc -e '2 + 2 * 2'       # Evaluate and print 6\n")
		fmt.Fprintf(os.Stderr, "  tpc -d -e '7 / 2.0'      # Show bytecode, then 3.5\n")
		fmt.Fprintf(os.Stderr, "  tpc -lsp                 # Serve diagnostics and hover to an editor\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stack":
			cfg.VM.StackCapacity = *stack
		case "max-steps":
			cfg.VM.MaxSteps = *maxSteps
		case "trace":
			cfg.VM.Trace = *trace
		case "no-history":
			cfg.REPL.History = !*noHistory
		case "v":
			cfg.Log.Verbosity = *verbosity
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	commonlog.Configure(cfg.Log.Verbosity, cfg.LogFile())

	opts := vm.Options{
		StackCapacity: cfg.VM.StackCapacity,
		MaxSteps:      cfg.VM.MaxSteps,
	}
	if cfg.VM.Trace {
		opts.Trace = eval.WriterTrace(os.Stderr)
	}

	if *lspMode {
		if err := server.NewLSP(opts).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	r := &repl{
		in:     os.Stdin,
		out:    os.Stdout,
		prompt: cfg.REPL.Prompt,
		opts:   opts,
		disasm: *disasm,
	}

	if *expr != "" {
		if !r.evalLine(*expr) {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if cfg.REPL.History && cfg.HistoryPath() != "" {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			r.store = store
			r.session = store.NewSession()
		}
	}

	r.run()
}

// loadConfig reads tpc.toml from dir, or searches upwards from the working
// directory when dir is empty. Defaults apply when no file exists.
func loadConfig(dir string) (*manifest.Manifest, error) {
	if dir != "" {
		return manifest.Load(dir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, err := manifest.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default()
		m.Dir = cwd
	}
	return m, nil
}
