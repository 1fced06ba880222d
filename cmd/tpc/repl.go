package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/tpc/diag"
	"github.com/chazu/tpc/eval"
	"github.com/chazu/tpc/history"
	"github.com/chazu/tpc/vm"
)

// repl is an interactive read-eval-print loop. Each line is one expression.
type repl struct {
	in     io.Reader
	out    io.Writer
	prompt string
	opts   vm.Options
	disasm bool

	// Optional journal; nil when history is disabled.
	store   *history.Store
	session *history.Session
}

// run reads lines until EOF or exit/quit.
func (r *repl) run() {
	fmt.Fprintln(r.out, "tpc REPL (type 'exit' to quit, ':help' for commands)")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, r.prompt)

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Handle exit
		if trimmed == "exit" || trimmed == "quit" {
			return
		}

		// Handle REPL commands (start with ':')
		if strings.HasPrefix(trimmed, ":") {
			r.command(trimmed)
			continue
		}

		if trimmed == "" {
			continue
		}

		r.evalLine(line)
	}

	fmt.Fprintln(r.out)
}

// evalLine evaluates one line, prints the value or diagnostic and journals
// the outcome. It reports whether evaluation succeeded.
func (r *repl) evalLine(line string) bool {
	prog, err := eval.Compile(line)
	if err == nil {
		if r.disasm {
			fmt.Fprint(r.out, prog.Disassemble())
		}
		var v vm.Value
		v, err = eval.Execute(prog, r.opts)
		if err == nil {
			fmt.Fprintln(r.out, v)
		}
		r.record(history.NewEntry(line, v, err))
	} else {
		r.record(history.NewEntry(line, vm.Void, err))
	}

	if err != nil {
		diag.Report(r.out, "stdin", []byte(line), err)
		return false
	}
	return true
}

func (r *repl) record(e history.Entry) {
	if r.session == nil {
		return
	}
	if err := r.session.Record(e); err != nil {
		fmt.Fprintf(r.out, "Warning: %v\n", err)
	}
}

// command handles REPL meta-commands
func (r *repl) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.out, "REPL Commands:")
		fmt.Fprintln(r.out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(r.out, "  :disasm EXPR      Show the bytecode of EXPR without running it")
		fmt.Fprintln(r.out, "  :history [N]      Show the last N journaled lines (default 10)")
		fmt.Fprintln(r.out, "  exit, quit        Exit REPL")
	case ":disasm":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: :disasm EXPR")
			return
		}
		prog, err := eval.Compile(arg)
		if err != nil {
			diag.Report(r.out, "stdin", []byte(arg), err)
			return
		}
		fmt.Fprint(r.out, prog.Disassemble())
	case ":history":
		r.showHistory(arg)
	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func (r *repl) showHistory(arg string) {
	if r.store == nil {
		fmt.Fprintln(r.out, "History is disabled")
		return
	}

	limit := 10
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Fprintf(r.out, "Invalid count: %s\n", arg)
			return
		}
		limit = n
	}

	records, err := r.store.Recent(limit)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	// Oldest first, like a shell history
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Failed() {
			fmt.Fprintf(r.out, "%5d  %s  ! %s\n", rec.ID, rec.Source, rec.Error)
		} else {
			fmt.Fprintf(r.out, "%5d  %s  = %s\n", rec.ID, rec.Source, rec.Result)
		}
	}
}
