package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/tpc/history"
	"github.com/chazu/tpc/vm"
)

func runREPL(t *testing.T, r *repl, input string) string {
	t.Helper()
	var out bytes.Buffer
	r.in = strings.NewReader(input)
	r.out = &out
	if r.prompt == "" {
		r.prompt = "-> "
	}
	if r.opts.StackCapacity == 0 {
		r.opts = vm.DefaultOptions()
	}
	r.run()
	return out.String()
}

func TestREPLEvaluatesLines(t *testing.T) {
	out := runREPL(t, &repl{}, "2 + 2 * 2\n\n7 / 2.0\n1 < 2\nexit\n9\n")

	for _, want := range []string{"-> 6\n", "-> 3.5\n", "-> true\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "9\n") {
		t.Errorf("input after exit was evaluated:\n%s", out)
	}
}

func TestREPLReportsErrors(t *testing.T) {
	out := runREPL(t, &repl{}, "1 +\n5 / 0\n")

	wantCompile := "In file: \"stdin\", line: 1\n1 +\n   ^\nUnexpected end of code.\n"
	if !strings.Contains(out, wantCompile) {
		t.Errorf("output missing compile report:\n%s", out)
	}
	if !strings.Contains(out, "Runtime error: Cannot apply '/' to 5 and zero.\n") {
		t.Errorf("output missing runtime report:\n%s", out)
	}
}

func TestREPLDisasm(t *testing.T) {
	out := runREPL(t, &repl{}, ":disasm 1 + 2\n:disasm\n:disasm 1 +\n")

	for _, want := range []string{
		"0000  LOAD_INT 1\n",
		"0012  ADD       ; +\n",
		"0013  END\n",
		"Usage: :disasm EXPR\n",
		"Unexpected end of code.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLDisasmFlag(t *testing.T) {
	out := runREPL(t, &repl{disasm: true}, "3\n")
	if !strings.Contains(out, "0000  LOAD_INT 3\n0009  END\n3\n") {
		t.Errorf("output:\n%s", out)
	}
}

func TestREPLUnknownCommand(t *testing.T) {
	out := runREPL(t, &repl{}, ":frobnicate\n:help\n")
	if !strings.Contains(out, "Unknown command: :frobnicate") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "REPL Commands:") {
		t.Errorf("help not shown:\n%s", out)
	}
}

func TestREPLHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	r := &repl{store: store, session: store.NewSession()}
	out := runREPL(t, r, "1 + 1\n1 <\n:history\n")

	if !strings.Contains(out, "1 + 1  = 2\n") {
		t.Errorf("history missing success line:\n%s", out)
	}
	if !strings.Contains(out, "1 <  ! Unexpected end of code.\n") {
		t.Errorf("history missing failure line:\n%s", out)
	}

	entries, err := r.session.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("journaled %d entries, want 2", len(entries))
	}
}

func TestREPLHistoryDisabled(t *testing.T) {
	out := runREPL(t, &repl{}, ":history\n")
	if !strings.Contains(out, "History is disabled") {
		t.Errorf("output:\n%s", out)
	}
}

func TestEvalLineResult(t *testing.T) {
	var out bytes.Buffer
	r := &repl{out: &out, opts: vm.Options{StackCapacity: 1}}
	if r.evalLine("1 + 2") {
		t.Error("evalLine succeeded with a one-slot stack")
	}
	if !strings.Contains(out.String(), "Runtime error: Stack overflow") {
		t.Errorf("output: %s", out.String())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	m, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if m.VM.StackCapacity <= 0 {
		t.Errorf("stack capacity = %d", m.VM.StackCapacity)
	}
}
